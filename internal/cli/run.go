// Package cli wires metadata extraction, the TOA transfer functions,
// and the selected raster backend into one conversion invocation. It
// owns the invocation lifecycle: one band of one raster in, one output
// raster (or an error with nothing written) out.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/overcast-gis/wv2toar/internal/band"
	"github.com/overcast-gis/wv2toar/internal/config"
	"github.com/overcast-gis/wv2toar/internal/imd"
	gdaleng "github.com/overcast-gis/wv2toar/internal/raster/gdal"
	"github.com/overcast-gis/wv2toar/internal/raster/grass"
	"github.com/overcast-gis/wv2toar/internal/toa"
)

// Options holds everything Run needs from the caller.
type Options struct {
	Input        string // input raster name or path
	OutputPrefix string
	MetadataPath string // IMD XML file
	BandName     string // one of the nine band selections
	Numeric      bool   // sequential band code in the output name
	Radiance     bool   // stop at radiance instead of reflectance
	Backend      string // raster backend override; empty means config

	Cfg config.Config
	Log zerolog.Logger
}

// Run performs one conversion. Extraction and timestamp failures abort
// before the raster engine is touched, so no output is created on error.
func Run(ctx context.Context, opts Options) error {
	b, err := band.Parse(opts.BandName)
	if err != nil {
		return err
	}

	doc, err := imd.Load(opts.MetadataPath)
	if err != nil {
		return err
	}

	rec, err := imd.Extract(doc, b)
	if err != nil {
		return err
	}

	if rec.SolarZenithDeg < 0 || rec.SolarZenithDeg >= 90 {
		opts.Log.Warn().
			Float64("solar_zenith_deg", rec.SolarZenithDeg).
			Msg("solar zenith outside [0, 90); results may not be physically meaningful")
	}

	mode := toa.Reflectance
	if opts.Radiance {
		mode = toa.Radiance
	}

	numeric := opts.Numeric || opts.Cfg.Output.NumericBandCodes
	output := toa.OutputName(opts.OutputPrefix, b, numeric)

	engine, err := newEngine(opts)
	if err != nil {
		return err
	}

	opts.Log.Info().
		Str("band", b.String()).
		Str("input", opts.Input).
		Str("output", output).
		Float64("earth_sun_dist_au", rec.EarthSunDistAU).
		Msgf("calculating top-of-atmosphere %s", mode)

	if err := toa.Convert(ctx, engine, opts.Input, output, rec, mode); err != nil {
		return fmt.Errorf("convert %s: %w", opts.Input, err)
	}

	opts.Log.Info().Str("output", output).Msg("conversion complete")
	return nil
}

func newEngine(opts Options) (toa.Engine, error) {
	backend := opts.Backend
	if backend == "" {
		backend = opts.Cfg.Engine.Backend
	}
	switch backend {
	case "grass":
		return grass.New(opts.Log, opts.Cfg.Grass.GISBase, opts.Cfg.Output.Overwrite)
	case "gdal":
		return gdaleng.New(opts.Log, opts.Cfg.GDAL.Driver, opts.Cfg.GDAL.Workers), nil
	default:
		return nil, fmt.Errorf("unknown raster backend %q", backend)
	}
}
