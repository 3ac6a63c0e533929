// Wv2toar converts one band of a WorldView-2 image from raw digital
// counts to top-of-atmosphere radiance or reflectance, using the
// calibration constants in the scene's IMD metadata file.
//
// The pixel work is delegated to a raster backend: the surrounding
// GRASS session (g.region + r.mapcalc) or an in-process GDAL transform.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/overcast-gis/wv2toar/internal/cli"
	"github.com/overcast-gis/wv2toar/internal/config"
)

func main() {
	var (
		input        = pflag.StringP("input", "i", "", "WorldView-2 raster to be corrected")
		outputPrefix = pflag.StringP("output-prefix", "o", "", "Prefix for the output raster name")
		metadata     = pflag.StringP("metadata", "x", "", "Path to the IMD XML metadata file for the input")
		bandName     = pflag.StringP("band", "b", "", "Band to correct (Pan, Coastal, Blue, Green, Yellow, Red, Red Edge, NIR1, NIR2)")
		numeric      = pflag.BoolP("numeric-band-codes", "n", false, "Use the sequential band number in the output name")
		radiance     = pflag.BoolP("radiance", "r", false, "Output radiance instead of reflectance")
		backend      = pflag.String("engine", "", "Raster backend override (grass or gdal)")
		configPath   = pflag.StringP("config", "c", "", "Path to config TOML (defaults apply when omitted)")
		showVersion  = pflag.Bool("version", false, "Print version and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Printf("wv2toar %s (built %s)\n", cli.Version, cli.BuiltAt)
		return
	}

	// A .env alongside the invocation may carry the GRASS session
	// variables (GISBASE, GISRC). Missing file is fine.
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "wv2toar: config load failed: %v\n", err)
			os.Exit(1)
		}
	}

	logger := newLogger(cfg.Logging.Level)

	if *input == "" || *outputPrefix == "" || *metadata == "" || *bandName == "" {
		fmt.Fprintln(os.Stderr, "wv2toar: --input, --output-prefix, --metadata, and --band are required")
		pflag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Run(ctx, cli.Options{
		Input:        *input,
		OutputPrefix: *outputPrefix,
		MetadataPath: *metadata,
		BandName:     *bandName,
		Numeric:      *numeric,
		Radiance:     *radiance,
		Backend:      *backend,
		Cfg:          cfg,
		Log:          logger,
	})
	if err != nil {
		logger.Error().Err(err).Msg("conversion failed")
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}
