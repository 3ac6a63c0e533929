// Package gdal evaluates the TOA transform in-process with GDAL. It
// needs no GRASS session: the input is any GDAL-readable single-band
// raster and the output is written through a GDAL driver, GeoTIFF by
// default.
package gdal

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/lukeroth/gdal"
	"github.com/rs/zerolog"

	"github.com/overcast-gis/wv2toar/internal/toa"
)

// stripeRows is how many raster rows are read, transformed, and written
// per iteration. 256 rows of a typical WV-2 strip keeps the working set
// in the tens of megabytes.
const stripeRows = 256

// Engine reads the input band in row stripes, applies the transform to
// each pixel, and writes a float64 output raster. The per-pixel work is
// spread across a worker pool; all GDAL calls stay on one goroutine.
type Engine struct {
	log     zerolog.Logger
	driver  string
	workers int
}

// New returns an engine writing through the named GDAL driver. workers
// limits transform parallelism; zero means one worker per CPU.
func New(log zerolog.Logger, driver string, workers int) *Engine {
	if driver == "" {
		driver = "GTiff"
	}
	return &Engine{log: log, driver: driver, workers: workers}
}

// Apply converts band 1 of the input dataset and materializes output.
// The result is staged at a temporary path and renamed into place only
// after a complete write, so a failure never leaves a partial output
// visible.
func (e *Engine) Apply(ctx context.Context, input, output string, tr toa.Transform) error {
	src, err := gdal.Open(input, gdal.ReadOnly)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer src.Close()

	staging := output + ".part"
	if err := e.convert(ctx, src, staging, tr); err != nil {
		os.Remove(staging)
		return err
	}
	if err := os.Rename(staging, output); err != nil {
		os.Remove(staging)
		return fmt.Errorf("finalize %s: %w", output, err)
	}
	return nil
}

func (e *Engine) convert(ctx context.Context, src gdal.Dataset, path string, tr toa.Transform) error {
	xSize := src.RasterXSize()
	ySize := src.RasterYSize()
	srcBand := src.RasterBand(1)
	nodata, hasNodata := srcBand.NoDataValue()

	driver, err := gdal.GetDriverByName(e.driver)
	if err != nil {
		return fmt.Errorf("driver %s: %w", e.driver, err)
	}

	dst := driver.Create(path, xSize, ySize, 1, gdal.Float64, nil)
	defer dst.Close()
	dst.SetGeoTransform(src.GeoTransform())
	dst.SetProjection(src.Projection())

	dstBand := dst.RasterBand(1)
	if hasNodata {
		dstBand.SetNoDataValue(nodata)
	}

	buf := make([]float64, xSize*stripeRows)
	for y := 0; y < ySize; y += stripeRows {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows := min(stripeRows, ySize-y)
		stripe := buf[:xSize*rows]
		if err := srcBand.IO(gdal.RWFlag(gdal.Read), 0, y, xSize, rows, stripe, xSize, rows, 0, 0); err != nil {
			return fmt.Errorf("read rows %d-%d: %w", y, y+rows-1, err)
		}

		evalStripe(stripe, tr, nodata, hasNodata, e.poolSize())

		if err := dstBand.IO(gdal.RWFlag(gdal.Write), 0, y, xSize, rows, stripe, xSize, rows, 0, 0); err != nil {
			return fmt.Errorf("write rows %d-%d: %w", y, y+rows-1, err)
		}
	}

	e.log.Debug().Int("cols", xSize).Int("rows", ySize).Str("path", path).Msg("raster transform complete")
	return nil
}

func (e *Engine) poolSize() int {
	if e.workers > 0 {
		return e.workers
	}
	return runtime.GOMAXPROCS(0)
}

// evalStripe applies tr to every count in the stripe, splitting the work
// across `workers` goroutines. The transform has no cross-pixel state so
// chunks are fully independent. Nodata counts are left untouched; NaN
// passthrough is handled inside the transform itself.
func evalStripe(stripe []float64, tr toa.Transform, nodata float64, hasNodata bool, workers int) {
	chunk := (len(stripe) + workers - 1) / workers
	if chunk == 0 {
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < len(stripe); start += chunk {
		end := min(start+chunk, len(stripe))
		wg.Add(1)
		go func(px []float64) {
			defer wg.Done()
			for i, dn := range px {
				if hasNodata && dn == nodata {
					continue
				}
				px[i] = tr.Eval(dn)
			}
		}(stripe[start:end])
	}
	wg.Wait()
}
