// Package toa holds the WorldView-2 top-of-atmosphere transfer
// functions. A Transform is the fully parameterized per-pixel function
// for one band; an Engine materializes it over a raster.
package toa

import (
	"context"
	"math"

	"github.com/overcast-gis/wv2toar/internal/band"
	"github.com/overcast-gis/wv2toar/internal/imd"
)

// Mode selects which transfer function is applied.
type Mode int

const (
	// Reflectance scales radiance by the Sun-Earth geometry at
	// acquisition time. This is the default output.
	Reflectance Mode = iota

	// Radiance stops at band-averaged spectral radiance.
	Radiance
)

func (m Mode) String() string {
	if m == Radiance {
		return "radiance"
	}
	return "reflectance"
}

// Transform is the per-pixel transfer function with every scalar bound.
// In radiance mode only the gain and bandwidth are consulted; the
// remaining fields parameterize the reflectance scaling.
type Transform struct {
	Mode               Mode
	AbsCalFactor       float64
	EffectiveBandwidth float64
	EarthSunDistAU     float64
	SolarIrradiance    float64
	SolarZenithDeg     float64
}

// Engine evaluates a transform over every valid pixel of the input
// raster and materializes a new raster named output. Implementations
// must not leave a partially written output visible on failure.
type Engine interface {
	Apply(ctx context.Context, input, output string, tr Transform) error
}

// NewTransform binds the calibration record to a transfer function.
func NewTransform(rec imd.CalibrationRecord, mode Mode) Transform {
	return Transform{
		Mode:               mode,
		AbsCalFactor:       rec.AbsCalFactor,
		EffectiveBandwidth: rec.EffectiveBandwidth,
		EarthSunDistAU:     rec.EarthSunDistAU,
		SolarIrradiance:    rec.SolarIrradiance,
		SolarZenithDeg:     rec.SolarZenithDeg,
	}
}

// Eval applies the transfer function to one raw digital count. NaN
// passes through unchanged so no-data pixels survive the conversion.
// A solar zenith at or past the horizon is not special-cased; the
// division produces whatever IEEE arithmetic yields.
func (t Transform) Eval(dn float64) float64 {
	if math.IsNaN(dn) {
		return dn
	}
	l := (t.AbsCalFactor * dn) / t.EffectiveBandwidth
	if t.Mode == Radiance {
		return l
	}
	return l * t.EarthSunDistAU * t.EarthSunDistAU * math.Pi /
		(t.SolarIrradiance * math.Cos(t.SolarZenithDeg*math.Pi/180))
}

// OutputName forms the output raster name <prefix>.<code>, using the
// band's sequential code when numeric is set and its mnemonic metadata
// code otherwise.
func OutputName(prefix string, b band.Band, numeric bool) string {
	if numeric {
		return prefix + "." + b.NumericCode()
	}
	return prefix + "." + b.Code()
}

// Convert parameterizes engine with the transform for rec and runs it
// over input, writing the result to output. The engine owns all pixel
// I/O; extraction failures upstream mean this is never reached and no
// output raster is created.
func Convert(ctx context.Context, engine Engine, input, output string, rec imd.CalibrationRecord, mode Mode) error {
	return engine.Apply(ctx, input, output, NewTransform(rec, mode))
}
