// Package band defines the nine WorldView-2 spectral bands together with
// their fixed calibration constants: the band-averaged solar spectral
// irradiance and the two naming codes used for metadata lookup and output
// raster naming.
package band

import (
	"errors"
	"fmt"
	"strings"
)

// Band identifies one WorldView-2 spectral band.
type Band int

const (
	Panchromatic Band = iota
	Coastal
	Blue
	Green
	Yellow
	Red
	RedEdge
	NIR1
	NIR2
)

// ErrUnknownBand is returned when a band code is not one of the nine
// WorldView-2 bands.
var ErrUnknownBand = errors.New("unknown WorldView-2 band")

// catalog holds the per-band constants. Irradiance values are the
// band-averaged solar spectral irradiances (W·m⁻²·µm⁻¹) published in the
// DigitalGlobe radiometric use notes (Updike & Comp 2010). The code
// column is the band's element name in the IMD metadata document and
// doubles as the mnemonic output suffix; num is the sequential suffix.
var catalog = []struct {
	name       string
	code       string
	num        string
	irradiance float64
}{
	{name: "Pan", code: "BAND_P", num: "P", irradiance: 1580.8140},
	{name: "Coastal", code: "BAND_C", num: "1", irradiance: 1758.2229},
	{name: "Blue", code: "BAND_B", num: "2", irradiance: 1974.2416},
	{name: "Green", code: "BAND_G", num: "3", irradiance: 1856.4104},
	{name: "Yellow", code: "BAND_Y", num: "4", irradiance: 1738.4791},
	{name: "Red", code: "BAND_R", num: "5", irradiance: 1559.4555},
	{name: "Red Edge", code: "BAND_RE", num: "6", irradiance: 1342.0695},
	{name: "NIR1", code: "BAND_N", num: "7", irradiance: 1069.7302},
	{name: "NIR2", code: "BAND_N2", num: "8", irradiance: 861.2866},
}

// All lists the nine bands in sensor order.
func All() []Band {
	bands := make([]Band, len(catalog))
	for i := range bands {
		bands[i] = Band(i)
	}
	return bands
}

func (b Band) valid() bool {
	return b >= 0 && int(b) < len(catalog)
}

// String returns the band's common name, e.g. "Red Edge".
func (b Band) String() string {
	if !b.valid() {
		return fmt.Sprintf("Band(%d)", int(b))
	}
	return catalog[b].name
}

// Code returns the band's element name in the IMD metadata document,
// e.g. "BAND_RE". It is also the mnemonic output-naming suffix.
func (b Band) Code() string {
	if !b.valid() {
		return ""
	}
	return catalog[b].code
}

// NumericCode returns the band's sequential output-naming suffix:
// "P" for the panchromatic band, "1" through "8" for the multispectral
// bands.
func (b Band) NumericCode() string {
	if !b.valid() {
		return ""
	}
	return catalog[b].num
}

// Irradiance returns the band-averaged solar spectral irradiance for b.
// The nine constants are fixed sensor data and never recomputed.
func (b Band) Irradiance() (float64, error) {
	if !b.valid() {
		return 0, fmt.Errorf("%w: band index %d", ErrUnknownBand, int(b))
	}
	return catalog[b].irradiance, nil
}

// Parse resolves a textual band selection to a Band. It accepts the
// common name ("Red Edge", "Pan", also "Panchromatic"), the IMD code
// ("BAND_RE"), or the numeric code ("6"), ignoring case and spaces.
func Parse(s string) (Band, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if key == "panchromatic" {
		return Panchromatic, nil
	}
	for i, e := range catalog {
		switch key {
		case strings.ToLower(strings.ReplaceAll(e.name, " ", "")),
			strings.ToLower(e.code),
			strings.ToLower(e.num):
			return Band(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBand, s)
}
