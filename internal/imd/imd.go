// Package imd extracts radiometric calibration parameters from a
// WorldView-2 IMD metadata document. One extraction call turns the XML
// document plus a band selection into the complete, immutable
// CalibrationRecord the TOA transfer functions need.
package imd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/overcast-gis/wv2toar/internal/band"
	"github.com/overcast-gis/wv2toar/internal/sun"
)

// AcqTimeFormat is the fixed EARLIESTACQTIME layout: microsecond
// precision with an explicit UTC designator.
const AcqTimeFormat = "2006-01-02T15:04:05.000000Z"

var (
	// ErrParse is returned when the metadata document is not
	// well-formed XML.
	ErrParse = errors.New("metadata document malformed")

	// ErrFieldMissing is returned when a required calibration field is
	// absent, empty, or not usable as a number.
	ErrFieldMissing = errors.New("required metadata field missing")

	// ErrTimestampFormat is returned when EARLIESTACQTIME does not
	// match AcqTimeFormat.
	ErrTimestampFormat = errors.New("acquisition time format invalid")
)

// Document is the minimal query surface the extractor needs from an XML
// tree reader: the text content of the element at a slash-separated path
// below the document root. Tests substitute an in-memory fixture.
type Document interface {
	// Text returns the trimmed text of the element at path. ok is false
	// when the element is absent or has no text content.
	Text(path string) (text string, ok bool)
}

// CalibrationRecord carries everything needed to convert one band's raw
// digital counts to top-of-atmosphere radiance or reflectance. It is
// assembled once per invocation and never mutated.
type CalibrationRecord struct {
	Band               band.Band
	AbsCalFactor       float64 // absolute radiometric calibration gain
	EffectiveBandwidth float64 // µm, same denominator units as the gain
	SolarZenithDeg     float64 // 90 − MEANSUNEL
	EarthSunDistAU     float64 // derived from EARLIESTACQTIME
	SolarIrradiance    float64 // band constant, W·m⁻²·µm⁻¹
}

// Load reads and parses the IMD XML file at path.
func Load(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return Parse(b)
}

// Parse parses raw IMD XML bytes into a queryable Document.
func Parse(b []byte) (Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	}
	return xmlDocument{doc: doc}, nil
}

// xmlDocument adapts an etree tree to the Document query surface.
// Paths are resolved relative to the root element, so the conventional
// "IMD/BAND_R/ABSCALFACTOR" form works regardless of the root's name.
type xmlDocument struct {
	doc *etree.Document
}

func (d xmlDocument) Text(path string) (string, bool) {
	el := d.doc.Root().FindElement(path)
	if el == nil {
		return "", false
	}
	s := strings.TrimSpace(el.Text())
	return s, s != ""
}

// Extract locates the band-scoped calibration fields under the band's
// IMD node and the image-scoped fields under the shared nodes, derives
// the Earth-Sun distance from the acquisition time, and returns the
// fully populated record. On any failure no partial record is returned.
func Extract(doc Document, b band.Band) (CalibrationRecord, error) {
	irradiance, err := b.Irradiance()
	if err != nil {
		return CalibrationRecord{}, err
	}

	absCal, err := floatField(doc, "IMD/"+b.Code()+"/ABSCALFACTOR")
	if err != nil {
		return CalibrationRecord{}, err
	}
	bandwidth, err := floatField(doc, "IMD/"+b.Code()+"/EFFECTIVEBANDWIDTH")
	if err != nil {
		return CalibrationRecord{}, err
	}
	sunElevation, err := floatField(doc, "IMD/IMAGE/MEANSUNEL")
	if err != nil {
		return CalibrationRecord{}, err
	}

	const acqPath = "IMD/MAP_PROJECTED_PRODUCT/EARLIESTACQTIME"
	raw, ok := doc.Text(acqPath)
	if !ok {
		return CalibrationRecord{}, fmt.Errorf("%w: %s", ErrFieldMissing, acqPath)
	}
	acquired, err := ParseAcquisitionTime(raw)
	if err != nil {
		return CalibrationRecord{}, err
	}

	return CalibrationRecord{
		Band:               b,
		AbsCalFactor:       absCal,
		EffectiveBandwidth: bandwidth,
		SolarZenithDeg:     90 - sunElevation,
		EarthSunDistAU:     sun.Distance(acquired),
		SolarIrradiance:    irradiance,
	}, nil
}

// ParseAcquisitionTime parses an EARLIESTACQTIME value. The timestamp is
// consumed only to derive the Earth-Sun distance and is not retained in
// the record.
func ParseAcquisitionTime(s string) (time.Time, error) {
	t, err := time.Parse(AcqTimeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimestampFormat, s)
	}
	return t.UTC(), nil
}

func floatField(doc Document, path string) (float64, error) {
	s, ok := doc.Text(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrFieldMissing, path)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not numeric: %q", ErrFieldMissing, path, s)
	}
	return v, nil
}
