package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/overcast-gis/wv2toar/internal/band"
	"github.com/overcast-gis/wv2toar/internal/config"
	"github.com/overcast-gis/wv2toar/internal/imd"
)

func writeMetadata(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.xml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func baseOptions(t *testing.T, metadata string) Options {
	return Options{
		Input:        "scene_red",
		OutputPrefix: "toa",
		MetadataPath: metadata,
		BandName:     "Red",
		Cfg:          config.Default(),
		Log:          zerolog.Nop(),
	}
}

func TestRun_UnknownBand(t *testing.T) {
	opts := baseOptions(t, writeMetadata(t, "<isd><IMD/></isd>"))
	opts.BandName = "SWIR1"

	err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, band.ErrUnknownBand)
}

func TestRun_MissingMetadataFile(t *testing.T) {
	opts := baseOptions(t, filepath.Join(t.TempDir(), "absent.xml"))

	err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_MissingFieldAbortsBeforeEngine(t *testing.T) {
	// ABSCALFACTOR is absent. Extraction must fail before any backend
	// work happens, even though no GRASS session exists here.
	const xml = `<isd><IMD>
      <IMAGE><MEANSUNEL>60.0</MEANSUNEL></IMAGE>
      <MAP_PROJECTED_PRODUCT><EARLIESTACQTIME>2009-10-08T18:51:00.000000Z</EARLIESTACQTIME></MAP_PROJECTED_PRODUCT>
      <BAND_R><EFFECTIVEBANDWIDTH>0.0574</EFFECTIVEBANDWIDTH></BAND_R>
    </IMD></isd>`
	t.Setenv("GISBASE", "")

	err := Run(context.Background(), baseOptions(t, writeMetadata(t, xml)))
	assert.ErrorIs(t, err, imd.ErrFieldMissing)
}

func TestRun_BadTimestamp(t *testing.T) {
	const xml = `<isd><IMD>
      <IMAGE><MEANSUNEL>60.0</MEANSUNEL></IMAGE>
      <MAP_PROJECTED_PRODUCT><EARLIESTACQTIME>08 Oct 2009</EARLIESTACQTIME></MAP_PROJECTED_PRODUCT>
      <BAND_R><ABSCALFACTOR>0.0096</ABSCALFACTOR><EFFECTIVEBANDWIDTH>0.0574</EFFECTIVEBANDWIDTH></BAND_R>
    </IMD></isd>`

	err := Run(context.Background(), baseOptions(t, writeMetadata(t, xml)))
	assert.ErrorIs(t, err, imd.ErrTimestampFormat)
}

func TestNewEngine_UnknownBackend(t *testing.T) {
	opts := Options{Backend: "arcpy", Cfg: config.Default(), Log: zerolog.Nop()}
	_, err := newEngine(opts)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "arcpy")
}
