package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, validate(cfg))
	assert.Equal(t, "grass", cfg.Engine.Backend)
	assert.Equal(t, "GTiff", cfg.GDAL.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wv2toar.toml")
	content := `
[engine]
backend = "gdal"

[gdal]
workers = 4

[output]
numeric_band_codes = true
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "gdal", cfg.Engine.Backend)
	assert.Equal(t, 4, cfg.GDAL.Workers)
	assert.True(t, cfg.Output.NumericBandCodes)
	// Untouched sections keep their defaults.
	assert.Equal(t, "GTiff", cfg.GDAL.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_RejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wv2toar.toml")
	assert.NoError(t, os.WriteFile(path, []byte("[engine]\nbackend = \"arcpy\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "engine.backend")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
