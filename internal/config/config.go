// Package config handles loading, defaulting, and validation of the
// wv2toar TOML configuration file. Every section maps to a typed struct
// so the rest of the codebase gets strong typing without manual key
// lookups.
package config

import (
	"errors"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Engine  EngineConfig  `toml:"engine"  json:"engine"`
	Grass   GrassConfig   `toml:"grass"   json:"grass"`
	GDAL    GDALConfig    `toml:"gdal"    json:"gdal"`
	Output  OutputConfig  `toml:"output"  json:"output"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type EngineConfig struct {
	// Backend selects the raster engine: "grass" runs g.region and
	// r.mapcalc in the surrounding GRASS session, "gdal" converts
	// in-process.
	Backend string `toml:"backend" json:"backend"`
}

type GrassConfig struct {
	GISBase string `toml:"gisbase" json:"gisbase"`
}

type GDALConfig struct {
	Driver  string `toml:"driver"  json:"driver"`
	Workers int    `toml:"workers" json:"workers"`
}

type OutputConfig struct {
	NumericBandCodes bool `toml:"numeric_band_codes" json:"numeric_band_codes"`
	Overwrite        bool `toml:"overwrite"          json:"overwrite"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Engine: EngineConfig{
			Backend: "grass",
		},
		Grass: GrassConfig{
			GISBase: "",
		},
		GDAL: GDALConfig{
			Driver:  "GTiff",
			Workers: 0,
		},
		Output: OutputConfig{
			NumericBandCodes: false,
			Overwrite:        false,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults,
// and validates the result. An error is returned if the file can't be
// read, parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Engine.Backend {
	case "grass", "gdal":
	default:
		return errors.New(`engine.backend must be "grass" or "gdal"`)
	}
	if cfg.GDAL.Driver == "" {
		return errors.New("gdal.driver must not be empty")
	}
	if cfg.GDAL.Workers < 0 {
		return errors.New("gdal.workers must be >= 0")
	}
	if cfg.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}
	return nil
}
