package grass

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/overcast-gis/wv2toar/internal/toa"
)

func TestExpression_Radiance(t *testing.T) {
	tr := toa.Transform{
		Mode:               toa.Radiance,
		AbsCalFactor:       0.01,
		EffectiveBandwidth: 50,
	}
	expr := Expression("toa.5", "scene_red", tr)
	assert.Equal(t, `"toa.5" = (0.01 * "scene_red") / 50`, expr)
}

func TestExpression_Reflectance(t *testing.T) {
	tr := toa.Transform{
		Mode:               toa.Reflectance,
		AbsCalFactor:       0.01,
		EffectiveBandwidth: 50,
		EarthSunDistAU:     1,
		SolarIrradiance:    1559.4555,
		SolarZenithDeg:     30,
	}
	expr := Expression("toa.5", "scene_red", tr)
	assert.Equal(t,
		`"toa.5" = (((0.01 * "scene_red") / 50) * 1^2 * 3.141592653589793) / (1559.4555 * cos(30))`,
		expr)
}

func TestNew_RequiresGISBase(t *testing.T) {
	t.Setenv("GISBASE", "")

	_, err := New(zerolog.Nop(), "", false)
	assert.ErrorIs(t, err, ErrEnvironment)

	// An explicit override stands in for the environment variable.
	eng, err := New(zerolog.Nop(), "/usr/lib/grass83", false)
	assert.NoError(t, err)
	assert.NotNil(t, eng)
}
