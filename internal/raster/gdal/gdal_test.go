package gdal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/overcast-gis/wv2toar/internal/toa"
)

func radianceTransform() toa.Transform {
	return toa.Transform{
		Mode:               toa.Radiance,
		AbsCalFactor:       0.01,
		EffectiveBandwidth: 50,
	}
}

func TestEvalStripe_TransformsPixels(t *testing.T) {
	stripe := []float64{0, 1000, 2000, 500}
	evalStripe(stripe, radianceTransform(), 0, false, 2)
	assert.Equal(t, []float64{0, 0.2, 0.4, 0.1}, stripe)
}

func TestEvalStripe_NodataUntouched(t *testing.T) {
	const nodata = -9999.0
	stripe := []float64{nodata, 1000, nodata, 1000}
	evalStripe(stripe, radianceTransform(), nodata, true, 4)
	assert.Equal(t, []float64{nodata, 0.2, nodata, 0.2}, stripe)
}

func TestEvalStripe_NaNPassthrough(t *testing.T) {
	stripe := []float64{math.NaN(), 1000}
	evalStripe(stripe, radianceTransform(), 0, false, 1)
	assert.True(t, math.IsNaN(stripe[0]))
	assert.Equal(t, 0.2, stripe[1])
}

func TestEvalStripe_MoreWorkersThanPixels(t *testing.T) {
	stripe := []float64{1000}
	evalStripe(stripe, radianceTransform(), 0, false, 16)
	assert.Equal(t, []float64{0.2}, stripe)
}

func TestEvalStripe_Empty(t *testing.T) {
	assert.NotPanics(t, func() {
		evalStripe(nil, radianceTransform(), 0, false, 4)
	})
}
