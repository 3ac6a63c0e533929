// Package sun computes the Earth-Sun distance at an acquisition instant.
// The distance feeds the top-of-atmosphere reflectance equation, which
// scales with the square of the distance in astronomical units.
package sun

import (
	"math"
	"time"
)

// JulianDay converts t to a Julian day number using the Gregorian
// calendar algorithm. January and February count as months 13 and 14 of
// the previous year, and the two calendar terms truncate toward zero,
// matching the published form of the algorithm.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	year, month, day := t.Date()
	m := int(month)
	if m == 1 || m == 2 {
		m += 12
		year--
	}

	ut := float64(t.Hour()) +
		float64(t.Minute())/60 +
		(float64(t.Second())+float64(t.Nanosecond())/1e9)/3600

	a := year / 100
	b := 2 - a + a/4

	return math.Trunc(365.25*float64(year+4716)) +
		math.Trunc(30.6001*float64(m+1)) +
		float64(day) + ut/24 + float64(b) - 1524.5
}

// Distance returns the Earth-Sun distance in astronomical units at t,
// from the solar mean anomaly at the instant's Julian day. The result
// stays within the orbital range of roughly 0.983 AU at perihelion to
// 1.017 AU at aphelion.
func Distance(t time.Time) float64 {
	d := JulianDay(t) - 2451545.0 // days since J2000.0
	g := radians(357.529 + 0.98560028*d)
	return 1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
