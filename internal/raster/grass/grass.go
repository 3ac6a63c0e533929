// Package grass drives an external GRASS GIS session to evaluate the
// TOA transform with r.mapcalc. The engine never touches pixel data
// itself; it sets a temporary computational region matching the input
// raster and hands the rendered map-algebra expression to GRASS.
package grass

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/overcast-gis/wv2toar/internal/toa"
)

// ErrEnvironment is returned when no GRASS session environment is
// available.
var ErrEnvironment = errors.New("GRASS environment not available")

// Engine shells out to g.region and r.mapcalc inside the caller's GRASS
// session. The input raster's region is applied through a saved named
// region and WIND_OVERRIDE, so the session's own region is untouched.
type Engine struct {
	log       zerolog.Logger
	overwrite bool
}

// New validates that a GRASS session is active and returns the engine.
// gisbase, when non-empty, overrides the GISBASE environment variable.
func New(log zerolog.Logger, gisbase string, overwrite bool) (*Engine, error) {
	if gisbase == "" {
		gisbase = os.Getenv("GISBASE")
	}
	if gisbase == "" {
		return nil, fmt.Errorf("%w: GISBASE is not set, run inside a GRASS session", ErrEnvironment)
	}
	return &Engine{log: log, overwrite: overwrite}, nil
}

// Apply sets a temporary region from the input raster and evaluates the
// transform expression over it. GRASS removes its own broken output on
// r.mapcalc failure, so no partial raster is left visible.
func (e *Engine) Apply(ctx context.Context, input, output string, tr toa.Transform) error {
	region := fmt.Sprintf("wv2toar.tmp.%d", os.Getpid())
	if err := e.run(ctx, nil, "g.region", "-u", "raster="+input, "save="+region, "--overwrite"); err != nil {
		return fmt.Errorf("set region from %s: %w", input, err)
	}
	defer func() {
		// Best effort: the named region is scoped to this invocation.
		_ = e.run(context.Background(), nil, "g.remove", "-f", "type=region", "name="+region)
	}()

	expr := Expression(output, input, tr)
	e.log.Debug().Str("expression", expr).Msg("running r.mapcalc")

	args := []string{"expression=" + expr}
	if e.overwrite {
		args = append(args, "--overwrite")
	}
	if err := e.run(ctx, []string{"WIND_OVERRIDE=" + region}, "r.mapcalc", args...); err != nil {
		return fmt.Errorf("r.mapcalc: %w", err)
	}
	return nil
}

// Expression renders the transform as an r.mapcalc expression with all
// scalar parameters substituted. GRASS map-algebra trig functions take
// degrees, so the solar zenith is passed through unconverted.
func Expression(output, input string, tr toa.Transform) string {
	if tr.Mode == toa.Radiance {
		return fmt.Sprintf("%q = (%s * %q) / %s",
			output, num(tr.AbsCalFactor), input, num(tr.EffectiveBandwidth))
	}
	return fmt.Sprintf("%q = (((%s * %q) / %s) * %s^2 * %s) / (%s * cos(%s))",
		output,
		num(tr.AbsCalFactor), input, num(tr.EffectiveBandwidth),
		num(tr.EarthSunDistAU), num(math.Pi),
		num(tr.SolarIrradiance), num(tr.SolarZenithDeg))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (e *Engine) run(ctx context.Context, extraEnv []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %v: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %v", name, err)
	}
	e.log.Debug().Str("cmd", name).Strs("args", args).Msg("grass command ok")
	return nil
}
