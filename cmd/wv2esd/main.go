// Wv2esd prints the Julian day and Earth-Sun distance used by the TOA
// reflectance equation, either for an acquisition timestamp given on
// the command line or for the EARLIESTACQTIME of an IMD metadata file.
// Useful for spot-checking calibration inputs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/overcast-gis/wv2toar/internal/imd"
	"github.com/overcast-gis/wv2toar/internal/sun"
)

func main() {
	var (
		timestamp = pflag.StringP("time", "t", "", "Acquisition time, e.g. 2013-07-12T16:00:00.000000Z")
		metadata  = pflag.StringP("metadata", "x", "", "IMD XML file to read EARLIESTACQTIME from")
	)
	pflag.Parse()

	raw := *timestamp
	if raw == "" && *metadata != "" {
		doc, err := imd.Load(*metadata)
		if err != nil {
			fatal(err)
		}
		s, ok := doc.Text("IMD/MAP_PROJECTED_PRODUCT/EARLIESTACQTIME")
		if !ok {
			fatal(fmt.Errorf("%w: IMD/MAP_PROJECTED_PRODUCT/EARLIESTACQTIME", imd.ErrFieldMissing))
		}
		raw = s
	}
	if raw == "" {
		fmt.Fprintln(os.Stderr, "wv2esd: one of --time or --metadata is required")
		pflag.Usage()
		os.Exit(2)
	}

	acquired, err := imd.ParseAcquisitionTime(raw)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("acquired:           %s\n", acquired.Format(imd.AcqTimeFormat))
	fmt.Printf("julian day:         %.6f\n", sun.JulianDay(acquired))
	fmt.Printf("earth-sun distance: %.9f AU\n", sun.Distance(acquired))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "wv2esd: %v\n", err)
	os.Exit(1)
}
