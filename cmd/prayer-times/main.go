package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

func main() {
	var (
		lat        = flag.Float64("lat", 21.4225, "Latitude in degrees, north positive")
		lon        = flag.Float64("lon", 39.8262, "Longitude in degrees, east positive")
		tz         = flag.Float64("tz", 3, "UTC offset in hours")
		dateStr    = flag.String("date", "", "Date to calculate times for (YYYY-MM-DD, default today at the given offset)")
		asr        = flag.Float64("asr", 1, "Asr shadow factor (1 standard, 2 Hanafi)")
		model      = flag.String("model", "reference", "Solar model: 'reference' or 'meeus'")
		convention = flag.String("convention", "complement", "Asr elevation convention: 'complement' or 'altitude'")
	)
	flag.Parse()

	in := prayertimes.Input{TimezoneOffset: *tz}
	date := time.Now().In(in.Location())
	if *dateStr != "" {
		var err error
		date, err = time.ParseInLocation("2006-01-02", *dateStr, in.Location())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			os.Exit(1)
		}
	}

	in = prayertimes.InputForDate(*lat, *lon, *tz, date)
	if err := in.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m, err := prayertimes.ModelByName(*model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	conv, err := prayertimes.ParseAsrConvention(*convention)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	calc, err := prayertimes.New(
		prayertimes.WithModel(m),
		prayertimes.WithAsrShadowFactor(*asr),
		prayertimes.WithAsrConvention(conv),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result := calc.Compute(in)

	fmt.Printf("Prayer Times for %s\n", in.Date().Format("2006-01-02"))
	fmt.Printf("  Location:     %.4f, %.4f (%s)\n", in.Latitude, in.Longitude, in.Location())
	fmt.Printf("  Model:        %s, Asr k=%g (%s)\n", m.Name(), *asr, conv)
	fmt.Println()
	for _, f := range result.Formatted() {
		fmt.Printf("  %-12s  %s\n", f.Label+":", f.Time)
	}
}
