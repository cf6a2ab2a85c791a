package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/muadhin/internal/accuracy"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

func main() {
	// Command line flags
	var (
		lat       = flag.Float64("lat", 21.4225, "Latitude in degrees, north positive")
		lon       = flag.Float64("lon", 39.8262, "Longitude in degrees, east positive")
		tz        = flag.Float64("tz", 3, "UTC offset in hours")
		year      = flag.Int("year", time.Now().Year(), "Year to compare")
		asr       = flag.Float64("asr", 1, "Asr shadow factor (1 standard, 2 Hanafi)")
		csvOutput = flag.String("csv", "", "Optional CSV output file path")
	)
	flag.Parse()

	method := prayertimes.Standard
	if *asr != 1 {
		method.AsrShadowFactor = *asr
	}

	report, err := accuracy.Compare(*lat, *lon, *tz, *year, method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report.Display(os.Stdout)

	// Optionally export to CSV
	if *csvOutput != "" {
		if err := exportCSV(*csvOutput, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		} else {
			fmt.Printf("Data exported to: %s\n", *csvOutput)
		}
	}
}

func exportCSV(filename string, report *accuracy.Report) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return report.WriteCSV(file)
}
