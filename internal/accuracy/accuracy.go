// Package accuracy measures how far the reference solar series drifts from
// the Meeus model, and how both compare with an independent sunrise/sunset
// implementation, over a whole year at one location.
package accuracy

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/chrissnell/muadhin/pkg/prayertimes"
	"github.com/nathan-osman/go-sunrise"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series summarizes differences in minutes between two sources for one event
type Series struct {
	Name string
	// Samples counts days where both sources define the event; Missing
	// counts days where exactly one does.
	Samples int
	Missing int
	Mean    float64
	StdDev  float64
	RMSE    float64
	MaxAbs  float64
}

// DailyDiff is one day's reference and Meeus times for one prayer, in local
// clock hours. NaN marks an undefined time.
type DailyDiff struct {
	Date      time.Time
	Prayer    prayertimes.Prayer
	Reference float64
	Meeus     float64
}

// Minutes is the reference time minus the Meeus time
func (d DailyDiff) Minutes() float64 {
	return (d.Reference - d.Meeus) * 60
}

// Report holds a year of comparisons
type Report struct {
	Latitude  float64
	Longitude float64
	UTCOffset float64
	Year      int
	Days      int
	Method    string

	// Models is reference minus Meeus per prayer, in prayer order
	Models []Series
	// Sunrise compares each model's Sunrise and Maghrib with go-sunrise
	Sunrise []Series
	Daily   []DailyDiff
}

// Compare computes every day of year with both models and the given method
func Compare(lat, lon, tzOffset float64, year int, method prayertimes.Method) (*Report, error) {
	in := prayertimes.Input{Latitude: lat, Longitude: lon, TimezoneOffset: tzOffset, Year: year, Month: 1, Day: 1}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	reference, err := prayertimes.New(prayertimes.WithMethod(method), prayertimes.WithModel(prayertimes.Reference))
	if err != nil {
		return nil, err
	}
	meeus, err := prayertimes.New(prayertimes.WithMethod(method), prayertimes.WithModel(prayertimes.Meeus))
	if err != nil {
		return nil, err
	}

	report := &Report{
		Latitude:  lat,
		Longitude: lon,
		UTCOffset: tzOffset,
		Year:      year,
		Method:    method.Name,
	}

	var modelDiffs [prayertimes.NumPrayers]collector
	sunDiffs := map[string]*collector{}
	sunNames := []string{
		"Sunrise (reference)", "Maghrib (reference)",
		"Sunrise (meeus)", "Maghrib (meeus)",
	}
	for _, n := range sunNames {
		sunDiffs[n] = &collector{}
	}

	for day := in.Date(); day.Year() == year; day = day.AddDate(0, 0, 1) {
		dayIn := prayertimes.InputForDate(lat, lon, tzOffset, day)
		ref := reference.Compute(dayIn)
		mee := meeus.Compute(dayIn)
		report.Days++

		for _, p := range prayertimes.Prayers {
			d := DailyDiff{Date: day, Prayer: p, Reference: ref.Get(p).Hours, Meeus: mee.Get(p).Hours}
			report.Daily = append(report.Daily, d)
			modelDiffs[p].add(ref.Get(p).Defined(), mee.Get(p).Defined(), d.Minutes)
		}

		rise, set := sunrise.SunriseSunset(lat, lon, day.Year(), day.Month(), day.Day())
		compareSun(sunDiffs["Sunrise (reference)"], ref, prayertimes.Sunrise, rise)
		compareSun(sunDiffs["Maghrib (reference)"], ref, prayertimes.Maghrib, set)
		compareSun(sunDiffs["Sunrise (meeus)"], mee, prayertimes.Sunrise, rise)
		compareSun(sunDiffs["Maghrib (meeus)"], mee, prayertimes.Maghrib, set)
	}

	for _, p := range prayertimes.Prayers {
		report.Models = append(report.Models, modelDiffs[p].series(p.String()))
	}
	for _, n := range sunNames {
		report.Sunrise = append(report.Sunrise, sunDiffs[n].series(n))
	}
	return report, nil
}

// compareSun adds the engine's time minus go-sunrise's, which reports a
// zero time when the sun does not rise or set
func compareSun(c *collector, r prayertimes.Result, p prayertimes.Prayer, other time.Time) {
	at, ok := r.At(p)
	c.add(ok, !other.IsZero(), func() float64 { return at.Sub(other).Minutes() })
}

type collector struct {
	diffs   []float64
	missing int
}

func (c *collector) add(a, b bool, diff func() float64) {
	switch {
	case a && b:
		c.diffs = append(c.diffs, diff())
	case a != b:
		c.missing++
	}
}

func (c *collector) series(name string) Series {
	s := Series{Name: name, Samples: len(c.diffs), Missing: c.missing}
	if s.Samples == 0 {
		return s
	}
	s.Mean = stat.Mean(c.diffs, nil)
	if s.Samples > 1 {
		s.StdDev = stat.StdDev(c.diffs, nil)
	}
	s.RMSE = floats.Norm(c.diffs, 2) / math.Sqrt(float64(s.Samples))
	s.MaxAbs = floats.Norm(c.diffs, math.Inf(1))
	return s
}

// Display writes the report as text tables
func (r *Report) Display(w io.Writer) {
	fmt.Fprintf(w, "Solar Model Comparison\n")
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Configuration:\n")
	fmt.Fprintf(w, "  Location: %.4f, %.4f (UTC%+g)\n", r.Latitude, r.Longitude, r.UTCOffset)
	fmt.Fprintf(w, "  Year: %d (%d days)\n", r.Year, r.Days)
	fmt.Fprintf(w, "  Method: %s\n\n", r.Method)

	fmt.Fprintf(w, "Reference minus Meeus (minutes)\n")
	displaySeries(w, r.Models)

	fmt.Fprintf(w, "\nModel minus go-sunrise (minutes)\n")
	displaySeries(w, r.Sunrise)
	fmt.Fprintln(w)
}

func displaySeries(w io.Writer, series []Series) {
	fmt.Fprintf(w, "%-20s | %7s | %7s | %8s | %8s | %8s | %8s\n", "Event", "Samples", "Missing", "Mean", "StdDev", "RMSE", "Max |Δ|")
	fmt.Fprintf(w, "---------------------+---------+---------+----------+----------+----------+----------\n")
	for _, s := range series {
		fmt.Fprintf(w, "%-20s | %7d | %7d | %8.2f | %8.2f | %8.2f | %8.2f\n",
			s.Name, s.Samples, s.Missing, s.Mean, s.StdDev, s.RMSE, s.MaxAbs)
	}
}

// WriteCSV writes one row per day and prayer
func (r *Report) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{"Date", "Prayer", "Reference", "Meeus", "Diff_min"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, d := range r.Daily {
		record := []string{
			d.Date.Format("2006-01-02"),
			d.Prayer.String(),
			prayertimes.FormatTime(d.Reference),
			prayertimes.FormatTime(d.Meeus),
			formatMinutes(d.Minutes()),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMinutes(m float64) string {
	if math.IsNaN(m) {
		return ""
	}
	return strconv.FormatFloat(m, 'f', 2, 64)
}
