package accuracy

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

func TestCompareMecca(t *testing.T) {
	r, err := Compare(21.4225, 39.8262, 3, 2024, prayertimes.Standard)
	if err != nil {
		t.Fatal(err)
	}

	if r.Days != 366 {
		t.Errorf("Days = %d, expected 366 for a leap year", r.Days)
	}
	if len(r.Models) != prayertimes.NumPrayers || len(r.Sunrise) != 4 {
		t.Fatalf("got %d model series and %d sunrise series", len(r.Models), len(r.Sunrise))
	}
	if len(r.Daily) != 366*prayertimes.NumPrayers {
		t.Errorf("Daily has %d rows", len(r.Daily))
	}

	// The truncated series runs well behind the Meeus equation of time.
	dhuhr := r.Models[prayertimes.Dhuhr]
	if dhuhr.Samples != 366 || dhuhr.Missing != 0 {
		t.Errorf("Dhuhr series = %+v", dhuhr)
	}
	if dhuhr.MaxAbs <= 16 {
		t.Errorf("Dhuhr max difference %.2f min, expected more than 16", dhuhr.MaxAbs)
	}
	if dhuhr.RMSE < math.Abs(dhuhr.Mean) {
		t.Errorf("RMSE %.2f smaller than |mean| %.2f", dhuhr.RMSE, dhuhr.Mean)
	}

	for _, s := range r.Sunrise {
		if s.Samples != 366 {
			t.Errorf("%s: %d samples, expected 366", s.Name, s.Samples)
		}
		if strings.Contains(s.Name, "meeus") && s.MaxAbs > 5 {
			t.Errorf("%s differs from go-sunrise by up to %.2f min", s.Name, s.MaxAbs)
		}
	}
}

func TestComparePolarCountsMissing(t *testing.T) {
	r, err := Compare(78.22, 15.65, 1, 2024, prayertimes.Standard)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range r.Sunrise {
		if s.Samples+s.Missing > r.Days {
			t.Errorf("%s: %d samples and %d missing in %d days", s.Name, s.Samples, s.Missing, r.Days)
		}
		if s.Samples == r.Days {
			t.Errorf("%s: the sun should neither rise nor set on some days at 78N", s.Name)
		}
	}
}

func TestCompareRejectsInvalidInput(t *testing.T) {
	if _, err := Compare(91, 0, 0, 2024, prayertimes.Standard); !errors.Is(err, prayertimes.ErrInvalidInput) {
		t.Errorf("got %v, expected ErrInvalidInput", err)
	}

	bad := prayertimes.Standard
	bad.AsrShadowFactor = 0
	if _, err := Compare(0, 0, 0, 2024, bad); err == nil {
		t.Error("expected an error for a zero shadow factor")
	}
}

func TestReportOutput(t *testing.T) {
	r, err := Compare(0, 0, 0, 2023, prayertimes.Standard)
	if err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	r.Display(&text)
	for _, want := range []string{"Reference minus Meeus", "Dhuhr", "Maghrib (meeus)", "365 days"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("display output missing %q", want)
		}
	}

	var out bytes.Buffer
	if err := r.WriteCSV(&out); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1+365*prayertimes.NumPrayers {
		t.Errorf("CSV has %d rows", len(rows))
	}
	if rows[1][0] != "2023-01-01" || rows[1][1] != "Fajr" {
		t.Errorf("first data row = %v", rows[1])
	}
}
