// Package prayertimes computes the six daily prayer times (Fajr, Sunrise,
// Dhuhr, Asr, Maghrib, Isha) from latitude, longitude, UTC offset and a
// calendar date using low-order solar geometry: Julian date, a mean solar
// position, the equation of time, solar declination and an hour-angle
// inversion for each twilight angle.
//
// The engine holds no state and performs no I/O. Times are returned as
// fractional local clock hours. An event that does not occur on the given
// date at the given latitude (polar day or polar night) is reported as NaN,
// never as an error.
package prayertimes

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidInput is returned by Input.Validate for out-of-range coordinates,
// offsets or dates.
var ErrInvalidInput = errors.New("invalid input")

// Prayer identifies one of the six daily times, in chronological order.
type Prayer int

const (
	Fajr Prayer = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
)

// NumPrayers is the number of entries in every Result.
const NumPrayers = 6

var prayerNames = [NumPrayers]string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Prayers lists every Prayer in result order.
var Prayers = [NumPrayers]Prayer{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

func (p Prayer) String() string {
	if p < 0 || int(p) >= NumPrayers {
		return fmt.Sprintf("Prayer(%d)", int(p))
	}
	return prayerNames[p]
}

// ParsePrayer maps a label such as "fajr" or "Maghrib" to its Prayer.
func ParsePrayer(s string) (Prayer, error) {
	for i, name := range prayerNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Prayer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown prayer name: %q", s)
}

// Input is a single calculation request. Latitude and longitude are in
// degrees (north and east positive), TimezoneOffset in hours east of UTC.
type Input struct {
	Latitude       float64
	Longitude      float64
	TimezoneOffset float64
	Year           int
	Month          int
	Day            int
}

// InputForDate builds an Input from the calendar date of t.
func InputForDate(lat, lon, tzOffset float64, t time.Time) Input {
	return Input{
		Latitude:       lat,
		Longitude:      lon,
		TimezoneOffset: tzOffset,
		Year:           t.Year(),
		Month:          int(t.Month()),
		Day:            t.Day(),
	}
}

// Validate reports whether the input satisfies the engine's preconditions.
// Compute does not call it; callers that accept untrusted input should.
func (in Input) Validate() error {
	switch {
	case math.IsNaN(in.Latitude) || in.Latitude < -90 || in.Latitude > 90:
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidInput, in.Latitude)
	case math.IsNaN(in.Longitude) || in.Longitude < -180 || in.Longitude > 180:
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidInput, in.Longitude)
	case math.IsNaN(in.TimezoneOffset) || in.TimezoneOffset < -12 || in.TimezoneOffset > 14:
		return fmt.Errorf("%w: timezone offset %v outside [-12, 14]", ErrInvalidInput, in.TimezoneOffset)
	case in.Month < 1 || in.Month > 12:
		return fmt.Errorf("%w: month %d outside [1, 12]", ErrInvalidInput, in.Month)
	}

	d := in.Date()
	if d.Day() != in.Day || int(d.Month()) != in.Month {
		return fmt.Errorf("%w: %04d-%02d-%02d is not a calendar date", ErrInvalidInput, in.Year, in.Month, in.Day)
	}
	return nil
}

// Location returns a fixed zone for the input's UTC offset.
func (in Input) Location() *time.Location {
	secs := int(math.Round(in.TimezoneOffset * 3600))
	sign := '+'
	if secs < 0 {
		sign = '-'
	}
	abs := secs
	if abs < 0 {
		abs = -abs
	}
	return time.FixedZone(fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, abs%3600/60), secs)
}

// Date returns local midnight of the input date in the input's fixed zone.
func (in Input) Date() time.Time {
	return time.Date(in.Year, time.Month(in.Month), in.Day, 0, 0, 0, 0, in.Location())
}

// Entry is one computed time. Hours is a fractional local clock hour, which
// may fall outside [0, 24) when the event wraps into a neighbouring day, or
// NaN when the event does not occur.
type Entry struct {
	Prayer Prayer
	Hours  float64
}

// Defined reports whether the event occurs on this date.
func (e Entry) Defined() bool {
	return !math.IsNaN(e.Hours)
}

func (e Entry) String() string {
	return FormatTime(e.Hours)
}

// Result is the ordered set of six times for one Input. It is created fresh
// on every calculation and never mutated.
type Result struct {
	Input   Input
	Entries [NumPrayers]Entry

	solar SolarState
}

// Get returns the entry for p.
func (r Result) Get(p Prayer) Entry {
	return r.Entries[p]
}

// At converts the entry for p to an instant on the input date in the input's
// fixed zone. Hours below 0 or at and above 24 land on the previous or next
// day. The second return is false when the event does not occur.
func (r Result) At(p Prayer) (time.Time, bool) {
	e := r.Entries[p]
	if !e.Defined() {
		return time.Time{}, false
	}
	offset := time.Duration(e.Hours * float64(time.Hour))
	return r.Input.Date().Add(offset).Truncate(time.Second), true
}

// Formatted pairs each label with its HH:MM string or the undefined sentinel.
type Formatted struct {
	Label string
	Time  string
}

// Formatted renders the six entries in order.
func (r Result) Formatted() []Formatted {
	out := make([]Formatted, 0, NumPrayers)
	for _, e := range r.Entries {
		out = append(out, Formatted{Label: e.Prayer.String(), Time: FormatTime(e.Hours)})
	}
	return out
}
