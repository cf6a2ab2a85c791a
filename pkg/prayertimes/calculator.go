package prayertimes

import (
	"fmt"
	"math"
)

// Calculator computes prayer times for a fixed method and solar model. It
// carries no mutable state and is safe for concurrent use.
type Calculator struct {
	method Method
	model  Model
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithMethod replaces the juristic method.
func WithMethod(m Method) Option {
	return func(c *Calculator) { c.method = m }
}

// WithModel replaces the solar model.
func WithModel(m Model) Option {
	return func(c *Calculator) { c.model = m }
}

// WithAsrShadowFactor overrides only the Asr shadow factor of the method.
func WithAsrShadowFactor(k float64) Option {
	return func(c *Calculator) { c.method.AsrShadowFactor = k }
}

// WithAsrConvention overrides only the Asr convention of the method.
func WithAsrConvention(conv AsrConvention) Option {
	return func(c *Calculator) { c.method.AsrConvention = conv }
}

// New returns a Calculator using Standard and Reference unless overridden.
func New(opts ...Option) (*Calculator, error) {
	c := &Calculator{
		method: Standard,
		model:  Reference,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.model == nil {
		return nil, fmt.Errorf("solar model must not be nil")
	}
	if err := c.method.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var defaultCalculator = &Calculator{method: Standard, model: Reference}

// Compute uses the Standard method and Reference model.
func Compute(in Input) Result {
	return defaultCalculator.Compute(in)
}

// ComputePrayerTimes is the flat entry point: it returns the six labels with
// their HH:MM strings or the undefined sentinel. A non-positive shadow factor
// falls back to 1.
func ComputePrayerTimes(lat, lon, tzOffset float64, year, month, day int, asrShadowFactor float64) []Formatted {
	if !(asrShadowFactor > 0) {
		asrShadowFactor = 1
	}
	c := &Calculator{method: Standard, model: Reference}
	c.method.AsrShadowFactor = asrShadowFactor
	return c.Compute(Input{
		Latitude:       lat,
		Longitude:      lon,
		TimezoneOffset: tzOffset,
		Year:           year,
		Month:          month,
		Day:            day,
	}).Formatted()
}

// Method returns the calculator's method.
func (c *Calculator) Method() Method { return c.method }

// Model returns the calculator's solar model.
func (c *Calculator) Model() Model { return c.model }

// Key identifies the calculator's parameters, for use in cache keys.
func (c *Calculator) Key() string {
	m := c.method
	return fmt.Sprintf("%s/%g/%g/%g/%g/%s", c.model.Name(),
		m.FajrAngle, m.SunriseAngle, m.IshaAngle, m.AsrShadowFactor, m.AsrConvention)
}

// Compute evaluates the solar model once for the input date and solves all
// six times against that state.
func (c *Calculator) Compute(in Input) Result {
	return c.computeWith(in, newSolarState(in.Year, in.Month, in.Day, c.model))
}

func (c *Calculator) computeWith(in Input, s SolarState) Result {
	lat, decl := in.Latitude, s.Declination
	dhuhr := 12 + in.TimezoneOffset - in.Longitude/15 - s.EquationOfTime/60

	r := Result{Input: in, solar: s}
	r.Entries[Fajr] = Entry{Fajr, dhuhr - hourAngle(lat, decl, c.method.FajrAngle)}
	r.Entries[Sunrise] = Entry{Sunrise, dhuhr - hourAngle(lat, decl, c.method.SunriseAngle)}
	r.Entries[Dhuhr] = Entry{Dhuhr, dhuhr}
	r.Entries[Asr] = Entry{Asr, dhuhr + hourAngle(lat, decl, c.method.asrElevation(lat, decl))}
	r.Entries[Maghrib] = Entry{Maghrib, dhuhr + hourAngle(lat, decl, c.method.SunriseAngle)}
	r.Entries[Isha] = Entry{Isha, dhuhr + hourAngle(lat, decl, c.method.IshaAngle)}
	return r
}

// hourAngle returns, in hours, how far from solar noon the sun sits at the
// given elevation. NaN means the sun never reaches that elevation on this
// date at this latitude.
func hourAngle(lat, decl, elevation float64) float64 {
	g := (math.Sin(degToRad(elevation)) - math.Sin(degToRad(lat))*math.Sin(degToRad(decl))) /
		(math.Cos(degToRad(lat)) * math.Cos(degToRad(decl)))
	if g > 1 || g < -1 {
		return math.NaN()
	}
	return radToDeg(math.Acos(g)) / 15
}
