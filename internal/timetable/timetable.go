// Package timetable serves daily prayer-time results for configured
// locations, caching each location/date pair for a day.
package timetable

import (
	"fmt"
	"time"

	"github.com/chrissnell/muadhin/pkg/config"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

// DefaultTTL keeps a day's result for as long as it can be current
const DefaultTTL = 24 * time.Hour

// Timetable computes and caches results for one Calculator
type Timetable struct {
	calc  *prayertimes.Calculator
	cache *Cache[prayertimes.Result]
}

// New returns a Timetable. A non-positive ttl selects DefaultTTL.
func New(calc *prayertimes.Calculator, ttl time.Duration) *Timetable {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Timetable{
		calc:  calc,
		cache: NewCache[prayertimes.Result](ttl),
	}
}

// Calculator returns the calculator results are computed with
func (t *Timetable) Calculator() *prayertimes.Calculator {
	return t.calc
}

// Day returns the result for loc on the calendar date of date as seen in
// loc's own time zone.
func (t *Timetable) Day(loc config.LocationData, date time.Time) (prayertimes.Result, error) {
	in, err := loc.Input(date)
	if err != nil {
		return prayertimes.Result{}, err
	}

	key := fmt.Sprintf("%s|%g|%g|%g|%04d-%02d-%02d|%s", loc.Name, in.Latitude, in.Longitude,
		in.TimezoneOffset, in.Year, in.Month, in.Day, t.calc.Key())
	if r, ok := t.cache.Get(key); ok {
		return r, nil
	}

	r := t.calc.Compute(in)
	t.cache.Set(key, r)
	return r, nil
}

// Close releases the cache janitor
func (t *Timetable) Close() {
	t.cache.Close()
}
