package adhan

import (
	"time"

	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

// Announced lists the prayers that get an adhan. Sunrise marks the end of
// Fajr and is not called.
var Announced = []prayertimes.Prayer{
	prayertimes.Fajr,
	prayertimes.Dhuhr,
	prayertimes.Asr,
	prayertimes.Maghrib,
	prayertimes.Isha,
}

// Upcoming is the next announced prayer and when it is due
type Upcoming struct {
	Prayer prayertimes.Prayer
	At     time.Time
}

// NextPrayer returns the earliest defined, announced prayer strictly after
// now across the given results, normally today's and tomorrow's. The second
// return is false when none is due, as during polar day.
func NextPrayer(now time.Time, results ...prayertimes.Result) (Upcoming, bool) {
	var best Upcoming
	found := false
	for _, r := range results {
		for _, p := range Announced {
			at, ok := r.At(p)
			if !ok || !at.After(now) {
				continue
			}
			if !found || at.Before(best.At) {
				best = Upcoming{Prayer: p, At: at}
				found = true
			}
		}
	}
	return best, found
}
