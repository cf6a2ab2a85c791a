package restserver

import (
	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

// transformResult converts an engine result into its API representation
func transformResult(location string, calc *prayertimes.Calculator, r prayertimes.Result) TimesResponse {
	m := calc.Method()
	resp := TimesResponse{
		Location:        location,
		Latitude:        r.Input.Latitude,
		Longitude:       r.Input.Longitude,
		UTCOffset:       r.Input.TimezoneOffset,
		Date:            r.Input.Date().Format("2006-01-02"),
		Model:           calc.Model().Name(),
		Method:          m.Name,
		AsrShadowFactor: m.AsrShadowFactor,
		AsrConvention:   m.AsrConvention.String(),
		Times:           make([]PrayerTime, 0, prayertimes.NumPrayers),
	}

	for _, p := range prayertimes.Prayers {
		pt := PrayerTime{Prayer: p.String()}
		e := r.Get(p)
		if at, ok := r.At(p); ok {
			s := e.String()
			hours := e.Hours
			pt.Time = &s
			pt.Hours = &hours
			pt.At = &at
		}
		resp.Times = append(resp.Times, pt)
	}
	return resp
}
