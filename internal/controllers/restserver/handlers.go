package restserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chrissnell/muadhin/internal/adhan"
	"github.com/chrissnell/muadhin/internal/log"
	"github.com/chrissnell/muadhin/pkg/config"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
	"github.com/chrissnell/muadhin/pkg/responseformat"
	"github.com/gorilla/mux"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// write sends data and logs encoding failures, which can't be reported to
// the client once the header is out
func (h *Handlers) write(w http.ResponseWriter, req *http.Request, data any) {
	if err := h.formatter.WriteResponse(w, req, data); err != nil {
		log.Errorf("error encoding response for %s: %v", req.URL.Path, err)
	}
}

func (h *Handlers) fail(w http.ResponseWriter, req *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	if werr := h.formatter.WriteError(w, req, status, err); werr != nil {
		log.Errorf("error encoding error response for %s: %v", req.URL.Path, werr)
	}
}

// lookupLocation resolves the {name} route variable, writing a 404 when it
// is not configured
func (h *Handlers) lookupLocation(w http.ResponseWriter, req *http.Request) (config.LocationData, bool) {
	name := mux.Vars(req)["name"]
	loc, ok := h.controller.location(name)
	if !ok {
		h.fail(w, req, http.StatusNotFound, fmt.Errorf("unknown location: %s", name))
	}
	return loc, ok
}

// GetHealth reports liveness
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, HealthResponse{Status: "ok", Locations: len(h.controller.Locations)})
}

// GetTimes computes an ad-hoc timetable from lat, lon and tz query
// parameters, with optional date (YYYY-MM-DD, default today) and asr shadow
// factor
func (h *Handlers) GetTimes(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	lat, err := floatParam(q, "lat", true)
	if err != nil {
		h.fail(w, req, http.StatusBadRequest, err)
		return
	}
	lon, err := floatParam(q, "lon", true)
	if err != nil {
		h.fail(w, req, http.StatusBadRequest, err)
		return
	}
	tz, err := floatParam(q, "tz", true)
	if err != nil {
		h.fail(w, req, http.StatusBadRequest, err)
		return
	}
	asr, err := floatParam(q, "asr", false)
	if err != nil {
		h.fail(w, req, http.StatusBadRequest, err)
		return
	}

	zone := prayertimes.Input{TimezoneOffset: tz}.Location()
	date := h.controller.now().In(zone)
	if s := q.Get("date"); s != "" {
		date, err = time.ParseInLocation("2006-01-02", s, zone)
		if err != nil {
			h.fail(w, req, http.StatusBadRequest, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s))
			return
		}
	}

	in := prayertimes.InputForDate(lat, lon, tz, date)
	if err := in.Validate(); err != nil {
		h.fail(w, req, http.StatusBadRequest, err)
		return
	}

	calc := h.controller.Table.Calculator()
	if asr != 0 {
		calc, err = prayertimes.New(
			prayertimes.WithModel(calc.Model()),
			prayertimes.WithMethod(calc.Method()),
			prayertimes.WithAsrShadowFactor(asr),
		)
		if err != nil {
			h.fail(w, req, http.StatusBadRequest, err)
			return
		}
	}

	h.write(w, req, transformResult("", calc, calc.Compute(in)))
}

// GetLocations lists the configured locations
func (h *Handlers) GetLocations(w http.ResponseWriter, req *http.Request) {
	locations := h.controller.Locations
	if locations == nil {
		locations = []config.LocationData{}
	}
	h.write(w, req, locations)
}

// GetLocationTimes returns a configured location's timetable for the date
// query parameter, interpreted in the location's time zone, or for today
func (h *Handlers) GetLocationTimes(w http.ResponseWriter, req *http.Request) {
	loc, ok := h.lookupLocation(w, req)
	if !ok {
		return
	}

	date, err := loc.Local(h.controller.now())
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}
	if s := req.URL.Query().Get("date"); s != "" {
		date, err = time.ParseInLocation("2006-01-02", s, date.Location())
		if err != nil {
			h.fail(w, req, http.StatusBadRequest, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s))
			return
		}
	}

	r, err := h.controller.Table.Day(loc, date)
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}
	h.write(w, req, transformResult(loc.Name, h.controller.Table.Calculator(), r))
}

// GetNextPrayer returns the next prayer with an adhan at a location
func (h *Handlers) GetNextPrayer(w http.ResponseWriter, req *http.Request) {
	loc, ok := h.lookupLocation(w, req)
	if !ok {
		return
	}

	now := h.controller.now()
	next, found, err := adhan.NextFor(h.controller.Table, loc, now)
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}

	resp := NextResponse{Location: loc.Name}
	if found {
		name := next.Prayer.String()
		at := next.At
		resp.Prayer = &name
		resp.At = &at
		resp.In = next.At.Sub(now).Round(time.Second).String()
	}
	h.write(w, req, resp)
}

// GetPreferences returns the notification flag of every prayer
func (h *Handlers) GetPreferences(w http.ResponseWriter, req *http.Request) {
	loc, ok := h.lookupLocation(w, req)
	if !ok {
		return
	}

	flags, err := h.controller.Prefs.List(req.Context(), loc.Name)
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}

	resp := PreferencesResponse{Location: loc.Name, Enabled: make(map[string]bool, len(flags))}
	for p, enabled := range flags {
		resp.Enabled[p.String()] = enabled
	}
	h.write(w, req, resp)
}

// GetPreference returns one prayer's notification flag
func (h *Handlers) GetPreference(w http.ResponseWriter, req *http.Request) {
	loc, p, ok := h.lookupPrayer(w, req)
	if !ok {
		return
	}

	enabled, err := h.controller.Prefs.Enabled(req.Context(), loc.Name, p)
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}
	h.write(w, req, PreferenceResponse{Location: loc.Name, Prayer: p.String(), Enabled: enabled})
}

// SetPreference stores one prayer's notification flag from a
// {"enabled": bool} body
func (h *Handlers) SetPreference(w http.ResponseWriter, req *http.Request) {
	loc, p, ok := h.lookupPrayer(w, req)
	if !ok {
		return
	}

	var body PreferenceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		h.fail(w, req, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Enabled == nil {
		h.fail(w, req, http.StatusBadRequest, errors.New(`request body must set "enabled"`))
		return
	}

	if err := h.controller.Prefs.SetEnabled(req.Context(), loc.Name, p, *body.Enabled); err != nil {
		h.fail(w, req, http.StatusInternalServerError, err)
		return
	}
	log.Infow("notification preference updated", "location", loc.Name, "prayer", p.String(), "enabled", *body.Enabled)
	h.write(w, req, PreferenceResponse{Location: loc.Name, Prayer: p.String(), Enabled: *body.Enabled})
}

func (h *Handlers) lookupPrayer(w http.ResponseWriter, req *http.Request) (config.LocationData, prayertimes.Prayer, bool) {
	loc, ok := h.lookupLocation(w, req)
	if !ok {
		return loc, 0, false
	}
	p, err := prayertimes.ParsePrayer(mux.Vars(req)["prayer"])
	if err != nil {
		h.fail(w, req, http.StatusBadRequest, err)
		return loc, 0, false
	}
	return loc, p, true
}

// floatParam parses a float query parameter. A missing optional parameter
// reads as zero.
func floatParam(q url.Values, name string, required bool) (float64, error) {
	s := q.Get(name)
	if s == "" {
		if required {
			return 0, fmt.Errorf("missing required parameter %q", name)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for parameter %q", s, name)
	}
	return v, nil
}
