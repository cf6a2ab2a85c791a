package restserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chrissnell/muadhin/internal/preferences"
	"github.com/chrissnell/muadhin/internal/timetable"
	"github.com/chrissnell/muadhin/pkg/config"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
	"github.com/chrissnell/muadhin/pkg/responseformat"
	"go.uber.org/zap"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()

	offset := 3.0
	cfg := &config.ConfigData{
		Locations: []config.LocationData{
			{Name: "mecca", Latitude: 21.4225, Longitude: 39.8262, UTCOffset: &offset},
		},
	}
	cfg.ApplyDefaults()

	calc, err := prayertimes.New()
	if err != nil {
		t.Fatal(err)
	}
	table := timetable.New(calc, 0)
	t.Cleanup(table.Close)

	var wg sync.WaitGroup
	c, err := NewController(context.Background(), &wg, cfg, table, preferences.NewMemoryStore(), zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	// Noon in Mecca
	c.now = func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }
	return c
}

func do(t *testing.T, c *Controller, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("error decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func timeOf(resp TimesResponse, p prayertimes.Prayer) string {
	if s := resp.Times[p].Time; s != nil {
		return *s
	}
	return "null"
}

func TestStatusCodes(t *testing.T) {
	c := newTestController(t)

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		expected int
	}{
		{"Health", http.MethodGet, "/healthz", "", http.StatusOK},
		{"Times", http.MethodGet, "/times?lat=21.4&lon=39.8&tz=3&date=2024-03-20", "", http.StatusOK},
		{"Times without date", http.MethodGet, "/times?lat=21.4&lon=39.8&tz=3", "", http.StatusOK},
		{"Missing latitude", http.MethodGet, "/times?lon=39.8&tz=3", "", http.StatusBadRequest},
		{"Unparseable longitude", http.MethodGet, "/times?lat=21.4&lon=east&tz=3", "", http.StatusBadRequest},
		{"Latitude out of range", http.MethodGet, "/times?lat=95&lon=39.8&tz=3", "", http.StatusBadRequest},
		{"Offset out of range", http.MethodGet, "/times?lat=21.4&lon=39.8&tz=15", "", http.StatusBadRequest},
		{"Impossible date", http.MethodGet, "/times?lat=21.4&lon=39.8&tz=3&date=2024-02-30", "", http.StatusBadRequest},
		{"Negative shadow factor", http.MethodGet, "/times?lat=21.4&lon=39.8&tz=3&asr=-1", "", http.StatusBadRequest},
		{"Wrong method", http.MethodPost, "/times?lat=21.4&lon=39.8&tz=3", "", http.StatusMethodNotAllowed},
		{"Locations", http.MethodGet, "/locations", "", http.StatusOK},
		{"Location times", http.MethodGet, "/locations/mecca/times", "", http.StatusOK},
		{"Location bad date", http.MethodGet, "/locations/mecca/times?date=20-03-2024", "", http.StatusBadRequest},
		{"Unknown location", http.MethodGet, "/locations/atlantis/times", "", http.StatusNotFound},
		{"Unknown location next", http.MethodGet, "/locations/atlantis/next", "", http.StatusNotFound},
		{"Preferences", http.MethodGet, "/locations/mecca/preferences", "", http.StatusOK},
		{"Unknown prayer", http.MethodGet, "/locations/mecca/preferences/tahajjud", "", http.StatusBadRequest},
		{"Preference without enabled", http.MethodPut, "/locations/mecca/preferences/asr", `{}`, http.StatusBadRequest},
		{"Preference bad body", http.MethodPut, "/locations/mecca/preferences/asr", `{"enabled":"yes"}`, http.StatusBadRequest},
		{"Preference unknown field", http.MethodPut, "/locations/mecca/preferences/asr", `{"enabled":true,"volume":3}`, http.StatusBadRequest},
		{"Preference unknown location", http.MethodPut, "/locations/atlantis/preferences/asr", `{"enabled":true}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, c, tt.method, tt.target, tt.body)
			if rec.Code != tt.expected {
				t.Errorf("%s %s = %d, expected %d (body %s)", tt.method, tt.target, rec.Code, tt.expected, rec.Body.String())
			}
			if rec.Code >= 400 && rec.Code != http.StatusMethodNotAllowed {
				body := decode[responseformat.ErrorBody](t, rec)
				if body.Status != rec.Code || body.Error == "" {
					t.Errorf("error body = %+v", body)
				}
			}
		})
	}
}

func TestGetTimes(t *testing.T) {
	c := newTestController(t)

	rec := do(t, c, http.MethodGet, "/times?lat=21.4225&lon=39.8262&tz=3&date=2024-03-20", "")
	resp := decode[TimesResponse](t, rec)

	expected := []string{"05:40", "06:54", "12:58", "14:54", "19:01", "20:11"}
	for i, want := range expected {
		if got := timeOf(resp, prayertimes.Prayer(i)); got != want {
			t.Errorf("%s = %s, expected %s", prayertimes.Prayer(i), got, want)
		}
	}
	if resp.Date != "2024-03-20" || resp.Model != "reference" || resp.AsrShadowFactor != 1 {
		t.Errorf("response header = %+v", resp)
	}
	if at := resp.Times[prayertimes.Dhuhr].At; at == nil || at.UTC().Hour() != 9 {
		t.Errorf("Dhuhr instant = %v, expected 09:58 UTC", at)
	}

	hanafi := decode[TimesResponse](t, do(t, c, http.MethodGet, "/times?lat=21.4225&lon=39.8262&tz=3&date=2024-03-20&asr=2", ""))
	if hanafi.AsrShadowFactor != 2 || timeOf(hanafi, prayertimes.Asr) == timeOf(resp, prayertimes.Asr) {
		t.Errorf("asr=2 response = %+v", hanafi)
	}
}

func TestUndefinedTimesAreNull(t *testing.T) {
	c := newTestController(t)

	rec := do(t, c, http.MethodGet, "/times?lat=51.5074&lon=-0.1278&tz=1&date=2024-06-21", "")
	if !strings.Contains(rec.Body.String(), `{"prayer":"Fajr","time":null,"hours":null,"at":null}`) {
		t.Errorf("Fajr should serialize as null at London midsummer: %s", rec.Body.String())
	}

	resp := decode[TimesResponse](t, rec)
	if resp.Times[prayertimes.Isha].Time != nil || resp.Times[prayertimes.Dhuhr].Time == nil {
		t.Errorf("times = %+v", resp.Times)
	}
}

func TestLocationEndpoints(t *testing.T) {
	c := newTestController(t)

	locations := decode[[]config.LocationData](t, do(t, c, http.MethodGet, "/locations", ""))
	if len(locations) != 1 || locations[0].Name != "mecca" {
		t.Errorf("locations = %+v", locations)
	}

	times := decode[TimesResponse](t, do(t, c, http.MethodGet, "/locations/mecca/times?date=2024-03-21", ""))
	if times.Location != "mecca" || times.Date != "2024-03-21" || times.UTCOffset != 3 {
		t.Errorf("location times = %+v", times)
	}

	today := decode[TimesResponse](t, do(t, c, http.MethodGet, "/locations/mecca/times", ""))
	if today.Date != "2024-03-20" || timeOf(today, prayertimes.Dhuhr) != "12:58" {
		t.Errorf("today's times = %+v", today)
	}

	next := decode[NextResponse](t, do(t, c, http.MethodGet, "/locations/mecca/next", ""))
	if next.Prayer == nil || *next.Prayer != "Dhuhr" || next.In == "" {
		t.Errorf("next = %+v", next)
	}
}

func TestPreferenceEndpoints(t *testing.T) {
	c := newTestController(t)

	rec := do(t, c, http.MethodPut, "/locations/mecca/preferences/dhuhr", `{"enabled":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[PreferenceResponse](t, rec); got.Prayer != "Dhuhr" || got.Enabled {
		t.Errorf("PUT response = %+v", got)
	}

	all := decode[PreferencesResponse](t, do(t, c, http.MethodGet, "/locations/mecca/preferences", ""))
	if len(all.Enabled) != prayertimes.NumPrayers || all.Enabled["Dhuhr"] || !all.Enabled["Fajr"] {
		t.Errorf("preferences = %+v", all)
	}

	one := decode[PreferenceResponse](t, do(t, c, http.MethodGet, "/locations/mecca/preferences/Dhuhr", ""))
	if one.Enabled {
		t.Errorf("single preference = %+v", one)
	}

	enabled, err := c.Prefs.Enabled(context.Background(), "mecca", prayertimes.Dhuhr)
	if err != nil || enabled {
		t.Errorf("store flag = %v, %v", enabled, err)
	}
}

func TestMsgPackResponse(t *testing.T) {
	c := newTestController(t)

	rec := do(t, c, http.MethodGet, "/healthz?format=msgpack", "")
	if ct := rec.Header().Get("Content-Type"); ct != responseformat.ContentTypeMsgPack {
		t.Errorf("Content-Type = %s, expected %s", ct, responseformat.ContentTypeMsgPack)
	}
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Errorf("msgpack response = %d, %d bytes", rec.Code, rec.Body.Len())
	}
}
