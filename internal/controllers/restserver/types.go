package restserver

import "time"

// PrayerTime is one row of a timetable. Time, Hours and At are null when the
// sun never reaches the prayer's elevation that day.
type PrayerTime struct {
	Prayer string     `json:"prayer"`
	Time   *string    `json:"time"`
	Hours  *float64   `json:"hours"`
	At     *time.Time `json:"at"`
}

// TimesResponse is the payload of the /times endpoints
type TimesResponse struct {
	Location        string       `json:"location,omitempty"`
	Latitude        float64      `json:"latitude"`
	Longitude       float64      `json:"longitude"`
	UTCOffset       float64      `json:"utc_offset"`
	Date            string       `json:"date"`
	Model           string       `json:"model"`
	Method          string       `json:"method"`
	AsrShadowFactor float64      `json:"asr_shadow_factor"`
	AsrConvention   string       `json:"asr_convention"`
	Times           []PrayerTime `json:"times"`
}

// NextResponse is the payload of /locations/{name}/next. Prayer and At are
// null when nothing is due in the next two days.
type NextResponse struct {
	Location string     `json:"location"`
	Prayer   *string    `json:"prayer"`
	At       *time.Time `json:"at"`
	In       string     `json:"in,omitempty"`
}

// PreferencesResponse lists the notification flag of every prayer
type PreferencesResponse struct {
	Location string          `json:"location"`
	Enabled  map[string]bool `json:"enabled"`
}

// PreferenceRequest is the body of a preference update
type PreferenceRequest struct {
	Enabled *bool `json:"enabled"`
}

// PreferenceResponse echoes a single stored flag
type PreferenceResponse struct {
	Location string `json:"location"`
	Prayer   string `json:"prayer"`
	Enabled  bool   `json:"enabled"`
}

// HealthResponse is the payload of /healthz
type HealthResponse struct {
	Status    string `json:"status"`
	Locations int    `json:"locations"`
}
