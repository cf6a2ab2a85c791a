package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

// ErrNoLocations is returned by Validate when no location is configured
var ErrNoLocations = errors.New("no locations configured")

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetLocations() ([]LocationData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Locations   []LocationData  `json:"locations"`
	Calculation CalculationData `json:"calculation"`
	REST        RESTServerData  `json:"rest"`
	Adhan       AdhanData       `json:"adhan"`
	Preferences PreferencesData `json:"preferences"`
}

// LocationData is a named place prayer times are computed and announced for.
// Exactly one of UTCOffset and Timezone must be set.
type LocationData struct {
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	UTCOffset *float64 `json:"utc_offset,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
}

// CalculationData selects the solar model and juristic method
type CalculationData struct {
	Model           string  `json:"model,omitempty"`
	Method          string  `json:"method,omitempty"`
	AsrShadowFactor float64 `json:"asr_shadow_factor,omitempty"`
	AsrConvention   string  `json:"asr_convention,omitempty"`
	FajrAngle       float64 `json:"fajr_angle,omitempty"`
	IshaAngle       float64 `json:"isha_angle,omitempty"`
}

// RESTServerData configures the HTTP API
type RESTServerData struct {
	Enabled    bool   `json:"enabled"`
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}

// AdhanData configures audio cues. Command is run with the cue file appended
// as its last argument; an empty Command only logs announcements.
type AdhanData struct {
	Enabled    bool     `json:"enabled"`
	Command    []string `json:"command,omitempty"`
	FajrCue    string   `json:"fajr_cue,omitempty"`
	RegularCue string   `json:"regular_cue,omitempty"`
}

// PreferencesData selects the notification preference store
type PreferencesData struct {
	Backend          string `json:"backend,omitempty"` // memory, sqlite or postgres
	Path             string `json:"path,omitempty"`
	ConnectionString string `json:"connection_string,omitempty"`
}

// ApplyDefaults fills in unset optional values
func (c *ConfigData) ApplyDefaults() {
	if c.REST.ListenAddr == "" {
		c.REST.ListenAddr = "0.0.0.0"
	}
	if c.REST.Port == 0 {
		c.REST.Port = 8080
	}
	if c.Preferences.Backend == "" {
		c.Preferences.Backend = "memory"
	}
	if c.Calculation.Model == "" {
		c.Calculation.Model = "reference"
	}
}

// Validate checks the configuration for errors that would otherwise only
// surface once the scheduler or REST server is running
func (c *ConfigData) Validate() error {
	if len(c.Locations) == 0 {
		return ErrNoLocations
	}

	seen := make(map[string]bool)
	for _, l := range c.Locations {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.Name] {
			return fmt.Errorf("duplicate location name: %s", l.Name)
		}
		seen[l.Name] = true
	}

	if _, err := c.Calculation.Calculator(); err != nil {
		return fmt.Errorf("invalid calculation settings: %w", err)
	}

	switch c.Preferences.Backend {
	case "", "memory":
	case "sqlite":
		if c.Preferences.Path == "" {
			return fmt.Errorf("preferences.path is required for the sqlite backend")
		}
	case "postgres":
		if c.Preferences.ConnectionString == "" {
			return fmt.Errorf("preferences.connection-string is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown preferences backend: %s", c.Preferences.Backend)
	}

	if c.REST.Port < 0 || c.REST.Port > 65535 {
		return fmt.Errorf("rest.port %d out of range", c.REST.Port)
	}
	return nil
}

// Location returns the named location
func (c *ConfigData) Location(name string) (LocationData, bool) {
	for _, l := range c.Locations {
		if l.Name == name {
			return l, true
		}
	}
	return LocationData{}, false
}

// Validate checks coordinates and the time zone source
func (l LocationData) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("location name must not be empty")
	}
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("location %s: latitude %v out of range", l.Name, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("location %s: longitude %v out of range", l.Name, l.Longitude)
	}
	switch {
	case l.UTCOffset != nil && l.Timezone != "":
		return fmt.Errorf("location %s: set utc-offset or timezone, not both", l.Name)
	case l.UTCOffset == nil && l.Timezone == "":
		return fmt.Errorf("location %s: one of utc-offset or timezone is required", l.Name)
	case l.UTCOffset != nil && (*l.UTCOffset < -12 || *l.UTCOffset > 14):
		return fmt.Errorf("location %s: utc-offset %v out of range", l.Name, *l.UTCOffset)
	case l.Timezone != "":
		if _, err := time.LoadLocation(l.Timezone); err != nil {
			return fmt.Errorf("location %s: %w", l.Name, err)
		}
	}
	return nil
}

// Offset returns the UTC offset in hours in effect at local noon on the
// calendar date of t. A fixed utc-offset wins over any time zone.
func (l LocationData) Offset(t time.Time) (float64, error) {
	if l.UTCOffset != nil {
		return *l.UTCOffset, nil
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return 0, fmt.Errorf("location %s: %w", l.Name, err)
	}
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
	_, secs := noon.Zone()
	return float64(secs) / 3600, nil
}

// Local returns t as seen on the location's wall clock
func (l LocationData) Local(t time.Time) (time.Time, error) {
	if l.UTCOffset != nil {
		return t.In(prayertimes.Input{TimezoneOffset: *l.UTCOffset}.Location()), nil
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("location %s: %w", l.Name, err)
	}
	return t.In(loc), nil
}

// Input builds the engine input for the location's local calendar date at t
func (l LocationData) Input(t time.Time) (prayertimes.Input, error) {
	local, err := l.Local(t)
	if err != nil {
		return prayertimes.Input{}, err
	}
	offset, err := l.Offset(local)
	if err != nil {
		return prayertimes.Input{}, err
	}
	return prayertimes.InputForDate(l.Latitude, l.Longitude, offset, local), nil
}

// Calculator builds a prayertimes.Calculator from the calculation settings
func (c CalculationData) Calculator() (*prayertimes.Calculator, error) {
	model, err := prayertimes.ModelByName(c.Model)
	if err != nil {
		return nil, err
	}

	var method prayertimes.Method
	switch c.Method {
	case "", "standard":
		method = prayertimes.Standard
	case "hanafi":
		method = prayertimes.Hanafi
	default:
		return nil, fmt.Errorf("unknown method: %s", c.Method)
	}

	conv, err := prayertimes.ParseAsrConvention(c.AsrConvention)
	if err != nil {
		return nil, err
	}
	method.AsrConvention = conv

	if c.AsrShadowFactor != 0 {
		method.AsrShadowFactor = c.AsrShadowFactor
	}
	if c.FajrAngle != 0 {
		method.FajrAngle = c.FajrAngle
	}
	if c.IshaAngle != 0 {
		method.IshaAngle = c.IshaAngle
	}

	return prayertimes.New(prayertimes.WithModel(model), prayertimes.WithMethod(method))
}
