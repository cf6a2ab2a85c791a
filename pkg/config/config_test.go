package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

const sampleYAML = `
locations:
  - name: mecca
    latitude: 21.4225
    longitude: 39.8262
    utc-offset: 3
  - name: nyc
    latitude: 40.7128
    longitude: -74.006
    timezone: America/New_York
calculation:
  model: meeus
  method: hanafi
  asr-convention: altitude
rest:
  enabled: true
  port: 9090
adhan:
  enabled: true
  command: ["mpg123", "-q"]
  fajr-cue: /usr/share/muadhin/fajr.mp3
  regular-cue: /usr/share/muadhin/adhan.mp3
preferences:
  backend: sqlite
  path: /var/lib/muadhin/preferences.db
`

func floatPtr(v float64) *float64 { return &v }

func TestParseYAML(t *testing.T) {
	cfg, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Locations) != 2 {
		t.Fatalf("got %d locations, expected 2", len(cfg.Locations))
	}
	if l := cfg.Locations[0]; l.Name != "mecca" || l.UTCOffset == nil || *l.UTCOffset != 3 {
		t.Errorf("first location = %+v", l)
	}
	if l := cfg.Locations[1]; l.Timezone != "America/New_York" || l.UTCOffset != nil {
		t.Errorf("second location = %+v", l)
	}
	if cfg.REST.Port != 9090 || cfg.REST.ListenAddr != "0.0.0.0" {
		t.Errorf("rest = %+v, expected port 9090 and default listen address", cfg.REST)
	}
	if !reflect.DeepEqual(cfg.Adhan.Command, []string{"mpg123", "-q"}) {
		t.Errorf("adhan command = %v", cfg.Adhan.Command)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config should validate: %v", err)
	}

	calc, err := cfg.Calculation.Calculator()
	if err != nil {
		t.Fatal(err)
	}
	if calc.Model() != prayertimes.Meeus {
		t.Errorf("model = %s, expected meeus", calc.Model().Name())
	}
	if m := calc.Method(); m.AsrShadowFactor != 2 || m.AsrConvention != prayertimes.AsrAltitude {
		t.Errorf("method = %+v", m)
	}
}

func TestParseYAMLRejectsUnknownKeys(t *testing.T) {
	if _, err := ParseYAML([]byte("locations: []\nlatitude: 3\n")); err == nil {
		t.Error("expected an error for an unknown top-level key")
	}
}

func TestYAMLProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	p := NewYAMLProvider(path)
	defer p.Close()

	locations, err := p.GetLocations()
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) != 2 || !p.IsReadOnly() {
		t.Errorf("locations = %v, read-only = %v", locations, p.IsReadOnly())
	}

	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *ConfigData {
		c := &ConfigData{Locations: []LocationData{{Name: "home", Latitude: 51.5, Longitude: -0.12, UTCOffset: floatPtr(0)}}}
		c.ApplyDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(*ConfigData)
		ok     bool
	}{
		{"Valid", func(*ConfigData) {}, true},
		{"No locations", func(c *ConfigData) { c.Locations = nil }, false},
		{"Duplicate names", func(c *ConfigData) { c.Locations = append(c.Locations, c.Locations[0]) }, false},
		{"Latitude out of range", func(c *ConfigData) { c.Locations[0].Latitude = 95 }, false},
		{"Both offset and timezone", func(c *ConfigData) { c.Locations[0].Timezone = "Europe/London" }, false},
		{"Neither offset nor timezone", func(c *ConfigData) { c.Locations[0].UTCOffset = nil }, false},
		{"Unknown timezone", func(c *ConfigData) {
			c.Locations[0].UTCOffset = nil
			c.Locations[0].Timezone = "Mars/Olympus_Mons"
		}, false},
		{"Offset out of range", func(c *ConfigData) { c.Locations[0].UTCOffset = floatPtr(15) }, false},
		{"Unknown model", func(c *ConfigData) { c.Calculation.Model = "vsop87" }, false},
		{"Unknown method", func(c *ConfigData) { c.Calculation.Method = "jafari" }, false},
		{"Negative shadow factor", func(c *ConfigData) { c.Calculation.AsrShadowFactor = -1 }, false},
		{"Unknown preferences backend", func(c *ConfigData) { c.Preferences.Backend = "redis" }, false},
		{"SQLite without path", func(c *ConfigData) { c.Preferences.Backend = "sqlite" }, false},
		{"Postgres without DSN", func(c *ConfigData) { c.Preferences.Backend = "postgres" }, false},
		{"Port out of range", func(c *ConfigData) { c.REST.Port = 70000 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}

	if err := (&ConfigData{}).Validate(); !errors.Is(err, ErrNoLocations) {
		t.Errorf("empty config: got %v, expected ErrNoLocations", err)
	}
}

func TestLocationOffset(t *testing.T) {
	nyc := LocationData{Name: "nyc", Latitude: 40.7, Longitude: -74, Timezone: "America/New_York"}

	tests := []struct {
		date     time.Time
		expected float64
	}{
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), -5},
		{time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), -4},
	}
	for _, tt := range tests {
		got, err := nyc.Offset(tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.expected {
			t.Errorf("Offset(%s) = %v, expected %v", tt.date.Format("2006-01-02"), got, tt.expected)
		}
	}

	fixed := LocationData{Name: "kathmandu", UTCOffset: floatPtr(5.75)}
	in, err := fixed.Input(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if in.TimezoneOffset != 5.75 || in.Year != 2024 || in.Month != 3 || in.Day != 1 {
		t.Errorf("Input = %+v", in)
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	empty, err := p.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(empty.Locations) != 0 || empty.REST.Port != 8080 {
		t.Errorf("fresh database config = %+v", empty)
	}

	original, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SaveConfig(original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	// Rows come back ordered by name, which matches the sample's order.
	if !reflect.DeepEqual(loaded, original) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
	if p.IsReadOnly() {
		t.Error("SQLite provider should be writable")
	}
}
