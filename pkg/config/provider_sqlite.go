package config

import (
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/chrissnell/muadhin/pkg/migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens (creating if needed) a SQLite configuration database
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator := migrate.NewMigrator(db, migrate.NewFSProvider(migrationsFS, "migrations", "config_migrations"))
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate configuration schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	locations, err := s.GetLocations()
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	config.Locations = locations

	settings, err := s.getSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	for _, f := range settingFields(config) {
		raw, ok := settings[f.key]
		if !ok {
			continue
		}
		if err := f.set(raw); err != nil {
			return nil, fmt.Errorf("invalid value %q for setting %s: %w", raw, f.key, err)
		}
	}

	config.ApplyDefaults()
	return config, nil
}

// GetLocations returns location configurations from the database
func (s *SQLiteProvider) GetLocations() ([]LocationData, error) {
	rows, err := s.db.Query(`SELECT name, latitude, longitude, utc_offset, timezone FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []LocationData
	for rows.Next() {
		var l LocationData
		var offset sql.NullFloat64
		var tz sql.NullString

		if err := rows.Scan(&l.Name, &l.Latitude, &l.Longitude, &offset, &tz); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		if offset.Valid {
			v := offset.Float64
			l.UTCOffset = &v
		}
		if tz.Valid {
			l.Timezone = tz.String
		}
		locations = append(locations, l)
	}

	return locations, rows.Err()
}

func (s *SQLiteProvider) getSettings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM locations", "DELETE FROM settings"} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("failed to clear existing config: %w", err)
		}
	}

	for _, l := range configData.Locations {
		var offset sql.NullFloat64
		if l.UTCOffset != nil {
			offset = sql.NullFloat64{Float64: *l.UTCOffset, Valid: true}
		}
		tz := sql.NullString{String: l.Timezone, Valid: l.Timezone != ""}

		_, err := tx.Exec(`INSERT INTO locations (name, latitude, longitude, utc_offset, timezone) VALUES (?, ?, ?, ?, ?)`,
			l.Name, l.Latitude, l.Longitude, offset, tz)
		if err != nil {
			return fmt.Errorf("failed to insert location %s: %w", l.Name, err)
		}
	}

	for _, f := range settingFields(configData) {
		v := f.get()
		if v == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, f.key, v); err != nil {
			return fmt.Errorf("failed to insert setting %s: %w", f.key, err)
		}
	}

	return tx.Commit()
}

// settingField binds a settings-table key to a field of ConfigData
type settingField struct {
	key string
	get func() string
	set func(string) error
}

func settingFields(c *ConfigData) []settingField {
	return []settingField{
		stringSetting("calculation.model", &c.Calculation.Model),
		stringSetting("calculation.method", &c.Calculation.Method),
		floatSetting("calculation.asr-shadow-factor", &c.Calculation.AsrShadowFactor),
		stringSetting("calculation.asr-convention", &c.Calculation.AsrConvention),
		floatSetting("calculation.fajr-angle", &c.Calculation.FajrAngle),
		floatSetting("calculation.isha-angle", &c.Calculation.IshaAngle),
		boolSetting("rest.enabled", &c.REST.Enabled),
		stringSetting("rest.listen-addr", &c.REST.ListenAddr),
		intSetting("rest.port", &c.REST.Port),
		boolSetting("adhan.enabled", &c.Adhan.Enabled),
		{
			key: "adhan.command",
			get: func() string { return strings.Join(c.Adhan.Command, "\x1f") },
			set: func(v string) error { c.Adhan.Command = strings.Split(v, "\x1f"); return nil },
		},
		stringSetting("adhan.fajr-cue", &c.Adhan.FajrCue),
		stringSetting("adhan.regular-cue", &c.Adhan.RegularCue),
		stringSetting("preferences.backend", &c.Preferences.Backend),
		stringSetting("preferences.path", &c.Preferences.Path),
		stringSetting("preferences.connection-string", &c.Preferences.ConnectionString),
	}
}

func stringSetting(key string, p *string) settingField {
	return settingField{
		key: key,
		get: func() string { return *p },
		set: func(v string) error { *p = v; return nil },
	}
}

func floatSetting(key string, p *float64) settingField {
	return settingField{
		key: key,
		get: func() string {
			if *p == 0 {
				return ""
			}
			return strconv.FormatFloat(*p, 'g', -1, 64)
		},
		set: func(v string) (err error) { *p, err = strconv.ParseFloat(v, 64); return },
	}
}

func intSetting(key string, p *int) settingField {
	return settingField{
		key: key,
		get: func() string {
			if *p == 0 {
				return ""
			}
			return strconv.Itoa(*p)
		},
		set: func(v string) (err error) { *p, err = strconv.Atoi(v); return },
	}
}

func boolSetting(key string, p *bool) settingField {
	return settingField{
		key: key,
		get: func() string { return strconv.FormatBool(*p) },
		set: func(v string) (err error) { *p, err = strconv.ParseBool(v); return },
	}
}
