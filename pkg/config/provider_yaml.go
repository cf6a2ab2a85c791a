package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

// ParseYAML converts a YAML document into ConfigData with defaults applied
func ParseYAML(b []byte) (*ConfigData, error) {
	var yamlConfig ConfigYAML
	if err := yaml.UnmarshalStrict(b, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Locations: make([]LocationData, len(yamlConfig.Locations)),
		Calculation: CalculationData{
			Model:           yamlConfig.Calculation.Model,
			Method:          yamlConfig.Calculation.Method,
			AsrShadowFactor: yamlConfig.Calculation.AsrShadowFactor,
			AsrConvention:   yamlConfig.Calculation.AsrConvention,
			FajrAngle:       yamlConfig.Calculation.FajrAngle,
			IshaAngle:       yamlConfig.Calculation.IshaAngle,
		},
		REST: RESTServerData{
			Enabled:    yamlConfig.REST.Enabled,
			ListenAddr: yamlConfig.REST.ListenAddr,
			Port:       yamlConfig.REST.Port,
		},
		Adhan: AdhanData{
			Enabled:    yamlConfig.Adhan.Enabled,
			Command:    yamlConfig.Adhan.Command,
			FajrCue:    yamlConfig.Adhan.FajrCue,
			RegularCue: yamlConfig.Adhan.RegularCue,
		},
		Preferences: PreferencesData{
			Backend:          yamlConfig.Preferences.Backend,
			Path:             yamlConfig.Preferences.Path,
			ConnectionString: yamlConfig.Preferences.ConnectionString,
		},
	}

	for i, l := range yamlConfig.Locations {
		config.Locations[i] = LocationData{
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			UTCOffset: l.UTCOffset,
			Timezone:  l.Timezone,
		}
	}

	config.ApplyDefaults()
	return config, nil
}

// GetLocations returns location configurations
func (y *YAMLProvider) GetLocations() ([]LocationData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Locations, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// ConfigYAML mirrors ConfigData with the dashed keys used in config files
type ConfigYAML struct {
	Locations   []LocationYAML  `yaml:"locations"`
	Calculation CalculationYAML `yaml:"calculation,omitempty"`
	REST        RESTServerYAML  `yaml:"rest,omitempty"`
	Adhan       AdhanYAML       `yaml:"adhan,omitempty"`
	Preferences PreferencesYAML `yaml:"preferences,omitempty"`
}

type LocationYAML struct {
	Name      string   `yaml:"name"`
	Latitude  float64  `yaml:"latitude"`
	Longitude float64  `yaml:"longitude"`
	UTCOffset *float64 `yaml:"utc-offset,omitempty"`
	Timezone  string   `yaml:"timezone,omitempty"`
}

type CalculationYAML struct {
	Model           string  `yaml:"model,omitempty"`
	Method          string  `yaml:"method,omitempty"`
	AsrShadowFactor float64 `yaml:"asr-shadow-factor,omitempty"`
	AsrConvention   string  `yaml:"asr-convention,omitempty"`
	FajrAngle       float64 `yaml:"fajr-angle,omitempty"`
	IshaAngle       float64 `yaml:"isha-angle,omitempty"`
}

type RESTServerYAML struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen-addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
}

type AdhanYAML struct {
	Enabled    bool     `yaml:"enabled"`
	Command    []string `yaml:"command,omitempty"`
	FajrCue    string   `yaml:"fajr-cue,omitempty"`
	RegularCue string   `yaml:"regular-cue,omitempty"`
}

type PreferencesYAML struct {
	Backend          string `yaml:"backend,omitempty"`
	Path             string `yaml:"path,omitempty"`
	ConnectionString string `yaml:"connection-string,omitempty"`
}
