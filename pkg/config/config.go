package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Request   RequestConfig   `yaml:"request"`
	Sources   SourcesConfig   `yaml:"sources"`
	Directory DirectoryConfig `yaml:"directory"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	Ticker    TickerConfig    `yaml:"ticker"`
	TTS       TTSConfig       `yaml:"tts"`
	Audio     AudioConfig     `yaml:"audio"`
	Log       LogConfig       `yaml:"log"`
	DB        DBConfig        `yaml:"db"`
	Server    ServerConfig    `yaml:"server"`
	Sim       SimConfig       `yaml:"sim"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
	// RatePerMinute caps requests per host.
	RatePerMinute int `yaml:"rate_per_minute"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// SourcesConfig holds the external data source endpoints.
type SourcesConfig struct {
	WhazzupURL      string   `yaml:"whazzup_url"`
	WhazzupInterval Duration `yaml:"whazzup_interval"`
	AirportsURL     string   `yaml:"airports_url"`
	FrequenciesURL  string   `yaml:"frequencies_url"`
	MetarURL        string   `yaml:"metar_url"`
}

// DirectoryConfig holds airport directory settings.
type DirectoryConfig struct {
	// OverridePath is the user dataset; entries win on identifier collision.
	OverridePath    string   `yaml:"override_path"`
	RefreshInterval Duration `yaml:"refresh_interval"`
}

// ResolverConfig holds station resolution settings.
type ResolverConfig struct {
	// RadioRange is the maximum distance at which a ground station is
	// receivable.
	RadioRange Distance `yaml:"radio_range"`
}

// TickerConfig holds the control loop interval.
type TickerConfig struct {
	PollInterval Duration `yaml:"poll_interval"`
}

// SAPIConfig holds settings for Windows SAPI synthesis.
type SAPIConfig struct {
	Voice string `yaml:"voice"`
	Rate  int    `yaml:"rate"`
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine  string     `yaml:"engine"`
	SAPI    SAPIConfig `yaml:"sapi"`
	WorkDir string     `yaml:"work_dir"`
}

// AudioConfig holds playback and radio-effect settings.
type AudioConfig struct {
	Volume      float64 `yaml:"volume"`
	RadioEffect bool    `yaml:"radio_effect"`
	LowCutoff   float64 `yaml:"low_cutoff"`
	HighCutoff  float64 `yaml:"high_cutoff"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds the status endpoint settings.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// MockRadioConfig holds one simulated receiver. Receive nil means the
// radio's receive switch is on.
type MockRadioConfig struct {
	Frequency string `yaml:"frequency"`
	Receive   *bool  `yaml:"receive,omitempty"`
}

// Receiving reports whether the radio's receive switch is on.
func (r MockRadioConfig) Receiving() bool {
	return r.Receive == nil || *r.Receive
}

// MockSimConfig holds settings for the mock simulator.
type MockSimConfig struct {
	Lat      float64         `yaml:"lat"`
	Lon      float64         `yaml:"lon"`
	COM1     MockRadioConfig `yaml:"com1"`
	COM2     MockRadioConfig `yaml:"com2"`
	NAV1     MockRadioConfig `yaml:"nav1"`
	NAV2     MockRadioConfig `yaml:"nav2"`
	OnGround bool            `yaml:"on_ground"`
}

// SimConfig holds settings for the simulator connection.
type SimConfig struct {
	Provider string        `yaml:"provider"` // "fsuipc", "mock"
	Mock     MockSimConfig `yaml:"mock"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Retries:       3,
			Timeout:       Duration(30 * time.Second),
			RatePerMinute: 20,
			Backoff: BackoffConfig{
				BaseDelay: Duration(1 * time.Second),
				MaxDelay:  Duration(60 * time.Second),
			},
		},
		Sources: SourcesConfig{
			WhazzupURL:      "https://api.ivao.aero/v2/tracker/whazzup",
			WhazzupInterval: Duration(3 * time.Minute),
			AirportsURL:     "https://davidmegginson.github.io/ourairports-data/airports.csv",
			FrequenciesURL:  "https://davidmegginson.github.io/ourairports-data/airport-frequencies.csv",
			MetarURL:        "https://tgftp.nws.noaa.gov/data/observations/metar/stations",
		},
		Directory: DirectoryConfig{
			OverridePath:    "data/airports_add.info",
			RefreshInterval: Duration(Day),
		},
		Resolver: ResolverConfig{
			RadioRange: Distance(180 * 1852), // 180 nm
		},
		Ticker: TickerConfig{
			PollInterval: Duration(3 * time.Second),
		},
		TTS: TTSConfig{
			Engine: "windows-sapi",
			SAPI: SAPIConfig{
				Voice: "Zira",
				Rate:  0,
			},
			WorkDir: "tmp",
		},
		Audio: AudioConfig{
			Volume:      1.0,
			RadioEffect: true,
			LowCutoff:   300,
			HighCutoff:  3000,
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/voiceatis.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/voiceatis.db",
		},
		Server: ServerConfig{
			Enabled: true,
			Address: "localhost:1938",
		},
		Sim: SimConfig{
			Provider: "mock",
			Mock: MockSimConfig{
				Lat:      48.687,
				Lon:      9.205,
				COM1:     MockRadioConfig{Frequency: "126.125"},
				COM2:     MockRadioConfig{Frequency: "121.900"},
				OnGround: true,
			},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk, preserving user formatting and comments.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# voiceatis configuration
# ----------------------
# Supported units:
#   Duration: ns, us, ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles)

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
