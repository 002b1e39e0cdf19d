package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
)

const (
	DefaultOutput          = "captcha.png"
	DefaultGeolocationURL  = "http://ip-api.com/json/"
	DefaultStoreLocatorURL = "https://www.mcdonalds.com/googleappsv2/geolocation?latitude={{latitude}}&longitude={{longitude}}&radius={{radius}}&maxResults={{maxResults}}&country={{country}}&language={{language}}"
)

var (
	homePath       string
	configHomePath string
	stateHomePath  string
)

type Config struct {
	// path of the generated image; the extension selects the format
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
	// number of retries for each outbound request
	Retries *int     `yaml:"retries,omitempty" json:"retries,omitempty"`
	Locator *Locator `yaml:"locator,omitempty" json:"locator,omitempty"`
	Captcha *Captcha `yaml:"captcha,omitempty" json:"captcha,omitempty"`
}

type Locator struct {
	GeolocationURL string `yaml:"geolocationURL,omitempty" json:"geolocationURL,omitempty"`
	// URL template with {{CEL expression}} holes
	StoreLocatorURL string `yaml:"storeLocatorURL,omitempty" json:"storeLocatorURL,omitempty"`
	// search radius passed to the store locator
	Radius int `yaml:"radius,omitempty" json:"radius,omitempty"`
	// number of stores requested
	MaxResults int    `yaml:"maxResults,omitempty" json:"maxResults,omitempty"`
	Country    string `yaml:"country,omitempty" json:"country,omitempty"`
	Language   string `yaml:"language,omitempty" json:"language,omitempty"`
}

type Captcha struct {
	Width  int `yaml:"width,omitempty" json:"width,omitempty"`
	Height int `yaml:"height,omitempty" json:"height,omitempty"`
	// number of tinted stamps
	Stamps *int `yaml:"stamps,omitempty" json:"stamps,omitempty"`
	// empty means the embedded stamp
	StampPath string  `yaml:"stampPath,omitempty" json:"stampPath,omitempty"`
	FontSize  float64 `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`
	// baseline origin of the text
	TextX float64 `yaml:"textX,omitempty" json:"textX,omitempty"`
	TextY float64 `yaml:"textY,omitempty" json:"textY,omitempty"`
	// in degrees
	MaxRotation *int `yaml:"maxRotation,omitempty" json:"maxRotation,omitempty"`
	// number of clutter lines
	Lines *int `yaml:"lines,omitempty" json:"lines,omitempty"`
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Default returns the configuration used when no config file is found.
func Default() *Config {
	return &Config{
		Output:  DefaultOutput,
		Retries: intPtr(0),
		Locator: &Locator{
			GeolocationURL:  DefaultGeolocationURL,
			StoreLocatorURL: DefaultStoreLocatorURL,
			Radius:          20,
			MaxResults:      1,
			Country:         "us",
			Language:        "en-us",
		},
		Captcha: &Captcha{
			Width:       800,
			Height:      800,
			Stamps:      intPtr(16),
			FontSize:    44,
			TextX:       350,
			TextY:       350,
			MaxRotation: intPtr(20),
			Lines:       intPtr(400),
		},
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/nearcaptcha/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/nearcaptcha/config.yml
// Environment variables in the file are expanded before decoding.
// Keys missing from the file keep their default values.
func Load(profile string) (*Config, error) {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			configPath := basePath + ext
			if b, err := os.ReadFile(configPath); err == nil {
				cfg := &Config{}
				if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
					return nil, fmt.Errorf("failed to unmarshal config %s: %w", configPath, err)
				}
				cfg.fill(Default())
				return cfg, nil
			}
		}
	}
	return Default(), nil
}

// fill sets every zero field of cfg from d.
func (cfg *Config) fill(d *Config) {
	if cfg.Output == "" {
		cfg.Output = d.Output
	}
	if cfg.Retries == nil {
		cfg.Retries = d.Retries
	}
	if cfg.Locator == nil {
		cfg.Locator = d.Locator
	} else {
		l, dl := cfg.Locator, d.Locator
		if l.GeolocationURL == "" {
			l.GeolocationURL = dl.GeolocationURL
		}
		if l.StoreLocatorURL == "" {
			l.StoreLocatorURL = dl.StoreLocatorURL
		}
		if l.Radius == 0 {
			l.Radius = dl.Radius
		}
		if l.MaxResults == 0 {
			l.MaxResults = dl.MaxResults
		}
		if l.Country == "" {
			l.Country = dl.Country
		}
		if l.Language == "" {
			l.Language = dl.Language
		}
	}
	if cfg.Captcha == nil {
		cfg.Captcha = d.Captcha
	} else {
		c, dc := cfg.Captcha, d.Captcha
		if c.Width == 0 {
			c.Width = dc.Width
		}
		if c.Height == 0 {
			c.Height = dc.Height
		}
		if c.Stamps == nil {
			c.Stamps = dc.Stamps
		}
		if c.FontSize == 0 {
			c.FontSize = dc.FontSize
		}
		if c.TextX == 0 {
			c.TextX = dc.TextX
		}
		if c.TextY == 0 {
			c.TextY = dc.TextY
		}
		if c.MaxRotation == nil {
			c.MaxRotation = dc.MaxRotation
		}
		if c.Lines == nil {
			c.Lines = dc.Lines
		}
	}
}

// Validate reports the first setting that cannot produce an image.
func (cfg *Config) Validate() error {
	if cfg.Locator == nil || cfg.Captcha == nil || cfg.Retries == nil {
		return fmt.Errorf("incomplete config: use Default or Load")
	}
	if cfg.Captcha.Stamps == nil || cfg.Captcha.Lines == nil || cfg.Captcha.MaxRotation == nil {
		return fmt.Errorf("incomplete captcha config: use Default or Load")
	}
	if cfg.Captcha.Width <= 0 || cfg.Captcha.Height <= 0 {
		return fmt.Errorf("invalid captcha size: %dx%d", cfg.Captcha.Width, cfg.Captcha.Height)
	}
	if *cfg.Captcha.Stamps < 0 || *cfg.Captcha.Lines < 0 || *cfg.Captcha.MaxRotation < 0 {
		return fmt.Errorf("stamps, lines and maxRotation must not be negative")
	}
	if cfg.Captcha.FontSize < 0 {
		return fmt.Errorf("invalid captcha fontSize: %v", cfg.Captcha.FontSize)
	}
	if *cfg.Retries < 0 {
		return fmt.Errorf("invalid retries: %d", *cfg.Retries)
	}
	return nil
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, "nearcaptcha")
	} else {
		configHomePath = filepath.Join(homePath, ".config", "nearcaptcha")
	}
	return configHomePath
}

// StateHomePath returns the path to the state home directory, where logs and error dumps are written.
func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, "nearcaptcha")
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", "nearcaptcha")
	}
	return stateHomePath
}

func intPtr(i int) *int {
	return &i
}
