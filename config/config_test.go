package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		profile    string
		files      map[string]string
		env        map[string]string
		wantOutput string
		wantRadius int
		wantStamps int
		wantWidth  int
	}{
		{
			name:       "no config file",
			files:      map[string]string{},
			wantOutput: "captcha.png",
			wantRadius: 20,
			wantStamps: 16,
			wantWidth:  800,
		},
		{
			name: "partial config keeps defaults",
			files: map[string]string{
				"config.yml": `
output: out.jpg
locator:
  radius: 5
`,
			},
			wantOutput: "out.jpg",
			wantRadius: 5,
			wantStamps: 16,
			wantWidth:  800,
		},
		{
			name: "zero stamps is kept",
			files: map[string]string{
				"config.yaml": `
captcha:
  stamps: 0
  width: 400
`,
			},
			wantOutput: "captcha.png",
			wantRadius: 20,
			wantStamps: 0,
			wantWidth:  400,
		},
		{
			name:    "profile takes precedence",
			profile: "work",
			files: map[string]string{
				"config.yml":      "output: default.png\n",
				"config-work.yml": "output: work.png\n",
			},
			wantOutput: "work.png",
			wantRadius: 20,
			wantStamps: 16,
			wantWidth:  800,
		},
		{
			name: "environment variables are expanded",
			files: map[string]string{
				"config.yml": "output: ${NEARCAPTCHA_TEST_OUTPUT}\n",
			},
			env:        map[string]string{"NEARCAPTCHA_TEST_OUTPUT": "from-env.png"},
			wantOutput: "from-env.png",
			wantRadius: 20,
			wantStamps: 16,
			wantWidth:  800,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", tmpDir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			configHomePath = ""
			t.Cleanup(func() { configHomePath = "" })

			dir := filepath.Join(tmpDir, "nearcaptcha")
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatalf("Failed to create config directory: %v", err)
			}
			for name, content := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
					t.Fatalf("Failed to write config file: %v", err)
				}
			}

			cfg, err := Load(tt.profile)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Output != tt.wantOutput {
				t.Errorf("Output = %q, want %q", cfg.Output, tt.wantOutput)
			}
			if cfg.Locator.Radius != tt.wantRadius {
				t.Errorf("Locator.Radius = %d, want %d", cfg.Locator.Radius, tt.wantRadius)
			}
			if *cfg.Captcha.Stamps != tt.wantStamps {
				t.Errorf("Captcha.Stamps = %d, want %d", *cfg.Captcha.Stamps, tt.wantStamps)
			}
			if cfg.Captcha.Width != tt.wantWidth {
				t.Errorf("Captcha.Width = %d, want %d", cfg.Captcha.Width, tt.wantWidth)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	configHomePath = ""
	t.Cleanup(func() { configHomePath = "" })

	dir := filepath.Join(tmpDir, "nearcaptcha")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("captcha: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestDefault(t *testing.T) {
	got := Default()
	want := &Config{
		Output:  "captcha.png",
		Retries: intPtr(0),
		Locator: &Locator{
			GeolocationURL:  "http://ip-api.com/json/",
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
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(cfg *Config) *Config
		wantErr bool
	}{
		{"default", func(cfg *Config) *Config { return cfg }, false},
		{"zero width", func(cfg *Config) *Config { cfg.Captcha.Width = 0; return cfg }, true},
		{"negative lines", func(cfg *Config) *Config { cfg.Captcha.Lines = intPtr(-1); return cfg }, true},
		{"negative fontSize", func(cfg *Config) *Config { cfg.Captcha.FontSize = -44; return cfg }, true},
		{"negative retries", func(cfg *Config) *Config { cfg.Retries = intPtr(-1); return cfg }, true},
		{"empty config", func(cfg *Config) *Config { return &Config{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.modify(Default()).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
