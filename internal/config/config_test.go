package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
pipeline:
  min_samples_per_ticker: 500
  cadence: 1m

features:
  sma_windows: [10, 50]
  bollinger:
    enabled: true
    window: 30
    strict: true
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Pipeline.MinSamplesPerTicker != 500 {
		t.Errorf("expected min_samples_per_ticker 500, got %d", cfg.Pipeline.MinSamplesPerTicker)
	}
	if cfg.Pipeline.Cadence != time.Minute {
		t.Errorf("expected cadence 1m, got %s", cfg.Pipeline.Cadence)
	}
	if len(cfg.Features.SMAWindows) != 2 || cfg.Features.SMAWindows[1] != 50 {
		t.Errorf("unexpected sma_windows: %v", cfg.Features.SMAWindows)
	}
	if !cfg.Features.Bollinger.Strict {
		t.Error("expected strict bollinger windows")
	}
	if cfg.Features.Bollinger.Window != 30 {
		t.Errorf("expected bollinger window 30, got %d", cfg.Features.Bollinger.Window)
	}

	// Untouched sections keep their defaults.
	if cfg.Features.RSI.Window != 14 {
		t.Errorf("expected default rsi window 14, got %d", cfg.Features.RSI.Window)
	}
	if cfg.Features.MACD.ShortSpan != 12 {
		t.Errorf("expected default macd short span 12, got %d", cfg.Features.MACD.ShortSpan)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Pipeline.MinSamplesPerTicker != 1000 {
		t.Errorf("expected default min_samples_per_ticker 1000, got %d", cfg.Pipeline.MinSamplesPerTicker)
	}
	if cfg.Pipeline.Cadence != 5*time.Minute {
		t.Errorf("expected default cadence 5m, got %s", cfg.Pipeline.Cadence)
	}
	if cfg.Features.Bollinger.K != 2.0 {
		t.Errorf("expected default bollinger k 2.0, got %f", cfg.Features.Bollinger.K)
	}
	if cfg.Features.Bollinger.Strict {
		t.Error("bollinger strictness should default to partial windows")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return Defaults() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "negative min samples",
			mutate:  func(c *Config) { c.Pipeline.MinSamplesPerTicker = -1 },
			wantErr: true,
		},
		{
			name:    "zero cadence",
			mutate:  func(c *Config) { c.Pipeline.Cadence = 0 },
			wantErr: true,
		},
		{
			name:    "bad sma window",
			mutate:  func(c *Config) { c.Features.SMAWindows = []int{20, 0} },
			wantErr: true,
		},
		{
			name:    "macd short span not below long",
			mutate:  func(c *Config) { c.Features.MACD.ShortSpan = 26 },
			wantErr: true,
		},
		{
			name:    "macd disabled skips span check",
			mutate:  func(c *Config) { c.Features.MACD = MACDConfig{Enabled: false} },
			wantErr: false,
		},
		{
			name:    "negative bollinger k",
			mutate:  func(c *Config) { c.Features.Bollinger.K = -1 },
			wantErr: true,
		},
		{
			name:    "bad rsi window",
			mutate:  func(c *Config) { c.Features.RSI.Window = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
