package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quantware/finfeat/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Features FeaturesConfig `mapstructure:"features"`
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// PipelineConfig holds ingestion and contiguity settings.
type PipelineConfig struct {
	MinSamplesPerTicker int           `mapstructure:"min_samples_per_ticker"`
	Cadence             time.Duration `mapstructure:"cadence"`
}

// FeaturesConfig selects which indicator columns the run produces.
type FeaturesConfig struct {
	SMAWindows []int           `mapstructure:"sma_windows"`
	EMAWindows []int           `mapstructure:"ema_windows"`
	MACD       MACDConfig      `mapstructure:"macd"`
	Bollinger  BollingerConfig `mapstructure:"bollinger"`
	RSI        RSIConfig       `mapstructure:"rsi"`
}

type MACDConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	ShortSpan  int  `mapstructure:"short_span"`
	LongSpan   int  `mapstructure:"long_span"`
	SignalSpan int  `mapstructure:"signal_span"`
}

type BollingerConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Window  int     `mapstructure:"window"`
	K       float64 `mapstructure:"k"`
	Strict  bool    `mapstructure:"strict"`
}

type RSIConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Window  int  `mapstructure:"window"`
}

type InputConfig struct {
	Path string `mapstructure:"path"`
}

type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			MinSamplesPerTicker: 1000,
			Cadence:             5 * time.Minute,
		},
		Features: FeaturesConfig{
			SMAWindows: []int{20},
			MACD: MACDConfig{
				Enabled:    true,
				ShortSpan:  12,
				LongSpan:   26,
				SignalSpan: 9,
			},
			Bollinger: BollingerConfig{
				Enabled: true,
				Window:  20,
				K:       2.0,
				Strict:  false,
			},
			RSI: RSIConfig{
				Enabled: true,
				Window:  14,
			},
		},
		Input: InputConfig{
			Path: "data/5-min-all.csv",
		},
		Output: OutputConfig{
			Path: "features.csv",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Pipeline.MinSamplesPerTicker < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_samples_per_ticker cannot be negative, got %d", c.Pipeline.MinSamplesPerTicker))
	}
	if c.Pipeline.Cadence <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cadence must be positive, got %s", c.Pipeline.Cadence))
	}

	for _, w := range c.Features.SMAWindows {
		if w < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("sma window must be positive, got %d", w))
		}
	}
	for _, w := range c.Features.EMAWindows {
		if w < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("ema window must be positive, got %d", w))
		}
	}

	if c.Features.MACD.Enabled {
		m := c.Features.MACD
		if m.ShortSpan < 1 || m.LongSpan < 1 || m.SignalSpan < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("macd spans must be positive, got %d/%d/%d", m.ShortSpan, m.LongSpan, m.SignalSpan))
		}
		if m.ShortSpan >= m.LongSpan {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("macd short span must be below long span, got %d/%d", m.ShortSpan, m.LongSpan))
		}
	}

	if c.Features.Bollinger.Enabled {
		b := c.Features.Bollinger
		if b.Window < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("bollinger window must be positive, got %d", b.Window))
		}
		if b.K < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("bollinger k cannot be negative, got %f", b.K))
		}
	}

	if c.Features.RSI.Enabled && c.Features.RSI.Window < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("rsi window must be positive, got %d", c.Features.RSI.Window))
	}

	return nil
}
