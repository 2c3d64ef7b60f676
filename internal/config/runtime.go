package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"go.yaml.in/yaml/v3"
)

func LoadRuntimeConfig() (*RuntimeConfig, error) {

	path := os.Getenv("SCORING_CONFIG_PATH")
	if path == "" {
		path = "configs/scoring.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg RuntimeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills omitted sections with the stock values. A weights
// block that is entirely absent gets the standard distribution; partial
// blocks are left alone so Validate can reject them.
func applyDefaults(cfg *RuntimeConfig) {
	if cfg.Scoring.Weights == (WeightsConfig{}) {
		cfg.Scoring.Weights = WeightsConfig{
			IssueResolution:     25,
			EscalationAvoidance: 20,
			UserExperience:      15,
			ChatCompletion:      10,
			ResponseQuality:     8,
			Accuracy:            7,
			ResponseComponents:  5,
			UserSentiment:       5,
			UserEffort:          3,
			BotTone:             2,
		}
	}
	if cfg.Scoring.Penalties == (PenaltiesConfig{}) {
		cfg.Scoring.Penalties = PenaltiesConfig{
			UnnecessaryEscalation: 10,
			AverageLatency:        2,
			BadLatency:            5,
		}
	}
	if cfg.Batch.Mode == "" {
		cfg.Batch.Mode = "full"
	}
	if cfg.Batch.SampleSize == 0 {
		cfg.Batch.SampleSize = 4
	}
	if cfg.Batch.PacingDelayMs == 0 {
		cfg.Batch.PacingDelayMs = 1000
	}
	if cfg.Analysis.TimeoutMs == 0 {
		cfg.Analysis.TimeoutMs = 30000
	}
}

func (c *RuntimeConfig) Validate() error {
	if sum := c.Scoring.Weights.sum(); math.Abs(sum-100) > 1e-9 {
		return fmt.Errorf("factor weights must sum to 100, got %v", sum)
	}
	if c.Scoring.Penalties.UnnecessaryEscalation < 0 ||
		c.Scoring.Penalties.AverageLatency < 0 ||
		c.Scoring.Penalties.BadLatency < 0 {
		return errors.New("penalties must not be negative")
	}

	switch c.Batch.Mode {
	case "full", "sample":
	default:
		return fmt.Errorf("unknown batch mode %q (want full or sample)", c.Batch.Mode)
	}
	if c.Batch.Mode == "sample" && c.Batch.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be positive, got %d", c.Batch.SampleSize)
	}
	if c.Batch.PacingDelayMs < 0 {
		return fmt.Errorf("pacing_delay_ms must not be negative, got %d", c.Batch.PacingDelayMs)
	}
	if c.Analysis.TimeoutMs <= 0 {
		return fmt.Errorf("analysis timeout_ms must be positive, got %d", c.Analysis.TimeoutMs)
	}

	return nil
}
