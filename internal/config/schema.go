package config

import "time"

// RuntimeConfig represents the complete scoring pipeline configuration
type RuntimeConfig struct {
	Scoring  ScoringConfig  `yaml:"scoring"`
	Batch    BatchConfig    `yaml:"batch"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ScoringConfig carries the factor weights and the flat penalty sizes
type ScoringConfig struct {
	Weights   WeightsConfig   `yaml:"weights"`
	Penalties PenaltiesConfig `yaml:"penalties"`
}

// WeightsConfig distributes the 100 available points across the ten factors
type WeightsConfig struct {
	IssueResolution     float64 `yaml:"issue_resolution"`
	EscalationAvoidance float64 `yaml:"escalation_avoidance"`
	UserExperience      float64 `yaml:"user_experience"`
	ChatCompletion      float64 `yaml:"chat_completion"`
	ResponseQuality     float64 `yaml:"response_quality"`
	Accuracy            float64 `yaml:"accuracy"`
	ResponseComponents  float64 `yaml:"response_components"`
	UserSentiment       float64 `yaml:"user_sentiment"`
	UserEffort          float64 `yaml:"user_effort"`
	BotTone             float64 `yaml:"bot_tone"`
}

// PenaltiesConfig holds the point deductions applied after the weighted sum
type PenaltiesConfig struct {
	UnnecessaryEscalation float64 `yaml:"unnecessary_escalation"`
	AverageLatency        float64 `yaml:"average_latency"`
	BadLatency            float64 `yaml:"bad_latency"`
}

// BatchConfig selects how much of a retrieved batch is scored and how the
// analysis calls are paced
type BatchConfig struct {
	Mode          string `yaml:"mode"`
	SampleSize    int    `yaml:"sample_size"`
	PacingDelayMs int    `yaml:"pacing_delay_ms"`
}

// AnalysisConfig bounds one external analysis call
type AnalysisConfig struct {
	TimeoutMs int  `yaml:"timeout_ms"`
	Retry     bool `yaml:"retry"`
}

func (c BatchConfig) PacingDelay() time.Duration {
	return time.Duration(c.PacingDelayMs) * time.Millisecond
}

func (c AnalysisConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (w WeightsConfig) sum() float64 {
	return w.IssueResolution + w.EscalationAvoidance + w.UserExperience +
		w.ChatCompletion + w.ResponseQuality + w.Accuracy +
		w.ResponseComponents + w.UserSentiment + w.UserEffort + w.BotTone
}
