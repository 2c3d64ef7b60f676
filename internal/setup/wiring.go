package setup

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/aggregator"
	"github.com/upandey0/eval-sys/internal/analysis"
	"github.com/upandey0/eval-sys/internal/analysis/llmdirect"
	"github.com/upandey0/eval-sys/internal/analysis/workflow"
	"github.com/upandey0/eval-sys/internal/config"
	"github.com/upandey0/eval-sys/internal/database"
	"github.com/upandey0/eval-sys/internal/llm"
	"github.com/upandey0/eval-sys/internal/llm/bedrock"
	"github.com/upandey0/eval-sys/internal/llm/gpt"
	"github.com/upandey0/eval-sys/internal/normalizer"
	"github.com/upandey0/eval-sys/internal/pipeline"
	"github.com/upandey0/eval-sys/internal/scorer"
)

type Config struct {
	AnalysisProvider string
	WorkflowURL      string
	WorkflowID       string
	WorkflowAPIKey   string
	AWSRegion        string
	ClaudeModelID    string
	OpenAIKey        string
	OpenAIModelID    string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
}

type Dependencies struct {
	Store      *database.DB
	Normalizer *normalizer.Normalizer
	Scorer     *scorer.Scorer
	Runner     *pipeline.Runner
	Runtime    *config.RuntimeConfig
	Logger     *zerolog.Logger
}

// Close releases the session store pool.
func (d *Dependencies) Close() {
	if d.Store != nil {
		d.Store.Close()
	}
}

func LoadConfig() *Config {
	return &Config{
		AnalysisProvider: getEnv("ANALYSIS_PROVIDER", "workflow"),
		WorkflowURL:      getEnv("WORKFLOW_URL", ""),
		WorkflowID:       getEnv("WORKFLOW_ID", ""),
		WorkflowAPIKey:   getEnv("WORKFLOW_API_KEY", ""),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:    getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:        getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:    getEnv("OPEN_AI_MODEL_ID", ""),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", ""),
		DBName:           getEnv("DB_NAME", "sessions"),
		DBSSLMode:        getEnv("DB_SSL_MODE", "disable"),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	runtime, err := config.LoadRuntimeConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load runtime config: %w", err)
	}

	db, err := database.New(ctx, database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session store: %w", err)
	}

	analysisClient, err := createAnalysisClient(ctx, cfg, runtime, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}

	norm := normalizer.NewNormalizer()
	sc := scorer.NewScorer(scorerWeights(runtime.Scoring.Weights), scorerPenalties(runtime.Scoring.Penalties), logger)
	agg := aggregator.NewAggregator(logger)
	pacer := pipeline.NewFixedDelayPacer(runtime.Batch.PacingDelay())

	runner := pipeline.NewRunner(db, analysisClient, norm, sc, agg, pacer, pipeline.Config{
		Mode:       pipeline.Mode(runtime.Batch.Mode),
		SampleSize: runtime.Batch.SampleSize,
	}, logger)

	return &Dependencies{
		Store:      db,
		Normalizer: norm,
		Scorer:     sc,
		Runner:     runner,
		Runtime:    runtime,
		Logger:     logger,
	}, nil
}

func createAnalysisClient(ctx context.Context, cfg *Config, runtime *config.RuntimeConfig, logger *zerolog.Logger) (analysis.Client, error) {
	switch cfg.AnalysisProvider {
	case "workflow":
		if cfg.WorkflowURL == "" {
			return nil, errors.New("WORKFLOW_URL is required for the workflow provider")
		}
		return workflow.NewClient(workflow.Config{
			URL:        cfg.WorkflowURL,
			WorkflowID: cfg.WorkflowID,
			APIKey:     cfg.WorkflowAPIKey,
			Timeout:    runtime.Analysis.Timeout(),
		}, logger), nil
	case "bedrock", "openai":
		llmClient, err := createLLMClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return llmdirect.NewAnalyzer(llmdirect.Options{Retry: runtime.Analysis.Retry}, llmClient, logger)
	default:
		return nil, fmt.Errorf("unknown analysis provider %q (want workflow, bedrock or openai)", cfg.AnalysisProvider)
	}
}

func createLLMClient(ctx context.Context, cfg *Config) (llm.Client, error) {
	switch cfg.AnalysisProvider {
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	}
}

func scorerWeights(w config.WeightsConfig) scorer.Weights {
	return scorer.Weights{
		IssueResolution:     w.IssueResolution,
		EscalationAvoidance: w.EscalationAvoidance,
		UserExperience:      w.UserExperience,
		ChatCompletion:      w.ChatCompletion,
		ResponseQuality:     w.ResponseQuality,
		Accuracy:            w.Accuracy,
		ResponseComponents:  w.ResponseComponents,
		UserSentiment:       w.UserSentiment,
		UserEffort:          w.UserEffort,
		BotTone:             w.BotTone,
	}
}

func scorerPenalties(p config.PenaltiesConfig) scorer.Penalties {
	return scorer.Penalties{
		UnnecessaryEscalation: p.UnnecessaryEscalation,
		AverageLatency:        p.AverageLatency,
		BadLatency:            p.BadLatency,
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}
