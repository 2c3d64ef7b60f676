package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/models"
)

// SessionStore retrieves stored session records for a date window.
type SessionStore interface {
	FindByDateRange(ctx context.Context, rng models.DateRange) ([]models.Record, error)
}

// Analyzer submits one session to the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (models.Record, error)
}

// Normalizer canonicalizes enum fields of an analysis payload.
type Normalizer interface {
	Normalize(rec models.Record) models.Record
}

// Scorer turns one normalized analysis into a score breakdown.
type Scorer interface {
	Score(rec models.Record) models.ScoreBreakdown
}

// Aggregator reduces a finished batch into summary statistics.
type Aggregator interface {
	Aggregate(results []models.SessionResult) models.AggregateStats
}

// Pacer spaces consecutive analysis calls.
type Pacer interface {
	Pause(ctx context.Context)
}

// ErrInvalidDate marks a malformed date bound, rejected before any
// retrieval happens.
var ErrInvalidDate = errors.New("invalid date")

// Mode selects how much of the retrieved batch is scored.
type Mode string

const (
	// ModeFull scores every retrieved session.
	ModeFull Mode = "full"
	// ModeSample scores a uniform-random subset, keeping retrieval order.
	ModeSample Mode = "sample"
)

type Config struct {
	Mode       Mode
	SampleSize int
}

type Runner struct {
	store      SessionStore
	analyzer   Analyzer
	normalizer Normalizer
	scorer     Scorer
	aggregator Aggregator
	pacer      Pacer
	cfg        Config
	logger     *zerolog.Logger
}

func NewRunner(
	store SessionStore,
	analyzer Analyzer,
	normalizer Normalizer,
	scorer Scorer,
	aggregator Aggregator,
	pacer Pacer,
	cfg Config,
	logger *zerolog.Logger,
) *Runner {
	return &Runner{
		store:      store,
		analyzer:   analyzer,
		normalizer: normalizer,
		scorer:     scorer,
		aggregator: aggregator,
		pacer:      pacer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run executes one batch: fetch sessions in the day window, analyze and
// score them one at a time with pacing in between, then aggregate. A failed
// session is recorded and skipped; only date validation and retrieval
// failures abort the run.
func (r *Runner) Run(ctx context.Context, fromDate, toDate string) (models.BatchReport, error) {
	logger := r.logger.With().Str("run_id", uuid.NewString()).Logger()
	start := time.Now()

	window, err := models.NewDateRange(fromDate, toDate)
	if err != nil {
		return models.BatchReport{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	logger.Info().
		Time("from", window.From).
		Time("to", window.To).
		Msg("fetching sessions")

	sessions, err := r.store.FindByDateRange(ctx, window)
	if err != nil {
		return models.BatchReport{}, fmt.Errorf("fetch sessions: %w", err)
	}
	if len(sessions) == 0 {
		logger.Info().Msg("no sessions in range")
		return r.finalize(nil, start), nil
	}

	if r.cfg.Mode == ModeSample && r.cfg.SampleSize > 0 && len(sessions) > r.cfg.SampleSize {
		sessions = sampleSessions(sessions, r.cfg.SampleSize)
		logger.Info().Int("sampled", len(sessions)).Msg("batch sampled")
	}

	results := make([]models.SessionResult, 0, len(sessions))
	for i, session := range sessions {
		if i > 0 {
			r.pacer.Pause(ctx)
		}
		results = append(results, r.processSession(ctx, &logger, session))
	}

	report := r.finalize(results, start)
	logger.Info().
		Int("total", report.TotalSessions).
		Int("processed", report.Processed).
		Int("failed", report.Failed).
		Float64("average_score", report.AverageScore).
		Int64("elapsed_ms", report.ElapsedMs).
		Msg("batch complete")
	return report, nil
}

func (r *Runner) processSession(ctx context.Context, logger *zerolog.Logger, session models.Record) models.SessionResult {
	id, ok := sessionID(session)
	if !ok {
		logger.Warn().Msg("session record has no identifier")
		return models.SessionResult{Error: "session record has no identifier"}
	}

	raw, err := r.analyzer.Analyze(ctx, models.AnalysisRequest{SessionID: id, Session: session})
	if err != nil {
		logger.Warn().Err(err).Str("session_id", id).Msg("analysis call failed")
		return models.SessionResult{SessionID: id, Error: err.Error()}
	}

	normalized := r.normalizer.Normalize(raw)
	breakdown := r.scorer.Score(normalized)
	logger.Debug().
		Str("session_id", id).
		Float64("total_score", breakdown.TotalScore).
		Msg("session scored")
	return models.SessionResult{
		SessionID: id,
		Analysis:  normalized,
		Score:     &breakdown,
	}
}

func (r *Runner) finalize(results []models.SessionResult, start time.Time) models.BatchReport {
	if results == nil {
		results = []models.SessionResult{}
	}

	processed, failed := 0, 0
	scoreSum := 0.0
	for _, res := range results {
		if res.Failed() {
			failed++
			continue
		}
		processed++
		if res.Score != nil {
			scoreSum += res.Score.TotalScore
		}
	}

	average := 0.0
	if processed > 0 {
		average = math.Round(scoreSum/float64(processed)*100) / 100
	}

	return models.BatchReport{
		TotalSessions: len(results),
		Processed:     processed,
		Failed:        failed,
		Results:       results,
		Aggregate:     r.aggregator.Aggregate(results),
		AverageScore:  average,
		ElapsedMs:     time.Since(start).Milliseconds(),
	}
}

// sessionID resolves the identifier across the accepted alias fields.
// Numeric identifiers from the store are rendered in decimal.
func sessionID(session models.Record) (string, bool) {
	for _, field := range models.SessionIDFields {
		if v, ok := session.String(field); ok && v != "" {
			return v, true
		}
		if n, ok := session.Number(field); ok {
			return strconv.FormatFloat(n, 'f', -1, 64), true
		}
	}
	return "", false
}
