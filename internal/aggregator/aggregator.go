package aggregator

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/models"
)

type Aggregator struct {
	logger *zerolog.Logger
}

func NewAggregator(logger *zerolog.Logger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// Aggregate reduces a finished batch into per-field percentage distributions
// and numeric averages. Failed results are skipped; the percentage
// denominator is always the number of aggregated sessions, so a field absent
// from some sessions sums below 100. Zero input yields zeroed stats, never
// an error.
func (a *Aggregator) Aggregate(results []models.SessionResult) models.AggregateStats {
	stats := models.AggregateStats{
		ChatCompletion:   boolDist(),
		UserSentiment:    map[string]int{},
		BotTone:          map[string]int{},
		RemoteAssistance: boolDist(),
		AccuracyLevel:    map[string]int{},
		IssueResolution:  map[string]int{},
		HumanEscalation:  boolDist(),
	}

	total := 0
	expSum, expCount := 0.0, 0
	effSum, effCount := 0.0, 0

	for _, res := range results {
		if res.Failed() || res.Analysis == nil {
			continue
		}
		total++
		rec := res.Analysis

		countValue(stats.ChatCompletion, rec, models.FieldChatCompleted)
		countValue(stats.UserSentiment, rec, models.GroupSentiment, models.FieldSentiment)
		countValue(stats.BotTone, rec, models.GroupTone, models.FieldTone)
		countRemoteAssistance(stats.RemoteAssistance, rec)
		countValue(stats.AccuracyLevel, rec, models.FieldAccuracy)
		countValue(stats.IssueResolution, rec, models.GroupIssueStatus, models.FieldStatus)
		countValue(stats.HumanEscalation, rec, models.GroupEscalation, models.FieldEscalated)

		if v, ok := rec.Number(models.FieldExperience); ok {
			expSum += v
			expCount++
		}
		if v, ok := rec.Number(models.FieldEffort); ok {
			effSum += v
			effCount++
		}
	}

	if total > 0 {
		for _, dist := range []map[string]int{
			stats.ChatCompletion,
			stats.UserSentiment,
			stats.BotTone,
			stats.RemoteAssistance,
			stats.AccuracyLevel,
			stats.IssueResolution,
			stats.HumanEscalation,
		} {
			toPercentages(dist, total)
		}
	}
	if expCount > 0 {
		stats.AvgExperienceLevel = round2(expSum / float64(expCount))
	}
	if effCount > 0 {
		stats.AvgEffortLevel = round2(effSum / float64(effCount))
	}

	a.logger.
		Info().
		Int("sessions", total).
		Int("skipped", len(results)-total).
		Msg("aggregation complete")
	return stats
}

func countValue(dist map[string]int, rec models.Record, path ...string) {
	v, ok := rec.String(path...)
	if !ok || v == "" {
		return
	}
	dist[v]++
}

// The remote assistance flag is outside the normalize set and some producers
// emit it as a native boolean, so it is canonicalized here.
func countRemoteAssistance(dist map[string]int, rec models.Record) {
	if v, ok := rec.String(models.GroupConvQuality, models.FieldRemoteAssist); ok {
		if v = strings.ToLower(v); v != "" {
			dist[v]++
		}
		return
	}
	if b, ok := rec.Bool(models.GroupConvQuality, models.FieldRemoteAssist); ok {
		if b {
			dist["yes"]++
		} else {
			dist["no"]++
		}
	}
}

func toPercentages(dist map[string]int, total int) {
	for k, count := range dist {
		dist[k] = int(math.Round(float64(count) / float64(total) * 100))
	}
}

// Yes/no fields always report both outcomes, even at zero.
func boolDist() map[string]int {
	return map[string]int{"yes": 0, "no": 0}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
