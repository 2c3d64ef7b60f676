package aggregator

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/models"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func okResult(id string, analysis models.Record) models.SessionResult {
	return models.SessionResult{
		SessionID: id,
		Analysis:  analysis,
		Score:     &models.ScoreBreakdown{},
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	agg := NewAggregator(newTestLogger())

	got := agg.Aggregate(nil)

	if len(got.UserSentiment) != 0 {
		t.Errorf("UserSentiment: %v, want empty", got.UserSentiment)
	}
	if got.ChatCompletion["yes"] != 0 || got.ChatCompletion["no"] != 0 {
		t.Errorf("ChatCompletion: %v, want both outcomes at 0", got.ChatCompletion)
	}
	if got.HumanEscalation["yes"] != 0 || got.HumanEscalation["no"] != 0 {
		t.Errorf("HumanEscalation: %v, want both outcomes at 0", got.HumanEscalation)
	}
	if got.AvgExperienceLevel != 0 || got.AvgEffortLevel != 0 {
		t.Errorf("averages: %v / %v, want 0 / 0", got.AvgExperienceLevel, got.AvgEffortLevel)
	}
}

func TestAggregate_Distributions(t *testing.T) {
	agg := NewAggregator(newTestLogger())

	results := []models.SessionResult{
		okResult("s1", models.Record{
			"is_chat_completed": "yes",
			"user_sentiment":    map[string]any{"sentiment": "positive"},
			"issue_status":      map[string]any{"status": "resolved"},
			"human_escalation":  map[string]any{"is_escalated": "no"},
		}),
		okResult("s2", models.Record{
			"is_chat_completed": "yes",
			"user_sentiment":    map[string]any{"sentiment": "negative"},
			"issue_status":      map[string]any{"status": "unresolved"},
			"human_escalation":  map[string]any{"is_escalated": "yes"},
		}),
		okResult("s3", models.Record{
			"is_chat_completed": "no",
			"user_sentiment":    map[string]any{"sentiment": "positive"},
			"issue_status":      map[string]any{"status": "resolved"},
			"human_escalation":  map[string]any{"is_escalated": "no"},
		}),
	}

	got := agg.Aggregate(results)

	if got.ChatCompletion["yes"] != 67 || got.ChatCompletion["no"] != 33 {
		t.Errorf("ChatCompletion: %v, want yes=67 no=33", got.ChatCompletion)
	}
	if got.UserSentiment["positive"] != 67 || got.UserSentiment["negative"] != 33 {
		t.Errorf("UserSentiment: %v, want positive=67 negative=33", got.UserSentiment)
	}
	if got.IssueResolution["resolved"] != 67 || got.IssueResolution["unresolved"] != 33 {
		t.Errorf("IssueResolution: %v, want resolved=67 unresolved=33", got.IssueResolution)
	}
	if got.HumanEscalation["no"] != 67 || got.HumanEscalation["yes"] != 33 {
		t.Errorf("HumanEscalation: %v, want no=67 yes=33", got.HumanEscalation)
	}
}

func TestAggregate_MissingFieldsKeepFullDenominator(t *testing.T) {
	agg := NewAggregator(newTestLogger())

	// Only 1 of 4 sessions carries a sentiment.
	results := []models.SessionResult{
		okResult("s1", models.Record{"user_sentiment": map[string]any{"sentiment": "positive"}}),
		okResult("s2", models.Record{}),
		okResult("s3", models.Record{}),
		okResult("s4", models.Record{}),
	}

	got := agg.Aggregate(results)

	if got.UserSentiment["positive"] != 25 {
		t.Errorf("UserSentiment[positive]: %d, want 25", got.UserSentiment["positive"])
	}

	sum := 0
	for _, pct := range got.UserSentiment {
		sum += pct
	}
	if sum > 100 {
		t.Errorf("sentiment percentages sum to %d, want <= 100", sum)
	}
}

func TestAggregate_ExcludesFailedResults(t *testing.T) {
	agg := NewAggregator(newTestLogger())

	results := []models.SessionResult{
		okResult("s1", models.Record{"is_chat_completed": "yes"}),
		{SessionID: "s2", Error: "analysis call timed out"},
		okResult("s3", models.Record{"is_chat_completed": "yes"}),
	}

	got := agg.Aggregate(results)

	// Two aggregated sessions, both "yes".
	if got.ChatCompletion["yes"] != 100 {
		t.Errorf("ChatCompletion[yes]: %d, want 100", got.ChatCompletion["yes"])
	}
}

func TestAggregate_Averages(t *testing.T) {
	agg := NewAggregator(newTestLogger())

	results := []models.SessionResult{
		okResult("s1", models.Record{"user_experience_level": float64(4), "user_effort_level": float64(2)}),
		okResult("s2", models.Record{"user_experience_level": float64(5)}),
		okResult("s3", models.Record{"user_effort_level": float64(3)}),
	}

	got := agg.Aggregate(results)

	// Experience over two sessions: (4+5)/2. Effort over two: (2+3)/2.
	if got.AvgExperienceLevel != 4.5 {
		t.Errorf("AvgExperienceLevel: %v, want 4.5", got.AvgExperienceLevel)
	}
	if got.AvgEffortLevel != 2.5 {
		t.Errorf("AvgEffortLevel: %v, want 2.5", got.AvgEffortLevel)
	}
}

func TestAggregate_AverageRounding(t *testing.T) {
	agg := NewAggregator(newTestLogger())

	results := []models.SessionResult{
		okResult("s1", models.Record{"user_experience_level": float64(4)}),
		okResult("s2", models.Record{"user_experience_level": float64(4)}),
		okResult("s3", models.Record{"user_experience_level": float64(5)}),
	}

	got := agg.Aggregate(results)

	// 13/3 = 4.333... rounds to two decimals.
	if got.AvgExperienceLevel != 4.33 {
		t.Errorf("AvgExperienceLevel: %v, want 4.33", got.AvgExperienceLevel)
	}
}

func TestAggregate_RemoteAssistanceForms(t *testing.T) {
	agg := NewAggregator(newTestLogger())

	results := []models.SessionResult{
		okResult("s1", models.Record{"conversation_quality": map[string]any{"remote_assistance_required": "Yes"}}),
		okResult("s2", models.Record{"conversation_quality": map[string]any{"remote_assistance_required": true}}),
		okResult("s3", models.Record{"conversation_quality": map[string]any{"remote_assistance_required": "no"}}),
		okResult("s4", models.Record{"conversation_quality": map[string]any{"remote_assistance_required": false}}),
	}

	got := agg.Aggregate(results)

	if got.RemoteAssistance["yes"] != 50 || got.RemoteAssistance["no"] != 50 {
		t.Errorf("RemoteAssistance: %v, want yes=50 no=50", got.RemoteAssistance)
	}
}
