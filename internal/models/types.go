package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for day bounds in report requests.
const DateLayout = "2006-01-02"

// Record is one schemaless JSON object: a stored session document, or an
// analysis payload returned by the analysis service.
type Record map[string]any

// Upstream request surface: two inclusive day bounds. RequestID is set by
// queue producers for traceability and absent on direct API calls.
type ReportRequest struct {
	RequestID string `json:"request_id,omitempty"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
}

// AnalysisRequest is one submission to the analysis service.
type AnalysisRequest struct {
	SessionID string `json:"session_id"`
	Session   Record `json:"session,omitempty"`
}

// DateRange is the resolved UTC retrieval window, inclusive on both ends.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewDateRange resolves two YYYY-MM-DD day bounds into a window running
// from 00:00:00.000 on the first day to 23:59:59.999 on the last, in UTC.
func NewDateRange(fromDate, toDate string) (DateRange, error) {
	from, err := time.ParseInLocation(DateLayout, fromDate, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("from_date %q: %w", fromDate, err)
	}
	to, err := time.ParseInLocation(DateLayout, toDate, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("to_date %q: %w", toDate, err)
	}
	return DateRange{
		From: from,
		To:   to.AddDate(0, 0, 1).Add(-time.Millisecond),
	}, nil
}

// ScoreBreakdown maps each scoring factor to its weighted point
// contribution. Penalty entries are negative.
type ScoreBreakdown struct {
	Factors    map[string]float64 `json:"factors"`
	TotalScore float64            `json:"total_score"`
}

// SessionResult is the outcome for one session in a batch run. Analysis and
// Score are set on success, Error on failure.
type SessionResult struct {
	SessionID string          `json:"session_id"`
	Analysis  Record          `json:"analysis,omitempty"`
	Score     *ScoreBreakdown `json:"score,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func (r SessionResult) Failed() bool {
	return r.Error != ""
}

// AggregateStats summarizes one finished batch. Distribution values are
// integer percentages of the aggregated session count.
type AggregateStats struct {
	ChatCompletion     map[string]int `json:"chat_completion"`
	UserSentiment      map[string]int `json:"user_sentiment"`
	BotTone            map[string]int `json:"bot_tone"`
	RemoteAssistance   map[string]int `json:"remote_assistance"`
	AccuracyLevel      map[string]int `json:"accuracy_level"`
	IssueResolution    map[string]int `json:"issue_resolution"`
	HumanEscalation    map[string]int `json:"human_escalation"`
	AvgExperienceLevel float64        `json:"avg_experience_level"`
	AvgEffortLevel     float64        `json:"avg_effort_level"`
}

// BatchReport is the final output of one pipeline run.
type BatchReport struct {
	TotalSessions int             `json:"total_sessions"`
	Processed     int             `json:"processed"`
	Failed        int             `json:"failed"`
	Results       []SessionResult `json:"results"`
	Aggregate     AggregateStats  `json:"aggregate"`
	AverageScore  float64         `json:"average_score"`
	ElapsedMs     int64           `json:"elapsed_ms"`
}
