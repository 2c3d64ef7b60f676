package report

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/models"
)

// Writer renders one finished batch report to its output.
type Writer interface {
	Write(report models.BatchReport) error
}

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatSummary = "summary"
	FormatXLSX    = "xlsx"
)

func NewWriter(out io.Writer, format string, logger *zerolog.Logger) (Writer, error) {
	switch format {
	case FormatJSON:
		return &jsonWriter{out: out}, nil
	case FormatSummary:
		return &summaryWriter{out: out}, nil
	case FormatXLSX:
		return &xlsxWriter{out: out, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want json, summary or xlsx)", format)
	}
}

// distributions lists the aggregate maps in a fixed order so every format
// renders them the same way.
func distributions(agg models.AggregateStats) []struct {
	Name string
	Dist map[string]int
} {
	return []struct {
		Name string
		Dist map[string]int
	}{
		{"chat_completion", agg.ChatCompletion},
		{"user_sentiment", agg.UserSentiment},
		{"bot_tone", agg.BotTone},
		{"remote_assistance", agg.RemoteAssistance},
		{"accuracy_level", agg.AccuracyLevel},
		{"issue_resolution", agg.IssueResolution},
		{"human_escalation", agg.HumanEscalation},
	}
}
