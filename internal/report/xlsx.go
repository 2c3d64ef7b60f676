package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/upandey0/eval-sys/internal/models"
	"github.com/upandey0/eval-sys/internal/scorer"
)

// factorColumns fixes the per-factor column order on the results sheet.
var factorColumns = []string{
	scorer.FactorIssueResolution,
	scorer.FactorEscalationAvoidance,
	scorer.FactorUserExperience,
	scorer.FactorChatCompletion,
	scorer.FactorResponseQuality,
	scorer.FactorAccuracy,
	scorer.FactorResponseComponents,
	scorer.FactorUserSentiment,
	scorer.FactorUserEffort,
	scorer.FactorBotTone,
	scorer.PenaltyEscalation,
	scorer.PenaltyLatency,
}

type xlsxWriter struct {
	out    io.Writer
	logger *zerolog.Logger
}

// Write produces a workbook with a Results sheet (one row per session,
// factor points in columns) and an Aggregate sheet (metric/value pairs).
func (w *xlsxWriter) Write(report models.BatchReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Results"); err != nil {
		return fmt.Errorf("name results sheet: %w", err)
	}
	if err := w.writeResults(f, report); err != nil {
		return err
	}

	if _, err := f.NewSheet("Aggregate"); err != nil {
		return fmt.Errorf("create aggregate sheet: %w", err)
	}
	if err := w.writeAggregate(f, report); err != nil {
		return err
	}

	if err := f.Write(w.out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	w.logger.Debug().Int("sessions", report.TotalSessions).Msg("xlsx report written")
	return nil
}

func (w *xlsxWriter) writeResults(f *excelize.File, report models.BatchReport) error {
	header := []any{"Session ID", "Status", "Total Score"}
	for _, name := range factorColumns {
		header = append(header, name)
	}
	header = append(header, "Failure Reason")
	if err := setRow(f, "Results", 1, header); err != nil {
		return err
	}

	for i, res := range report.Results {
		row := make([]any, 0, len(header))
		if res.Failed() {
			row = append(row, res.SessionID, "failed", nil)
			for range factorColumns {
				row = append(row, nil)
			}
			row = append(row, res.Error)
		} else {
			row = append(row, res.SessionID, "scored", res.Score.TotalScore)
			for _, name := range factorColumns {
				row = append(row, res.Score.Factors[name])
			}
			row = append(row, nil)
		}
		if err := setRow(f, "Results", i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *xlsxWriter) writeAggregate(f *excelize.File, report models.BatchReport) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"total_sessions", report.TotalSessions},
		{"processed", report.Processed},
		{"failed", report.Failed},
		{"average_score", report.AverageScore},
		{"avg_experience_level", report.Aggregate.AvgExperienceLevel},
		{"avg_effort_level", report.Aggregate.AvgEffortLevel},
	}

	for _, group := range distributions(report.Aggregate) {
		keys := make([]string, 0, len(group.Dist))
		for k := range group.Dist {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, []any{group.Name + "." + k, group.Dist[k]})
		}
	}

	for i, row := range rows {
		if err := setRow(f, "Aggregate", i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name for %s row %d: %w", sheet, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
