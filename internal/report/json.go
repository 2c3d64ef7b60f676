package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/upandey0/eval-sys/internal/models"
)

type jsonWriter struct {
	out io.Writer
}

func (w *jsonWriter) Write(report models.BatchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
