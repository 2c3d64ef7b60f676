package analysis

import (
	"context"

	"github.com/upandey0/eval-sys/internal/models"
)

// Client submits one session to an analysis backend and returns the raw
// analysis record. Implementations live under analysis/workflow and
// analysis/llmdirect.
type Client interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (models.Record, error)
}
