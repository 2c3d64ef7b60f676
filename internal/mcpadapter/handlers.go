package mcpadapter

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/upandey0/eval-sys/internal/models"
	"github.com/upandey0/eval-sys/internal/normalizer"
	"github.com/upandey0/eval-sys/internal/pipeline"
	"github.com/upandey0/eval-sys/internal/scorer"
)

// ScoreAnalysisInput is the MCP tool input schema for scoring a single
// analysis payload (matches the HTTP API field names).
type ScoreAnalysisInput struct {
	Analysis map[string]any `json:"analysis" jsonschema:"analysis payload as returned by the analysis service"`
}

// SessionReportInput is the MCP tool input schema for a full batch report.
type SessionReportInput struct {
	FromDate string `json:"from_date" jsonschema:"start date in YYYY-MM-DD form, inclusive"`
	ToDate   string `json:"to_date" jsonschema:"end date in YYYY-MM-DD form, inclusive"`
}

// ScoreAnalysisOutput pairs the normalized payload with its score breakdown.
type ScoreAnalysisOutput struct {
	Analysis models.Record         `json:"analysis"`
	Score    models.ScoreBreakdown `json:"score"`
}

// NewScoreAnalysisHandler returns a tool handler that normalizes and scores
// one analysis payload. Pass the returned function to mcp.AddTool.
func NewScoreAnalysisHandler(norm *normalizer.Normalizer, sc *scorer.Scorer) func(context.Context, *mcp.CallToolRequest, ScoreAnalysisInput) (*mcp.CallToolResult, ScoreAnalysisOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ScoreAnalysisInput) (*mcp.CallToolResult, ScoreAnalysisOutput, error) {
		return ScoreAnalysis(ctx, norm, sc, req, input)
	}
}

// ScoreAnalysis normalizes the payload and computes its weighted score.
func ScoreAnalysis(
	ctx context.Context,
	norm *normalizer.Normalizer,
	sc *scorer.Scorer,
	req *mcp.CallToolRequest,
	input ScoreAnalysisInput,
) (*mcp.CallToolResult, ScoreAnalysisOutput, error) {
	if len(input.Analysis) == 0 {
		return nil, ScoreAnalysisOutput{}, fmt.Errorf("empty analysis payload")
	}

	normalized := norm.Normalize(models.Record(input.Analysis))
	breakdown := sc.Score(normalized)

	return nil, ScoreAnalysisOutput{Analysis: normalized, Score: breakdown}, nil
}

// NewSessionReportHandler returns a tool handler that runs the full scoring
// pipeline over a date range. Pass the returned function to mcp.AddTool.
func NewSessionReportHandler(runner *pipeline.Runner) func(context.Context, *mcp.CallToolRequest, SessionReportInput) (*mcp.CallToolResult, models.BatchReport, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SessionReportInput) (*mcp.CallToolResult, models.BatchReport, error) {
		return SessionReport(ctx, runner, req, input)
	}
}

// SessionReport retrieves, analyzes, scores and aggregates every session
// recorded inside the requested date range.
func SessionReport(
	ctx context.Context,
	runner *pipeline.Runner,
	req *mcp.CallToolRequest,
	input SessionReportInput,
) (*mcp.CallToolResult, models.BatchReport, error) {
	report, err := runner.Run(ctx, input.FromDate, input.ToDate)
	if err != nil {
		return nil, models.BatchReport{}, err
	}

	return nil, report, nil
}
