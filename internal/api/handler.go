package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/api/middleware"
	"github.com/upandey0/eval-sys/internal/models"
	"github.com/upandey0/eval-sys/internal/normalizer"
	"github.com/upandey0/eval-sys/internal/pipeline"
	"github.com/upandey0/eval-sys/internal/scorer"
)

// ReportRunner runs one scored batch for a date window.
type ReportRunner interface {
	Run(ctx context.Context, fromDate, toDate string) (models.BatchReport, error)
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ScoreResponse carries one normalized analysis and its score breakdown.
type ScoreResponse struct {
	Analysis models.Record         `json:"analysis"`
	Score    models.ScoreBreakdown `json:"score"`
}

type Handler struct {
	runner     ReportRunner
	normalizer *normalizer.Normalizer
	scorer     *scorer.Scorer
	logger     *zerolog.Logger
}

func NewHandler(runner ReportRunner, norm *normalizer.Normalizer, sc *scorer.Scorer, logger *zerolog.Logger) *Handler {
	return &Handler{
		runner:     runner,
		normalizer: norm,
		scorer:     sc,
		logger:     logger,
	}
}

// POST /api/v1/reports
// Body: ReportRequest
// Returns: BatchReport
func (h *Handler) CreateReport(req *restful.Request, resp *restful.Response) {
	var reportReq models.ReportRequest
	if err := req.ReadEntity(&reportReq); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("request_id", reportReq.RequestID).
		Str("from_date", reportReq.FromDate).
		Str("to_date", reportReq.ToDate).
		Msg("Start batch report")

	ctx := req.Request.Context()
	report, err := h.runner.Run(ctx, reportReq.FromDate, reportReq.ToDate)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidDate) {
			middleware.HandleError(resp, err, http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Msg("Batch report failed")
		middleware.HandleError(resp, err, http.StatusBadGateway)
		return
	}

	h.logger.Info().
		Int("total", report.TotalSessions).
		Int("processed", report.Processed).
		Int("failed", report.Failed).
		Float64("average_score", report.AverageScore).
		Msg("Batch report complete")

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/score
// Body: one raw analysis record
// Returns: the normalized record with its breakdown
func (h *Handler) ScoreAnalysis(req *restful.Request, resp *restful.Response) {
	var rec models.Record
	if err := req.ReadEntity(&rec); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if len(rec) == 0 {
		middleware.HandleError(resp, errors.New("empty analysis payload"), http.StatusBadRequest)
		return
	}

	normalized := h.normalizer.Normalize(rec)
	breakdown := h.scorer.Score(normalized)

	h.logger.Info().
		Float64("total_score", breakdown.TotalScore).
		Msg("Analysis scored")

	resp.WriteHeaderAndEntity(http.StatusOK, ScoreResponse{
		Analysis: normalized,
		Score:    breakdown,
	})
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
