package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/api"
	"github.com/upandey0/eval-sys/internal/api/middleware"
	"github.com/upandey0/eval-sys/internal/models"
	"github.com/upandey0/eval-sys/internal/normalizer"
	"github.com/upandey0/eval-sys/internal/pipeline"
	"github.com/upandey0/eval-sys/internal/scorer"
)

type fakeRunner struct {
	report   models.BatchReport
	err      error
	lastFrom string
	lastTo   string
}

func (f *fakeRunner) Run(ctx context.Context, fromDate, toDate string) (models.BatchReport, error) {
	f.lastFrom, f.lastTo = fromDate, toDate
	if f.err != nil {
		return models.BatchReport{}, f.err
	}
	return f.report, nil
}

func setupContainer(runner api.ReportRunner) *restful.Container {
	logger := zerolog.Nop()
	sc := scorer.NewScorer(scorer.DefaultWeights(), scorer.DefaultPenalties(), &logger)
	handler := api.NewHandler(runner, normalizer.NewNormalizer(), sc, &logger)

	container := restful.NewContainer()
	api.RegisterRoutes(container, handler)
	return container
}

func postJSON(t *testing.T, container *restful.Container, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestAPI_Health(t *testing.T) {
	container := setupContainer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response.Status)
	}
}

func TestAPI_CreateReport_Success(t *testing.T) {
	runner := &fakeRunner{
		report: models.BatchReport{
			TotalSessions: 2,
			Processed:     2,
			Results: []models.SessionResult{
				{SessionID: "s1", Score: &models.ScoreBreakdown{TotalScore: 80}},
				{SessionID: "s2", Score: &models.ScoreBreakdown{TotalScore: 70}},
			},
			AverageScore: 75.0,
		},
	}
	container := setupContainer(runner)

	recorder := postJSON(t, container, "/api/v1/reports",
		`{"from_date": "2025-03-20", "to_date": "2025-03-21"}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	if runner.lastFrom != "2025-03-20" || runner.lastTo != "2025-03-21" {
		t.Errorf("runner got window %q..%q, want 2025-03-20..2025-03-21", runner.lastFrom, runner.lastTo)
	}

	var report models.BatchReport
	if err := json.Unmarshal(recorder.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if report.TotalSessions != 2 {
		t.Errorf("total_sessions: %d, want 2", report.TotalSessions)
	}
	if report.AverageScore != 75.0 {
		t.Errorf("average_score: %v, want 75.0", report.AverageScore)
	}
}

func TestAPI_CreateReport_InvalidDate(t *testing.T) {
	runner := &fakeRunner{
		err: fmt.Errorf("%w: from_date %q", pipeline.ErrInvalidDate, "20-03-2025"),
	}
	container := setupContainer(runner)

	recorder := postJSON(t, container, "/api/v1/reports",
		`{"from_date": "20-03-2025", "to_date": "2025-03-21"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}

	var errResp middleware.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to parse error body: %v", err)
	}
	if !strings.Contains(errResp.Error, "invalid date") {
		t.Errorf("error body %q does not mention the invalid date", errResp.Error)
	}
}

func TestAPI_CreateReport_StoreFailure(t *testing.T) {
	runner := &fakeRunner{
		err: errors.New("fetch sessions: connection refused"),
	}
	container := setupContainer(runner)

	recorder := postJSON(t, container, "/api/v1/reports",
		`{"from_date": "2025-03-20", "to_date": "2025-03-21"}`)

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", recorder.Code)
	}
}

func TestAPI_CreateReport_MalformedBody(t *testing.T) {
	container := setupContainer(&fakeRunner{})

	recorder := postJSON(t, container, "/api/v1/reports", `not json`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
}

func TestAPI_ScoreAnalysis(t *testing.T) {
	container := setupContainer(&fakeRunner{})

	recorder := postJSON(t, container, "/api/v1/score", `{"accuracy_level": "CORRECT"}`)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var response api.ScoreResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if v, _ := response.Analysis.String("accuracy_level"); v != "correct" {
		t.Errorf("normalized accuracy_level: %q, want %q", v, "correct")
	}
	// Accuracy is the only present factor: 100 * 7 / 100 = 7.0
	if response.Score.TotalScore != 7.0 {
		t.Errorf("total_score: %v, want 7.0", response.Score.TotalScore)
	}
	if response.Score.Factors["accuracy"] != 7.0 {
		t.Errorf("accuracy factor: %v, want 7.0", response.Score.Factors["accuracy"])
	}
}

func TestAPI_ScoreAnalysis_EmptyBody(t *testing.T) {
	container := setupContainer(&fakeRunner{})

	recorder := postJSON(t, container, "/api/v1/score", `{}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
}
