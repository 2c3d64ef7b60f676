package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/models"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		URL:        url,
		WorkflowID: "wf-test",
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
	}, newTestLogger())
}

func TestClient_Analyze_Success(t *testing.T) {
	var gotBody runRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: %s, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization header: %q, want %q", auth, "Bearer test-key")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": {"accuracy_level": "Correct", "user_experience_level": 4}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	rec, err := client.Analyze(context.Background(), models.AnalysisRequest{SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if gotBody.WorkflowID != "wf-test" {
		t.Errorf("workflow_id: %q, want %q", gotBody.WorkflowID, "wf-test")
	}
	if gotBody.SessionID != "sess-1" {
		t.Errorf("session_id: %q, want %q", gotBody.SessionID, "sess-1")
	}
	if v, _ := rec.String("accuracy_level"); v != "Correct" {
		t.Errorf("accuracy_level: %q, want %q", v, "Correct")
	}
	if v, _ := rec.Number("user_experience_level"); v != 4 {
		t.Errorf("user_experience_level: %v, want 4", v)
	}
}

func TestClient_Analyze_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown workflow", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Analyze(context.Background(), models.AnalysisRequest{SessionID: "sess-1"})
	if err == nil {
		t.Fatal("Analyze returned nil error, want failure")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error %q does not mention status 400", err)
	}
	if !strings.Contains(err.Error(), "unknown workflow") {
		t.Errorf("error %q does not carry the response body", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server calls: %d, want 1", n)
	}
}

func TestClient_Analyze_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"result": {"accuracy_level": "correct"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	rec, err := client.Analyze(context.Background(), models.AnalysisRequest{SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Analyze returned error after retry: %v", err)
	}
	if n := calls.Load(); n < 2 {
		t.Errorf("server calls: %d, want at least 2", n)
	}
	if v, _ := rec.String("accuracy_level"); v != "correct" {
		t.Errorf("accuracy_level: %q, want %q", v, "correct")
	}
}

func TestClient_Analyze_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Analyze(context.Background(), models.AnalysisRequest{SessionID: "sess-1"})
	if err == nil {
		t.Fatal("Analyze returned nil error for malformed body")
	}
	if !strings.Contains(err.Error(), "decode analysis response") {
		t.Errorf("error %q, want decode failure", err)
	}
}

func TestClient_Analyze_MissingResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Analyze(context.Background(), models.AnalysisRequest{SessionID: "sess-1"})
	if err == nil {
		t.Fatal("Analyze returned nil error for missing result")
	}
	if !strings.Contains(err.Error(), "no result") {
		t.Errorf("error %q, want missing result failure", err)
	}
}
