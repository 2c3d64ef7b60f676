package llmdirect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/llm"
	"github.com/upandey0/eval-sys/internal/models"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func testRequest() models.AnalysisRequest {
	return models.AnalysisRequest{
		SessionID: "sess-1",
		Session: models.Record{
			"_id":        "sess-1",
			"created_at": "2025-03-20T10:00:00Z",
			"messages":   []any{"hello", "hi, how can I help?"},
		},
	}
}

func TestNewAnalyzer_Defaults(t *testing.T) {
	analyzer, err := NewAnalyzer(Options{}, &MockClient{}, newTestLogger())
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}

	if analyzer.opts.MaxTokens != defaultMaxTokens {
		t.Errorf("MaxTokens: %d, want %d", analyzer.opts.MaxTokens, defaultMaxTokens)
	}
	if analyzer.opts.Prompt != defaultPrompt {
		t.Error("expected default prompt to be applied")
	}
}

func TestNewAnalyzer_InvalidTemplate(t *testing.T) {
	_, err := NewAnalyzer(Options{Prompt: "{{.Invalid"}, &MockClient{}, newTestLogger())
	if err == nil {
		t.Error("expected error for invalid template")
	}
}

func TestAnalyzer_Analyze_Success(t *testing.T) {
	mockClient := &MockClient{
		ResponseToReturn: &llm.Response{
			Content: `{"accuracy_level": "Correct", "issue_status": {"status": "Resolved"}}`,
		},
	}

	analyzer, err := NewAnalyzer(Options{MaxTokens: 512}, mockClient, newTestLogger())
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}

	rec, err := analyzer.Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if v, _ := rec.String("accuracy_level"); v != "Correct" {
		t.Errorf("accuracy_level: %q, want %q", v, "Correct")
	}
	if v, _ := rec.String("issue_status", "status"); v != "Resolved" {
		t.Errorf("issue_status.status: %q, want %q", v, "Resolved")
	}

	if !mockClient.WasCalled {
		t.Error("expected InvokeModel to be called")
	}
	if mockClient.RetryCalled {
		t.Error("expected plain InvokeModel, not InvokeModelWithRetry")
	}
	if mockClient.LastRequest.MaxTokens != 512 {
		t.Errorf("MaxTokens: %d, want 512", mockClient.LastRequest.MaxTokens)
	}
	if !strings.Contains(mockClient.LastRequest.Prompt, "sess-1") {
		t.Error("prompt does not carry the session id")
	}
	if !strings.Contains(mockClient.LastRequest.Prompt, "how can I help?") {
		t.Error("prompt does not carry the session transcript")
	}
}

func TestAnalyzer_Analyze_MarkdownFencedResponse(t *testing.T) {
	mockClient := &MockClient{
		ResponseToReturn: &llm.Response{
			Content: "```json\n{\"accuracy_level\": \"correct\"}\n```",
		},
	}

	analyzer, _ := NewAnalyzer(Options{}, mockClient, newTestLogger())
	rec, err := analyzer.Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if v, _ := rec.String("accuracy_level"); v != "correct" {
		t.Errorf("accuracy_level: %q, want %q", v, "correct")
	}
}

func TestAnalyzer_Analyze_WithRetry(t *testing.T) {
	mockClient := &MockClient{
		ResponseToReturn: &llm.Response{
			Content: `{"accuracy_level": "correct"}`,
		},
	}

	analyzer, _ := NewAnalyzer(Options{Retry: true}, mockClient, newTestLogger())
	if _, err := analyzer.Analyze(context.Background(), testRequest()); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !mockClient.RetryCalled {
		t.Error("expected InvokeModelWithRetry to be called")
	}
}

func TestAnalyzer_Analyze_LLMCallFails(t *testing.T) {
	mockClient := &MockClient{
		ErrorToReturn: errors.New("API error"),
	}

	analyzer, _ := NewAnalyzer(Options{}, mockClient, newTestLogger())
	_, err := analyzer.Analyze(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error for failed LLM call")
	}
	if !strings.Contains(err.Error(), "llm call") {
		t.Errorf("error %q, want wrapped llm call failure", err)
	}
}

func TestAnalyzer_Analyze_InvalidJSON(t *testing.T) {
	mockClient := &MockClient{
		ResponseToReturn: &llm.Response{Content: `not valid json`},
	}

	analyzer, _ := NewAnalyzer(Options{}, mockClient, newTestLogger())
	_, err := analyzer.Analyze(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "deserialize") {
		t.Errorf("error %q, want deserialization failure", err)
	}
}

func TestAnalyzer_Analyze_EmptyPayload(t *testing.T) {
	mockClient := &MockClient{
		ResponseToReturn: &llm.Response{Content: `{}`},
	}

	analyzer, _ := NewAnalyzer(Options{}, mockClient, newTestLogger())
	_, err := analyzer.Analyze(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error for empty analysis payload")
	}
	if !strings.Contains(err.Error(), "empty analysis") {
		t.Errorf("error %q, want empty analysis failure", err)
	}
}

func TestAnalyzer_Analyze_MissingSession(t *testing.T) {
	mockClient := &MockClient{}

	analyzer, _ := NewAnalyzer(Options{}, mockClient, newTestLogger())
	_, err := analyzer.Analyze(context.Background(), models.AnalysisRequest{SessionID: "sess-1"})
	if err == nil {
		t.Fatal("expected error for missing session payload")
	}
	if mockClient.WasCalled {
		t.Error("llm should not be called without a session payload")
	}
}

func TestStripMarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"unterminated fence", "```json {\"a\": 1}", "```json {\"a\": 1}"},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripMarkdownCodeBlock(tt.content); got != tt.want {
				t.Errorf("stripMarkdownCodeBlock: %q, want %q", got, tt.want)
			}
		})
	}
}

// MockClient for testing
type MockClient struct {
	ResponseToReturn *llm.Response
	ErrorToReturn    error
	WasCalled        bool
	RetryCalled      bool
	LastRequest      *llm.Request
}

func (m *MockClient) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	m.WasCalled = true
	m.LastRequest = &request
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}

func (m *MockClient) InvokeModelWithRetry(ctx context.Context, request llm.Request) (*llm.Response, error) {
	m.WasCalled = true
	m.RetryCalled = true
	m.LastRequest = &request
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}
