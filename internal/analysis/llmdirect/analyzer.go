package llmdirect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/llm"
	"github.com/upandey0/eval-sys/internal/models"
)

const (
	defaultMaxTokens   = 2048
	defaultTemperature = 0.0
)

// defaultPrompt asks the model for the canonical analysis payload. The
// normalizer downstream tolerates casing drift, so the prompt only has to
// pin down field names and value vocabulary.
const defaultPrompt = `You are a quality analyst reviewing one recorded support conversation.

Session ID: {{.SessionID}}

Conversation record:
{{.Transcript}}

Analyze the conversation and respond with only a JSON object using exactly these fields:
{
  "accuracy_level": "correct" | "partially correct" | "wrong",
  "is_chat_completed": "yes" | "no",
  "overall_latency_classification": "good" | "average" | "bad",
  "user_experience_level": 1-5,
  "user_effort_level": 1-5,
  "human_escalation": {"is_escalated": "yes" | "no"},
  "issue_status": {"status": "resolved" | "unresolved" | "pending"},
  "escalation_necessity": {"is_necessary": "yes" | "no"},
  "bot_tone": {"tone": "professional" | "friendly" | "neutral" | "inappropriate"},
  "user_sentiment": {"sentiment": "positive" | "neutral" | "negative" | "frustrated"},
  "response_quality": {
    "is_clear": "yes" | "no",
    "is_concise": "yes" | "no",
    "is_understandable": "yes" | "no",
    "is_relevant": "yes" | "no",
    "overall_quality": "excellent" | "good" | "fair" | "poor"
  },
  "conversation_quality": {
    "rating": "excellent" | "good" | "fair" | "poor",
    "remote_assistance_required": "yes" | "no"
  }
}

Do not wrap the JSON in markdown or add commentary.`

type Options struct {
	MaxTokens   int
	Temperature float64
	Retry       bool
	// Prompt overrides the built-in analysis prompt template.
	Prompt string
}

// Analyzer runs session analysis directly against an LLM instead of the
// workflow service. It renders the session into a prompt, invokes the model
// and parses the JSON payload it returns.
type Analyzer struct {
	promptTemplate *template.Template
	opts           Options
	client         llm.Client
	logger         *zerolog.Logger
}

type promptData struct {
	SessionID  string
	Transcript string
}

func NewAnalyzer(opts Options, client llm.Client, logger *zerolog.Logger) (*Analyzer, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature < 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.Prompt == "" {
		opts.Prompt = defaultPrompt
	}

	tmpl, err := template.New("analysis").Parse(opts.Prompt)
	if err != nil {
		return nil, fmt.Errorf("parse analysis prompt template: %w", err)
	}

	return &Analyzer{
		promptTemplate: tmpl,
		opts:           opts,
		client:         client,
		logger:         logger,
	}, nil
}

func (a *Analyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (models.Record, error) {
	if req.Session == nil {
		return nil, errors.New("analysis request has no session payload")
	}

	prompt, err := a.buildPrompt(req)
	if err != nil {
		return nil, err
	}

	llmReq := llm.Request{
		Prompt:      prompt,
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	}

	var resp *llm.Response
	if a.opts.Retry {
		resp, err = a.client.InvokeModelWithRetry(ctx, llmReq)
	} else {
		resp, err = a.client.InvokeModel(ctx, llmReq)
	}
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}

	content := stripMarkdownCodeBlock(resp.Content)
	var rec models.Record
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		a.logger.Error().
			Err(err).
			Str("session_id", req.SessionID).
			Str("content", resp.Content).
			Msg("failed to deserialize LLM analysis")
		return nil, fmt.Errorf("deserialize llm analysis: %w", err)
	}
	if len(rec) == 0 {
		return nil, errors.New("llm returned an empty analysis")
	}

	a.logger.Debug().
		Str("session_id", req.SessionID).
		Int("fields", len(rec)).
		Msg("llm analysis parsed")
	return rec, nil
}

// buildPrompt renders the template over the session id and an indented
// JSON rendering of the stored record.
func (a *Analyzer) buildPrompt(req models.AnalysisRequest) (string, error) {
	transcript, err := json.MarshalIndent(req.Session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render session transcript: %w", err)
	}

	var buf bytes.Buffer
	err = a.promptTemplate.Execute(&buf, promptData{
		SessionID:  req.SessionID,
		Transcript: string(transcript),
	})
	if err != nil {
		return "", fmt.Errorf("execute analysis prompt template: %w", err)
	}
	return buf.String(), nil
}

// stripMarkdownCodeBlock removes markdown code block formatting if present
func stripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	// Check for markdown code blocks (```json ... ``` or ``` ... ```)
	if strings.HasPrefix(content, "```") {
		// Find the first newline (after the opening ```)
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		// Find the closing ```
		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		// Extract the content between the code blocks
		content = content[firstNewline+1 : closingBackticks]
		content = strings.TrimSpace(content)
	}

	return content
}
