// Package analyzer adapts the Gemini generateContent endpoint to the
// domain.TaskAnalyzerService contract. The endpoint is untrusted: every
// transport problem maps to ErrAnalysisUnavailable and every response we
// cannot make sense of maps to ErrAnalysisMalformed, so callers always
// have a typed branch to fall back on.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tientruong05/todo-talk-quynhon/config"
	"github.com/tientruong05/todo-talk-quynhon/internal/domain"

	"github.com/tidwall/gjson"
)

const dueDateLayout = "2006-01-02T15:04:05"

type GeminiAnalyzer struct {
	apiKey   string
	endpoint string
	marker   string
	timeout  time.Duration
	client   *http.Client
	now      func() time.Time
}

func NewGeminiAnalyzer(cfg config.GeminiConfig, marker string) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		marker:   marker,
		timeout:  cfg.Timeout,
		client:   &http.Client{},
		now:      time.Now,
	}
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, content string) (*domain.TaskAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := buildPrompt(a.marker, content, a.now())
	raw, err := a.callGemini(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnalysisResponse(raw)
}

func (a *GeminiAnalyzer) callGemini(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"contents": []any{
			map[string]any{
				"parts": []any{map[string]any{"text": prompt}},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.3,
			"maxOutputTokens": 1000,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", domain.ErrAnalysisUnavailable, err)
	}

	url := a.endpoint + "?key=" + a.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrAnalysisUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrAnalysisUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrAnalysisUnavailable, resp.StatusCode)
	}

	text := gjson.GetBytes(data, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", fmt.Errorf("%w: no candidate text in response", domain.ErrAnalysisMalformed)
	}
	return text.String(), nil
}

// parseAnalysisResponse accepts the model's answer, tolerating markdown
// code fencing around the JSON but nothing else.
func parseAnalysisResponse(raw string) (*domain.TaskAnalysis, error) {
	cleaned := stripCodeFence(raw)
	if !gjson.Valid(cleaned) {
		return nil, fmt.Errorf("%w: response is not JSON", domain.ErrAnalysisMalformed)
	}

	description := gjson.Get(cleaned, "description")
	if !description.Exists() {
		return nil, fmt.Errorf("%w: missing description field", domain.ErrAnalysisMalformed)
	}

	result := &domain.TaskAnalysis{
		Description: strings.TrimSpace(description.String()),
		AIProcessed: true,
	}

	dueDate := gjson.Get(cleaned, "dueDate")
	if dueDate.Exists() && dueDate.Type == gjson.String && dueDate.String() != "" && dueDate.String() != "null" {
		if t, err := time.Parse(dueDateLayout, dueDate.String()); err == nil {
			result.DueDate = &t
		}
		// 解析不了的dueDate只丢弃日期，描述照常保留
	}
	return result, nil
}

func stripCodeFence(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
