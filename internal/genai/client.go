// Package genai provides the language-model invocation client shared by the
// insight and receipt pipelines.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
)

// Completer is the invocation contract the pipelines depend on. The raw
// text it returns is the model's single structured-object answer; parsing
// and validation stay with the caller.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)
}

// Client calls the Gemini generateContent API over HTTP. It is constructed
// once at startup and injected into the pipelines; it holds no mutable
// state beyond the underlying http.Client.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Gemini client. The HTTP timeout is chosen so that two
// attempts plus backoff fit inside the service-level request deadline.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Complete sends one system-instructed, single-turn generation request and
// returns the candidate text with any markdown code fences stripped.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", &GenError{Code: ErrBadRequest, Message: "Gemini API key not configured"}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": system},
			},
		},
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": user},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      temperature,
			"maxOutputTokens":  maxTokens,
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &GenError{Code: ErrTransport, Message: "Gemini API call failed", Retryable: true, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenError{Code: ErrTransport, Message: "read response", Retryable: true, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, respBody)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", &GenError{Code: ErrUpstream, Message: "parse Gemini response", Retryable: true, Cause: err}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &GenError{Code: ErrEmptyResponse, Message: "empty Gemini response", Retryable: true}
	}

	return StripCodeFences(geminiResp.Candidates[0].Content.Parts[0].Text), nil
}

func statusError(status int, body []byte) *GenError {
	msg := fmt.Sprintf("Gemini API error %d: %s", status, truncate(string(body), 200))
	switch {
	case status == http.StatusTooManyRequests:
		return &GenError{Code: ErrRateLimited, Message: msg, Retryable: true}
	case status >= 500:
		return &GenError{Code: ErrUpstream, Message: msg, Retryable: true}
	default:
		return &GenError{Code: ErrBadRequest, Message: msg, Retryable: false}
	}
}

// StripCodeFences removes a surrounding markdown code fence, which some
// models emit around JSON despite instructions not to.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
