package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docintake/internal/llm"
	"docintake/internal/shared/failure"
	"docintake/internal/shared/telemetry"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second
	maxErrorBody   = 512
)

// Client implements llm.Client using the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new Gemini client. A zero timeout selects the default.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		model:   strings.TrimPrefix(strings.TrimSpace(model), "models/"),
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate sends prompt as a single user turn and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", failure.New(failure.Unknown, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", failure.New(failure.Unknown, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", failure.From(fmt.Errorf("gemini request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", failure.From(fmt.Errorf("gemini read body: %w", err))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", statusFailure(resp.StatusCode, "", truncate(string(body)))
		}
		return "", failure.New(failure.Unknown, fmt.Errorf("gemini response parse: %w", err))
	}
	if parsed.Error != nil || resp.StatusCode >= 400 {
		msg := truncate(string(body))
		status := ""
		if parsed.Error != nil {
			msg = parsed.Error.Message
			status = parsed.Error.Status
		}
		return "", statusFailure(resp.StatusCode, status, msg)
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", failure.New(failure.Unknown, fmt.Errorf("gemini blocked prompt: %s", parsed.PromptFeedback.BlockReason))
	}
	if len(parsed.Candidates) == 0 {
		return "", failure.New(failure.Unknown, fmt.Errorf("gemini response missing candidates"))
	}

	var b strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", failure.New(failure.Unknown, fmt.Errorf("gemini response empty content"))
	}

	logUsage(c.model, parsed)
	return text, nil
}

func statusFailure(code int, status, msg string) *failure.Failure {
	err := fmt.Errorf("gemini http status %d: %s", code, msg)
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return failure.New(failure.AuthFailure, err)
	case status == "UNAUTHENTICATED" || status == "PERMISSION_DENIED":
		return failure.New(failure.AuthFailure, err)
	case code == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "api key"):
		return failure.New(failure.AuthFailure, err)
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout || status == "DEADLINE_EXCEEDED":
		return failure.New(failure.Timeout, err)
	case code == http.StatusTooManyRequests || code >= 500:
		return failure.New(failure.DependencyUnavailable, err)
	default:
		return failure.New(failure.Unknown, err)
	}
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}

func logUsage(model string, resp generateResponse) {
	fields := map[string]any{"model": model}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
