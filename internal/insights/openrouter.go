package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// OpenRouterURL is the chat-completions endpoint of the OpenRouter API.
const OpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterConfig configures the remote responder.
type OpenRouterConfig struct {
	// APIKey authenticates requests; an empty key marks the responder unavailable.
	APIKey string

	// Model is the model slug, e.g. "deepseek/deepseek-r1-0528:free".
	Model string

	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string

	// SiteURL and SiteName populate the optional attribution headers.
	SiteURL  string
	SiteName string
}

// OpenRouterResponder answers prompts through the OpenRouter chat-completions
// API. Transport failures come back as the http.Client's errors; failures the
// service embeds in a response body come back as *APIError, bare failing
// statuses as *StatusError, and malformed response shapes as *ParseError.
type OpenRouterResponder struct {
	cfg        OpenRouterConfig
	httpClient *http.Client
}

// NewOpenRouterResponder creates the remote responder. A nil httpClient gets
// a default with the standard remote-call timeout.
func NewOpenRouterResponder(cfg OpenRouterConfig, httpClient *http.Client) *OpenRouterResponder {
	if cfg.Model == "" {
		cfg.Model = bizreport.DefaultRemoteModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: bizreport.DefaultRemoteTimeout}
	}
	return &OpenRouterResponder{cfg: cfg, httpClient: httpClient}
}

// Name identifies the responder in logs and fallback output.
func (r *OpenRouterResponder) Name() string {
	return "OpenRouter"
}

// Available reports whether an API key is configured.
func (r *OpenRouterResponder) Available() bool {
	return r.cfg.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one chat request. The service reports some failures inside
// a 200 response body; those surface as *APIError so the caller's classifier
// can separate transient codes from terminal ones.
func (r *OpenRouterResponder) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:     r.cfg.Model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.SiteURL != "" {
		req.Header.Set("HTTP-Referer", r.cfg.SiteURL)
	}
	if r.cfg.SiteName != "" {
		req.Header.Set("X-Title", r.cfg.SiteName)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err // transport failure
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &ParseError{Err: err}
	}

	// The API can report errors in the body of a successful transport
	// response; classify by embedded code, not HTTP status.
	if decoded.Error != nil {
		msg := decoded.Error.Message
		if msg == "" {
			msg = "unknown API error"
		}
		return "", &APIError{Code: decoded.Error.Code, Message: msg}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode}
	}

	if len(decoded.Choices) == 0 {
		return "No response generated from AI.", nil
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "No response generated from AI.", nil
	}
	return content, nil
}
