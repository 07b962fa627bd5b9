package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// LocalConfig configures the local model runtime responder.
type LocalConfig struct {
	// BaseURL of an Ollama-compatible runtime, e.g. "http://localhost:11434".
	BaseURL string

	// Model is the local model tag, e.g. "llama3.2:1b".
	Model string
}

// LocalResponder answers prompts through a local model runtime (Ollama API).
// The runtime is probed lazily exactly once per responder: the first
// Available call performs one reachability check and every later call
// reuses the cached outcome.
type LocalResponder struct {
	cfg        LocalConfig
	httpClient *http.Client

	probeOnce sync.Once
	reachable bool
}

// NewLocalResponder creates the local responder. A nil httpClient gets a
// default; local generation is slow on CPU, so the timeout is generous.
func NewLocalResponder(cfg LocalConfig, httpClient *http.Client) *LocalResponder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = bizreport.DefaultLocalURL
	}
	if cfg.Model == "" {
		cfg.Model = bizreport.DefaultLocalModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: bizreport.DefaultRemoteTimeout}
	}
	return &LocalResponder{cfg: cfg, httpClient: httpClient}
}

// Name identifies the responder in logs and fallback output.
func (r *LocalResponder) Name() string {
	return "local model"
}

// Available probes the runtime once and caches the result.
func (r *LocalResponder) Available() bool {
	r.probeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/api/tags", nil)
		if err != nil {
			return
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return
		}
		resp.Body.Close()
		r.reachable = resp.StatusCode == http.StatusOK
	})
	return r.reachable
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict int `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Generate runs one completion against the local runtime.
func (r *LocalResponder) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:   r.cfg.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{NumPredict: maxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &ParseError{Err: err}
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("local runtime: %s", decoded.Error)
	}

	// Some models echo the prompt; strip it.
	text := strings.TrimSpace(decoded.Response)
	if strings.HasPrefix(text, prompt) {
		text = strings.TrimSpace(strings.TrimPrefix(text, prompt))
	}
	return text, nil
}
