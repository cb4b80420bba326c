package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// CompleteOptions are per-call sampling controls. MaxOutputTokens is sent as
// max_completion_tokens first; older backends that reject the parameter get
// one retry with the legacy max_tokens name.
type CompleteOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

type OpenAICompatibleClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewOpenAICompatibleClient(logger *slog.Logger) *OpenAICompatibleClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAICompatibleClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		logger:     logger,
	}
}

func (c *OpenAICompatibleClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage, opts CompleteOptions) (string, error) {
	content, status, body, err := c.completeOnce(ctx, cfg, messages, opts, "max_completion_tokens")
	if err == nil {
		return content, nil
	}
	// Compatibility shim, not a retry policy: a 400 naming the token-limit
	// parameter means the backend predates max_completion_tokens. Attempted
	// at most once per call.
	if status == http.StatusBadRequest && mentionsTokenParam(body) {
		c.logger.Warn("llm.complete.token_param_fallback", "model", cfg.Model)
		content, _, _, err = c.completeOnce(ctx, cfg, messages, opts, "max_tokens")
		return content, err
	}
	return "", err
}

func (c *OpenAICompatibleClient) completeOnce(
	ctx context.Context,
	cfg ChatConfig,
	messages []ChatMessage,
	opts CompleteOptions,
	tokenParam string,
) (string, int, string, error) {
	reqBody := map[string]interface{}{
		"model":       cfg.Model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"stream":      false,
	}
	if opts.MaxOutputTokens > 0 {
		reqBody[tokenParam] = opts.MaxOutputTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, "", fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", 0, "", fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, "", fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, "", fmt.Errorf("read llm response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", resp.StatusCode, string(raw), fmt.Errorf("llm response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", resp.StatusCode, string(raw), fmt.Errorf("parse llm json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", resp.StatusCode, string(raw), fmt.Errorf("empty llm choices")
	}
	return parsed.Choices[0].Message.Content, resp.StatusCode, "", nil
}

func mentionsTokenParam(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "max_completion_tokens") || strings.Contains(lower, "max_tokens")
}
