// Package llm talks to a local Ollama-compatible chat-completion service.
// The service is treated as unreliable: callers own the fallback.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/altscore/credit-system/internal/api/metrics"
	"github.com/altscore/credit-system/internal/core/domain"
	"github.com/altscore/credit-system/internal/core/ports"
)

const defaultTimeout = 60 * time.Second

// Config captures the settings for reaching the chat service.
type Config struct {
	BaseURL string // e.g. http://localhost:11434
	Model   string // e.g. gemma3:4b
	Timeout time.Duration
}

// Client implements ports.ChatClient over the /api/chat endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Probe performs a minimal round trip ("Hello") to verify that the service
// is up and the model is loadable. The reply content is discarded.
func (c *Client) Probe(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.LLMRequestDuration.WithLabelValues("probe").Observe(time.Since(start).Seconds())
	}()

	_, err := c.send(ctx, []chatMessage{{Role: ports.RoleUser, Content: "Hello"}})
	return err
}

// Chat sends the ordered message list and returns the reply content.
func (c *Client) Chat(ctx context.Context, messages []ports.ChatMessage) (string, error) {
	start := time.Now()
	defer func() {
		metrics.LLMRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
	}()

	wire := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, chatMessage{Role: m.Role, Content: m.Content})
	}
	return c.send(ctx, wire)
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages, Stream: false})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and transport errors are indistinguishable to callers:
		// both mean "fall back".
		return "", fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrLLMUnavailable, resp.StatusCode, snippet)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMMalformedResponse, err)
	}
	if decoded.Message.Content == "" {
		return "", fmt.Errorf("%w: empty reply content", domain.ErrLLMMalformedResponse)
	}
	return decoded.Message.Content, nil
}
