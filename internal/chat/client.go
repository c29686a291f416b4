package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dlr1251/chimeneasluque/internal/config"
)

// Message is one turn of a chat conversation in the upstream wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces an assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// XAIClient calls the xAI chat-completions endpoint.
type XAIClient struct {
	httpClient   *http.Client
	apiURL       string
	apiKey       string
	model        string
	collectionID string
}

// NewXAIClient returns nil when no API key is configured; callers treat a
// nil client as "FAQ-only mode".
func NewXAIClient(cfg config.ChatConfig) *XAIClient {
	if cfg.APIKey == "" {
		return nil
	}
	return &XAIClient{
		httpClient:   &http.Client{},
		apiURL:       cfg.APIURL,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		collectionID: cfg.CollectionID,
	}
}

type completionRequest struct {
	Model        string    `json:"model"`
	Messages     []Message `json:"messages"`
	Temperature  float64   `json:"temperature"`
	MaxTokens    int       `json:"max_tokens"`
	CollectionID string    `json:"collection_id,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation upstream and returns the assistant text.
// Cancellation and deadlines come from ctx.
func (c *XAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:        c.model,
		Messages:     messages,
		Temperature:  0.7,
		MaxTokens:    1000,
		CollectionID: c.collectionID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat upstream returned %d: %s", resp.StatusCode, payload)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat upstream returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
