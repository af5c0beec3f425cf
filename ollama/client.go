// Package ollama wraps the local Ollama daemon: chat requests, model
// enumeration and daemon lifecycle (probe, install check, startup).
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"omnichat/model"

	"github.com/ollama/ollama/api"
)

// pingTimeout bounds the daemon probe. The daemon answers /api/tags in
// milliseconds when up; the generous ceiling covers cold starts where the
// server is still loading its model manifest.
const pingTimeout = 15 * time.Second

type Client struct {
	client  *api.Client
	baseURL string
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	client := api.NewClient(parsedURL, http.DefaultClient)

	return &Client{
		client:  client,
		baseURL: baseURL,
	}, nil
}

// Chat sends a streaming chat request and forwards each content chunk to
// callback.
func (c *Client) Chat(ctx context.Context, modelName string, messages []api.Message, options map[string]any, callback func(chunk string) error) error {
	req := &api.ChatRequest{
		Model:    modelName,
		Messages: messages,
		Options:  options,
		Stream:   func(b bool) *bool { return &b }(true),
	}

	respFunc := func(resp api.ChatResponse) error {
		if callback != nil && resp.Message.Content != "" {
			return callback(resp.Message.Content)
		}
		return nil
	}

	return c.client.Chat(ctx, req, respFunc)
}

// ListModels returns the locally installed models, deduplicated by name and
// sorted ascending so the UI shows a stable list.
func (c *Client) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	seen := make(map[string]bool, len(resp.Models))
	models := make([]model.ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		if m.Name == "" || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		models = append(models, model.ModelInfo{
			Name:     m.Name,
			Size:     m.Size,
			Provider: "ollama",
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	})

	return models, nil
}

// Ping checks whether the daemon is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := c.client.List(ctx)
	return err
}

// IsRunning is Ping with a boolean answer, for callers that treat
// unreachable as a state rather than a failure.
func (c *Client) IsRunning(ctx context.Context) bool {
	return c.Ping(ctx) == nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}
