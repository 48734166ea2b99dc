package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/llm"
)

// Complete implements llm.Completer against the OpenAI-compatible chat endpoint.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: OPENROUTER_API_KEY not set", common.ErrLLMUnavailable)
	}

	req := llm.ChatRequest{
		Model: c.cfg.Model,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}
	if c.cfg.Temperature > 0 {
		t := c.cfg.Temperature
		req.Temperature = &t
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.Referer != "" {
		headers.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		headers.Set("X-Title", c.cfg.Title)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	content, err := llm.PostChat(ctx, c.http, endpoint, req, headers, c.logger)
	if err != nil {
		return "", fmt.Errorf("openrouter: %w", err)
	}
	return strings.TrimSpace(content), nil
}
