package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LLMClient talks to an OpenAI-compatible chat-completions endpoint.
type LLMClient struct {
	*BaseClient
	endpoint string
	apiKey   string
	model    string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewLLMClient(endpoint, apiKey, model string, config ClientConfig, logger *zap.Logger) *LLMClient {
	return &LLMClient{
		BaseClient: NewBaseClient("llm", config, logger),
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
	}
}

// Configured reports whether the client has an endpoint and key to call.
func (c *LLMClient) Configured() bool {
	return c.endpoint != "" && c.apiKey != ""
}

// Complete sends a system + user prompt pair and returns the model's reply.
func (c *LLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("llm client not configured")
	}

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	var resp chatCompletionResponse
	if err := c.PostJSON(ctx, c.endpoint+"/chat/completions", headers, payload, &resp); err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
