package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// GroqClient вызывает OpenAI-совместимый chat completions API Groq.
type GroqClient struct {
	http      *resty.Client
	model     string
	maxTokens int
}

type groqChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type groqChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type groqErrorResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewGroqClient создает клиент Groq с заданными параметрами.
func NewGroqClient(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) *GroqClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &GroqClient{
		http:      client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Chat отправляет сообщения в Groq и возвращает текст ответа и сырой ответ API.
func (c *GroqClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if strings.TrimSpace(c.http.Token) == "" {
		return "", nil, errors.New("groq api key is missing")
	}

	var parsed groqChatResponse
	var apiErr groqErrorResponse

	response, err := c.http.R().
		SetContext(ctx).
		SetBody(groqChatRequest{
			Model:          c.model,
			Messages:       messages,
			Temperature:    temperature,
			MaxTokens:      resolveMaxTokens(c.maxTokens),
			ResponseFormat: &responseFormat{Type: "json_object"},
		}).
		SetResult(&parsed).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", nil, fmt.Errorf("groq request: %w", err)
	}

	body := response.Body()
	if response.IsError() {
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			return "", body, fmt.Errorf("groq api error: %s", apiErr.Error.Message)
		}
		return "", body, fmt.Errorf("groq api error: %s", strings.TrimSpace(string(body)))
	}

	if len(parsed.Choices) == 0 {
		return "", body, errors.New("groq response missing choices")
	}

	return parsed.Choices[0].Message.Content, body, nil
}
