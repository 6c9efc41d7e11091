package ai

import "context"

const (
	defaultMaxTokens = 8192
	temperature      = 0.2
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client отправляет сообщения внешней модели и возвращает текст и сырой ответ API.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, []byte, error)
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
