package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	content  string
	raw      []byte
	err      error
	messages []Message
}

func (c *stubClient) Chat(_ context.Context, messages []Message) (string, []byte, error) {
	c.messages = messages
	return c.content, c.raw, c.err
}

// TestGeneratePlanNormalizesFencedResponse проверяет разбор ответа в markdown-ограждении.
func TestGeneratePlanNormalizesFencedResponse(t *testing.T) {
	client := &stubClient{
		content: "```json\n{\"suggestions\":[\"DJ\"],\"estimatedCost\":120000,\"recommendations\":[{\"title\":\"Use local flowers\",\"argument\":\"**Cheaper** and _fresher_\"}]}\n```",
		raw:     []byte(`{"id":"resp"}`),
	}
	service := NewService(client, "gemini", "gemini-2.0-flash")

	result, err := service.GeneratePlan(context.Background(), EventPlanRequest{EventType: "Boda"}, "es")

	require.NoError(t, err)
	assert.Equal(t, SourceModel, result.Source)
	assert.Equal(t, []string{"DJ"}, result.Plan.Suggestions)
	assert.Equal(t, 120000.0, result.Plan.EstimatedCost)
	assert.Equal(t, []string{"Use local flowers: Cheaper and fresher"}, result.Plan.Recommendations)
	assert.Equal(t, []byte(`{"id":"resp"}`), result.Raw)
	assert.Equal(t, LanguageSpanish, result.Prompt.Language)

	require.Len(t, client.messages, 2)
	assert.Equal(t, "system", client.messages[0].Role)
	assert.Equal(t, result.Prompt.Text, client.messages[1].Content)
}

// TestGeneratePlanWithoutJSON проверяет ошибку при ответе без JSON.
func TestGeneratePlanWithoutJSON(t *testing.T) {
	service := NewService(&stubClient{content: "Lo siento, no puedo ayudar."}, "groq", "llama")

	_, err := service.GeneratePlan(context.Background(), EventPlanRequest{}, "en")

	assert.ErrorIs(t, err, ErrNoJSON)
}

// TestGeneratePlanInvalidJSON проверяет ошибку при битом JSON-блоке.
func TestGeneratePlanInvalidJSON(t *testing.T) {
	service := NewService(&stubClient{content: `here {"suggestions": [} there`}, "groq", "llama")

	_, err := service.GeneratePlan(context.Background(), EventPlanRequest{}, "en")

	assert.ErrorIs(t, err, ErrNoJSON)
}

// TestGeneratePlanUpstreamError проверяет, что ошибка провайдера возвращается как есть.
func TestGeneratePlanUpstreamError(t *testing.T) {
	upstream := errors.New("quota exceeded")
	client := &stubClient{err: upstream, raw: []byte(`{"error":"quota"}`)}
	service := NewService(client, "gemini", "gemini-2.0-flash")

	result, err := service.GeneratePlan(context.Background(), EventPlanRequest{}, "es")

	assert.Same(t, upstream, err)
	assert.Equal(t, []byte(`{"error":"quota"}`), result.Raw)
	assert.NotEmpty(t, result.Prompt.Text)
}

// TestGeneratePlanFallback проверяет план-заглушку без клиента.
func TestGeneratePlanFallback(t *testing.T) {
	service := NewService(nil, "gemini", "gemini-2.0-flash")

	result, err := service.GeneratePlan(context.Background(), EventPlanRequest{EventType: "Fiesta"}, "es")

	require.NoError(t, err)
	assert.False(t, service.Enabled())
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, []string{fallbackSuggestion}, result.Plan.Suggestions)
	assert.Empty(t, result.Plan.Breakdown)
	assert.Zero(t, result.Plan.EstimatedCost)
}

// TestExtractJSON проверяет вырезание JSON-блока.
func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSON(`Aquí está: {"a":{"b":2}} ¡Listo!`))
	assert.Equal(t, "", extractJSON("no json"))
	assert.Equal(t, "", extractJSON("} {"))
	assert.Equal(t, "", extractJSON("   "))
}
