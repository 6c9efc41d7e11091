package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"example.com/event-planner/backend/internal/models"
)

// ErrNoJSON означает, что в ответе модели нет разбираемого JSON-объекта.
var ErrNoJSON = errors.New("ai response does not contain json")

const systemInstruction = "You are an event planning assistant. Respond with JSON only, without extra text."

const fallbackSuggestion = "Configure GEMINI_API_KEY to enable AI planning"

// Plan sources reported in logs and metrics.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// PlanResult описывает результат одной генерации плана.
type PlanResult struct {
	Plan   models.EventPlan
	Prompt PlanPrompt
	Raw    []byte
	Source string
}

type Service struct {
	client   Client
	provider string
	model    string
}

// NewService создает сервис генерации планов. nil-клиент включает план-заглушку.
func NewService(client Client, provider, model string) *Service {
	return &Service{client: client, provider: provider, model: model}
}

// Provider возвращает имя настроенного провайдера.
func (s *Service) Provider() string {
	return s.provider
}

// Model возвращает имя модели провайдера.
func (s *Service) Model() string {
	return s.model
}

// Enabled сообщает, настроен ли внешний клиент.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// GeneratePlan строит промпт, вызывает модель и нормализует ответ.
// Ошибки провайдера возвращаются без повторов.
func (s *Service) GeneratePlan(ctx context.Context, req EventPlanRequest, language string) (PlanResult, error) {
	prompt := BuildPrompt(req, language)
	result := PlanResult{Prompt: prompt, Source: SourceModel}

	if s.client == nil {
		result.Plan = FallbackPlan()
		result.Source = SourceFallback
		return result, nil
	}

	messages := []Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: prompt.Text},
	}

	content, raw, err := s.client.Chat(ctx, messages)
	result.Raw = raw
	if err != nil {
		return result, err
	}

	payload := extractJSON(content)
	if payload == "" {
		return result, ErrNoJSON
	}
	if !gjson.Valid(payload) {
		return result, fmt.Errorf("%w: invalid json block", ErrNoJSON)
	}

	result.Plan = NormalizePlan([]byte(payload))
	return result, nil
}

// FallbackPlan возвращает план, который отдается без настроенного ключа AI.
func FallbackPlan() models.EventPlan {
	return NormalizePlan([]byte(`{"suggestions":["` + fallbackSuggestion + `"],"estimatedCost":0,"breakdown":[],"recommendations":[]}`))
}

// extractJSON снимает markdown-ограждение и вырезает блок от первой "{" до последней "}".
func extractJSON(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return trimmed[start : end+1]
}
