package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"example.com/event-planner/backend/internal/models"
)

func floatPtr(value float64) *float64 {
	return &value
}

// TestResolveLanguage проверяет выбор языка промпта.
func TestResolveLanguage(t *testing.T) {
	cases := map[string]string{
		"":      LanguageSpanish,
		"es":    LanguageSpanish,
		"es-CL": LanguageSpanish,
		"ES":    LanguageSpanish,
		"en":    LanguageEnglish,
		"en-US": LanguageEnglish,
		"pt":    LanguageEnglish,
		"???":   LanguageEnglish,
	}

	for input, want := range cases {
		assert.Equal(t, want, ResolveLanguage(input), input)
	}
}

// TestSeasonFor проверяет сезоны южного полушария.
func TestSeasonFor(t *testing.T) {
	assert.Equal(t, seasonSummer, seasonFor(time.January))
	assert.Equal(t, seasonAutumn, seasonFor(time.March))
	assert.Equal(t, seasonAutumn, seasonFor(time.May))
	assert.Equal(t, seasonWinter, seasonFor(time.July))
	assert.Equal(t, seasonSpring, seasonFor(time.October))
	assert.Equal(t, seasonSummer, seasonFor(time.December))
}

// TestBuildPromptSpanishDefaults проверяет значения по умолчанию в испанском промпте.
func TestBuildPromptSpanishDefaults(t *testing.T) {
	prompt := BuildPrompt(EventPlanRequest{
		EventType:          "Cumpleaños",
		NumberOfGuests:     20,
		AgeRange:           "25-35",
		GenderDistribution: "mixto",
	}, "")

	assert.Equal(t, LanguageSpanish, prompt.Language)
	assert.Equal(t, "es-CL", prompt.Locale)
	assert.Contains(t, prompt.Text, "Tipo de evento: Cumpleaños")
	assert.Contains(t, prompt.Text, "Número de invitados: 20")
	assert.Contains(t, prompt.Text, "Ubicación del evento: Chile")
	assert.Contains(t, prompt.Text, "Fecha del evento: Por definir")
	assert.Contains(t, prompt.Text, "Sin fecha precisa")
	assert.Contains(t, prompt.Text, "(moneda CLP): Sin límite específico")
	assert.Contains(t, prompt.Text, "Nombre del evento: Evento personalizado")
	assert.Contains(t, prompt.Text, "Preferencias especiales: Ninguna específica")
	assert.Contains(t, prompt.Text, spendingMessages[models.SpendingStyleBalanced].rule.es)
	assert.Contains(t, prompt.Text, `"recommendations": ["recomendación1", "recomendación2"]`)
}

// TestBuildPromptSpanishDate проверяет локализованную дату и сезон.
func TestBuildPromptSpanishDate(t *testing.T) {
	prompt := BuildPrompt(EventPlanRequest{
		EventType: "Matrimonio",
		EventDate: "2024-12-14",
	}, "es")

	assert.Contains(t, prompt.Text, "Fecha del evento: sábado, 14 de diciembre de 2024")
	assert.Contains(t, prompt.Text, seasonHints[seasonSummer].es)
}

// TestBuildPromptEnglish проверяет английский промпт с бюджетом и стилем трат.
func TestBuildPromptEnglish(t *testing.T) {
	prompt := BuildPrompt(EventPlanRequest{
		EventType:      "Wedding",
		NumberOfGuests: 80,
		Location:       "Valparaíso",
		Name:           "Ana & Luis",
		EventDate:      "2025-07-05T18:00:00Z",
		Budget:         floatPtr(150000),
		Currency:       "usd",
		SpendingStyle:  models.SpendingStylePremium,
		Preferences:    "vegetarian menu",
	}, "en-GB")

	assert.Equal(t, LanguageEnglish, prompt.Language)
	assert.Equal(t, "en-US", prompt.Locale)
	assert.Contains(t, prompt.Text, "Event date: Saturday, July 5, 2025")
	assert.Contains(t, prompt.Text, seasonHints[seasonWinter].en)
	assert.Contains(t, prompt.Text, "Budget (currency USD):")
	assert.Contains(t, prompt.Text, "150.000")
	assert.NotContains(t, prompt.Text, "150,000")
	assert.Contains(t, prompt.Text, "Event location: Valparaíso")
	assert.Contains(t, prompt.Text, "Event name: Ana & Luis")
	assert.Contains(t, prompt.Text, "Preferences: vegetarian menu")
	assert.Contains(t, prompt.Text, spendingMessages[models.SpendingStylePremium].label.en)
}

// TestBuildPromptInvalidInputs проверяет неизвестные дату, валюту и стиль.
func TestBuildPromptInvalidInputs(t *testing.T) {
	prompt := BuildPrompt(EventPlanRequest{
		EventType:     "Party",
		EventDate:     "next friday",
		Budget:        floatPtr(0),
		Currency:      "zzz",
		SpendingStyle: "lavish",
	}, "en")

	assert.Contains(t, prompt.Text, "Event date: To be confirmed")
	assert.Contains(t, prompt.Text, "Budget (currency ZZZ): No specific limit")
	assert.Contains(t, prompt.Text, spendingMessages[models.SpendingStyleBalanced].label.en)
	assert.Equal(t, "ZZZ 1.500.000", budgetPhrase(floatPtr(1500000), "ZZZ", LanguageEnglish))
}
