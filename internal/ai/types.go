package ai

import "example.com/event-planner/backend/internal/models"

const (
	LanguageSpanish = "es"
	LanguageEnglish = "en"
)

// EventPlanRequest содержит параметры события для построения промпта.
type EventPlanRequest struct {
	EventType          string               `json:"eventType"`
	NumberOfGuests     int                  `json:"numberOfGuests"`
	AgeRange           string               `json:"ageRange"`
	GenderDistribution string               `json:"genderDistribution"`
	Location           string               `json:"location"`
	Name               string               `json:"name,omitempty"`
	EventDate          string               `json:"eventDate,omitempty"`
	Budget             *float64             `json:"budget,omitempty"`
	Preferences        string               `json:"preferences,omitempty"`
	Currency           string               `json:"currency,omitempty"`
	SpendingStyle      models.SpendingStyle `json:"spendingStyle,omitempty"`
}

// PlanPrompt is the rendered instruction plus the language it was written in.
type PlanPrompt struct {
	Text     string
	Language string
	Locale   string
}
