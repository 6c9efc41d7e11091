package models

import (
	"time"

	"github.com/google/uuid"
)

type SpendingStyle string

type ServiceCategory string

type AuthProvider string

const (
	SpendingStyleValue    SpendingStyle = "value"
	SpendingStyleBalanced SpendingStyle = "balanced"
	SpendingStylePremium  SpendingStyle = "premium"

	ServiceCategoryCatering    ServiceCategory = "catering"
	ServiceCategoryDecoration  ServiceCategory = "decoration"
	ServiceCategoryPhotography ServiceCategory = "photography"
	ServiceCategoryMusic       ServiceCategory = "music"
	ServiceCategoryVenue       ServiceCategory = "venue"
	ServiceCategoryOther       ServiceCategory = "other"

	AuthProviderCredentials AuthProvider = "credentials"
	AuthProviderGoogle      AuthProvider = "google"
)

// ParseSpendingStyle возвращает стиль трат и признак того, что значение известно.
func ParseSpendingStyle(value string) (SpendingStyle, bool) {
	switch SpendingStyle(value) {
	case SpendingStyleValue, SpendingStyleBalanced, SpendingStylePremium:
		return SpendingStyle(value), true
	default:
		return "", false
	}
}

// ParseServiceCategory проверяет категорию услуги.
func ParseServiceCategory(value string) (ServiceCategory, bool) {
	switch ServiceCategory(value) {
	case ServiceCategoryCatering, ServiceCategoryDecoration, ServiceCategoryPhotography,
		ServiceCategoryMusic, ServiceCategoryVenue, ServiceCategoryOther:
		return ServiceCategory(value), true
	default:
		return "", false
	}
}

type User struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	Image        *string      `json:"image,omitempty"`
	Provider     AuthProvider `json:"provider"`
	ProviderID   *string      `json:"provider_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// EventPlan is the normalized AI plan stored with an event.
type EventPlan struct {
	Suggestions     []string       `json:"suggestions"`
	EstimatedCost   float64        `json:"estimatedCost"`
	Breakdown       []PlanCategory `json:"breakdown"`
	Recommendations []string       `json:"recommendations"`
}

type PlanCategory struct {
	Category      string     `json:"category"`
	Items         []PlanItem `json:"items"`
	EstimatedCost float64    `json:"estimatedCost"`
}

type PlanItem struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
	Notes  string  `json:"notes,omitempty"`
}

type Event struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             uuid.UUID     `json:"user_id"`
	Name               string        `json:"name"`
	EventType          string        `json:"event_type"`
	NumberOfGuests     int           `json:"number_of_guests"`
	AgeRange           string        `json:"age_range"`
	GenderDistribution string        `json:"gender_distribution"`
	Location           string        `json:"location"`
	EventDate          time.Time     `json:"event_date"`
	Budget             *float64      `json:"budget,omitempty"`
	Currency           string        `json:"currency"`
	SpendingStyle      SpendingStyle `json:"spending_style"`
	Preferences        *string       `json:"preferences,omitempty"`
	EstimatedCost      *float64      `json:"estimated_cost,omitempty"`
	AIPlan             *EventPlan    `json:"ai_plan,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

type Service struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     ServiceCategory `json:"category"`
	Price        float64         `json:"price"`
	Description  *string         `json:"description,omitempty"`
	Provider     string          `json:"provider"`
	ProviderID   *uuid.UUID      `json:"provider_id,omitempty"`
	ContactEmail *string         `json:"contact_email,omitempty"`
	ContactPhone *string         `json:"contact_phone,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
