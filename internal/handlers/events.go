package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"

	"example.com/event-planner/backend/internal/auth"
	"example.com/event-planner/backend/internal/models"
	"example.com/event-planner/backend/internal/notifications"
	"example.com/event-planner/backend/internal/repository"
)

const dateLayout = "2006-01-02"

type EventHandler struct {
	Events   *repository.EventRepository
	Notifier *notifications.Hub
	Defaults EventDefaults
}

// EventDefaults задает значения, которые подставляются в пустые поля события.
type EventDefaults struct {
	Location string
	Currency string
}

// NewEventHandler создает обработчик событий.
func NewEventHandler(events *repository.EventRepository, notifier *notifications.Hub, defaults EventDefaults) *EventHandler {
	return &EventHandler{Events: events, Notifier: notifier, Defaults: defaults}
}

// flexibleNumber принимает число, числовую строку или null.
type flexibleNumber struct {
	Set   bool
	Value *float64
}

func (n *flexibleNumber) UnmarshalJSON(data []byte) error {
	n.Set = true
	n.Value = nil

	value := gjson.ParseBytes(data)
	var parsed float64
	switch value.Type {
	case gjson.Number:
		parsed = value.Num
	case gjson.String:
		trimmed := strings.TrimSpace(value.Str)
		if trimmed == "" {
			return nil
		}
		number, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil
		}
		parsed = number
	default:
		return nil
	}

	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	n.Value = &parsed
	return nil
}

type EventRequest struct {
	Name               *string        `json:"name" validate:"omitempty,max=200"`
	EventType          *string        `json:"event_type" validate:"omitempty,max=100"`
	NumberOfGuests     *int           `json:"number_of_guests" validate:"omitempty,min=1,max=100000"`
	AgeRange           *string        `json:"age_range" validate:"omitempty,max=100"`
	GenderDistribution *string        `json:"gender_distribution" validate:"omitempty,max=100"`
	Location           *string        `json:"location" validate:"omitempty,max=200"`
	EventDate          *string        `json:"event_date"`
	Budget             flexibleNumber `json:"budget"`
	Currency           *string        `json:"currency" validate:"omitempty,max=3"`
	SpendingStyle      *string        `json:"spending_style"`
	Preferences        *string        `json:"preferences" validate:"omitempty,max=2000"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type BulkDeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type eventInputError struct {
	message string
}

func (e eventInputError) Error() string {
	return e.message
}

// List возвращает события пользователя, новые первыми.
func (h *EventHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	events, err := h.Events.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, events)
}

// Create создает событие.
func (h *EventHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	input, err := newEventInput(req, h.Defaults)
	if err != nil {
		return badRequest(c, err.Error())
	}

	event, err := h.Events.Create(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid event")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, event)
}

// Get возвращает событие вместе с сохраненным планом.
func (h *EventHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	event, err := h.Events.GetByID(c.Request().Context(), userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Event not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, event)
}

// Update частично обновляет событие.
func (h *EventHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	ctx := c.Request().Context()

	existing, err := h.Events.GetByID(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Event not found")
		}
		return serverError(c)
	}

	input, err := mergeEventInput(existing, req, h.Defaults)
	if err != nil {
		return badRequest(c, err.Error())
	}

	event, err := h.Events.Update(ctx, userID, eventID, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "Event not found")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "invalid event")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, event)
}

// Delete удаляет событие.
func (h *EventHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	if err := h.Events.Delete(c.Request().Context(), userID, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Event not found")
		}
		return serverError(c)
	}

	publishEventDeleted(h.Notifier, userID, eventID)

	return c.NoContent(http.StatusNoContent)
}

// BulkDelete удаляет несколько событий за один запрос.
func (h *EventHandler) BulkDelete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	ids, err := parseEventIDs(req.IDs)
	if err != nil {
		return badRequest(c, err.Error())
	}

	deleted, err := h.Events.BulkDelete(c.Request().Context(), userID, ids)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "No event ids provided")
		}
		return serverError(c)
	}

	for _, id := range ids {
		publishEventDeleted(h.Notifier, userID, id)
	}

	return c.JSON(http.StatusOK, BulkDeleteResponse{DeletedCount: deleted})
}

func parseEventIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, eventInputError{"No event ids provided"}
	}

	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, eventInputError{"invalid event id"}
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}

// newEventInput собирает данные нового события и подставляет значения по умолчанию.
func newEventInput(req EventRequest, defaults EventDefaults) (repository.EventInput, error) {
	var input repository.EventInput

	name := trimmedOrNil(req.Name)
	if name == nil {
		return input, eventInputError{"Event name is required"}
	}
	input.Name = *name

	eventType := trimmedOrNil(req.EventType)
	if eventType == nil {
		return input, eventInputError{"Event type is required"}
	}
	input.EventType = *eventType

	if req.NumberOfGuests == nil || *req.NumberOfGuests < 1 {
		return input, eventInputError{"Number of guests must be at least 1"}
	}
	input.NumberOfGuests = *req.NumberOfGuests

	if req.EventDate == nil || strings.TrimSpace(*req.EventDate) == "" {
		return input, eventInputError{"Event date is required"}
	}
	date, err := parseEventDate(*req.EventDate)
	if err != nil {
		return input, eventInputError{"Invalid event date"}
	}
	input.EventDate = date

	input.AgeRange = stringValue(trimmedOrNil(req.AgeRange))
	input.GenderDistribution = stringValue(trimmedOrNil(req.GenderDistribution))
	input.Location = withFallback(trimmedOrNil(req.Location), defaults.Location)
	input.Currency = normalizeCurrency(req.Currency, defaults.Currency)
	input.SpendingStyle = resolveSpendingStyle(req.SpendingStyle, models.SpendingStyleBalanced)
	input.Budget = req.Budget.Value
	input.Preferences = trimmedOrNil(req.Preferences)

	return input, nil
}

// mergeEventInput применяет частичное обновление поверх сохраненного события.
func mergeEventInput(existing models.Event, req EventRequest, defaults EventDefaults) (repository.EventInput, error) {
	input := repository.EventInput{
		Name:               existing.Name,
		EventType:          existing.EventType,
		NumberOfGuests:     existing.NumberOfGuests,
		AgeRange:           existing.AgeRange,
		GenderDistribution: existing.GenderDistribution,
		Location:           existing.Location,
		EventDate:          existing.EventDate,
		Budget:             existing.Budget,
		Currency:           existing.Currency,
		SpendingStyle:      existing.SpendingStyle,
		Preferences:        existing.Preferences,
	}

	if req.Name != nil {
		name := trimmedOrNil(req.Name)
		if name == nil {
			return input, eventInputError{"Event name cannot be empty"}
		}
		input.Name = *name
	}
	if eventType := trimmedOrNil(req.EventType); eventType != nil {
		input.EventType = *eventType
	}
	if req.NumberOfGuests != nil {
		input.NumberOfGuests = *req.NumberOfGuests
	}
	if req.AgeRange != nil {
		input.AgeRange = strings.TrimSpace(*req.AgeRange)
	}
	if req.GenderDistribution != nil {
		input.GenderDistribution = strings.TrimSpace(*req.GenderDistribution)
	}
	if req.Location != nil {
		input.Location = withFallback(trimmedOrNil(req.Location), defaults.Location)
	}
	if req.EventDate != nil {
		date, err := parseEventDate(*req.EventDate)
		if err != nil {
			return input, eventInputError{"Invalid event date"}
		}
		input.EventDate = date
	}
	if req.Budget.Set {
		input.Budget = req.Budget.Value
	}
	if req.Currency != nil {
		input.Currency = normalizeCurrency(req.Currency, defaults.Currency)
	}
	if req.SpendingStyle != nil {
		input.SpendingStyle = resolveSpendingStyle(req.SpendingStyle, existing.SpendingStyle)
	}
	if req.Preferences != nil {
		input.Preferences = trimmedOrNil(req.Preferences)
	}

	return input, nil
}

func parseEventDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, dateLayout} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("invalid date")
}

func resolveSpendingStyle(value *string, fallback models.SpendingStyle) models.SpendingStyle {
	if value == nil {
		return fallback
	}
	if style, ok := models.ParseSpendingStyle(strings.ToLower(strings.TrimSpace(*value))); ok {
		return style
	}
	return fallback
}

func normalizeCurrency(value *string, fallback string) string {
	if trimmed := trimmedOrNil(value); trimmed != nil {
		return strings.ToUpper(*trimmed)
	}
	return fallback
}

func withFallback(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
