package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/event-planner/backend/internal/ai"
	"example.com/event-planner/backend/internal/auth"
	"example.com/event-planner/backend/internal/metrics"
	"example.com/event-planner/backend/internal/models"
	"example.com/event-planner/backend/internal/notifications"
	"example.com/event-planner/backend/internal/repository"
)

type planGenerator interface {
	GeneratePlan(ctx context.Context, req ai.EventPlanRequest, language string) (ai.PlanResult, error)
	Provider() string
	Model() string
}

type planStore interface {
	GetByID(ctx context.Context, userID, eventID uuid.UUID) (models.Event, error)
	SavePlan(ctx context.Context, userID, eventID uuid.UUID, plan models.EventPlan) (models.Event, error)
}

type aiRequestLogger interface {
	LogRequest(ctx context.Context, log repository.AIRequestLog) error
}

type PlanHandler struct {
	Generator       planGenerator
	Events          planStore
	AIRepo          aiRequestLogger
	Notifier        *notifications.Hub
	Metrics         *metrics.Metrics
	DefaultLanguage string
}

// NewPlanHandler создает обработчик генерации AI-планов.
func NewPlanHandler(generator planGenerator, events planStore, aiRepo aiRequestLogger, notifier *notifications.Hub, m *metrics.Metrics, defaultLanguage string) *PlanHandler {
	return &PlanHandler{
		Generator:       generator,
		Events:          events,
		AIRepo:          aiRepo,
		Notifier:        notifier,
		Metrics:         m,
		DefaultLanguage: defaultLanguage,
	}
}

type GeneratePlanRequest struct {
	Language string `json:"language"`
}

// Generate строит AI-план для события и сохраняет его вместо предыдущего.
func (h *PlanHandler) Generate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	var req GeneratePlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = h.DefaultLanguage
	}

	ctx := c.Request().Context()

	event, err := h.Events.GetByID(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Event not found")
		}
		return serverError(c)
	}

	planRequest := eventPlanRequest(event)
	requestPayload, _ := json.Marshal(planRequest)

	started := time.Now()
	result, err := h.Generator.GeneratePlan(ctx, planRequest, language)
	elapsed := time.Since(started)

	if err != nil {
		h.logAIRequest(ctx, userID, eventID, result, requestPayload, nil, err)
		h.Metrics.ObservePlan(h.Generator.Provider(), metrics.OutcomeError, elapsed, 0)
		slog.Error("ai plan failed",
			slog.String("event_id", eventID.String()),
			slog.String("user_id", userID.String()),
			slog.String("provider", h.Generator.Provider()),
			slog.Any("error", err),
		)
		publishPlanFailed(h.Notifier, userID, eventID)
		return serverError(c)
	}

	if _, err := h.Events.SavePlan(ctx, userID, eventID, result.Plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Event not found")
		}
		h.logAIRequest(ctx, userID, eventID, result, requestPayload, nil, err)
		h.Metrics.ObservePlan(h.Generator.Provider(), metrics.OutcomeError, elapsed, 0)
		slog.Error("save event plan", slog.String("event_id", eventID.String()), slog.Any("error", err))
		publishPlanFailed(h.Notifier, userID, eventID)
		return serverError(c)
	}

	responsePayload, _ := json.Marshal(result.Plan)
	h.logAIRequest(ctx, userID, eventID, result, requestPayload, responsePayload, nil)

	outcome := metrics.OutcomeSuccess
	message := "ai plan generated"
	if result.Source == ai.SourceFallback {
		outcome = metrics.OutcomeFallback
		message = "ai fallback plan used"
	}
	h.Metrics.ObservePlan(h.Generator.Provider(), outcome, elapsed, result.Plan.EstimatedCost)
	slog.Info(message,
		slog.String("event_id", eventID.String()),
		slog.String("user_id", userID.String()),
		slog.String("plan_source", result.Source),
		slog.String("language", result.Prompt.Language),
		slog.Float64("estimated_cost", result.Plan.EstimatedCost),
	)

	publishPlanGenerated(h.Notifier, userID, notifications.PlanGenerated{
		EventID:       eventID,
		EstimatedCost: result.Plan.EstimatedCost,
		Categories:    len(result.Plan.Breakdown),
		Source:        result.Source,
	})

	return c.JSON(http.StatusOK, result.Plan)
}

func (h *PlanHandler) logAIRequest(ctx context.Context, userID, eventID uuid.UUID, result ai.PlanResult, requestPayload, responsePayload []byte, err error) {
	if h.AIRepo == nil {
		return
	}

	log := repository.AIRequestLog{
		UserID:          userID,
		EventID:         &eventID,
		RequestType:     repository.RequestTypeEventPlan,
		Provider:        h.Generator.Provider(),
		Model:           h.Generator.Model(),
		Language:        result.Prompt.Language,
		Prompt:          result.Prompt.Text,
		RequestPayload:  requestPayload,
		ResponsePayload: responsePayload,
		RawResponse:     string(result.Raw),
		Success:         err == nil,
	}
	if result.Source == ai.SourceFallback {
		log.Provider = ai.SourceFallback
	}
	if err != nil {
		errMsg := err.Error()
		log.ErrorMessage = &errMsg
	}

	if logErr := h.AIRepo.LogRequest(ctx, log); logErr != nil {
		slog.Warn("store ai request log", slog.Any("error", logErr))
	}
}

// eventPlanRequest переносит поля события в запрос к генератору плана.
func eventPlanRequest(event models.Event) ai.EventPlanRequest {
	name := event.Name
	if strings.TrimSpace(name) == "" {
		name = event.EventType
	}

	req := ai.EventPlanRequest{
		EventType:          event.EventType,
		NumberOfGuests:     event.NumberOfGuests,
		AgeRange:           event.AgeRange,
		GenderDistribution: event.GenderDistribution,
		Location:           event.Location,
		Name:               name,
		Budget:             event.Budget,
		Currency:           event.Currency,
		SpendingStyle:      event.SpendingStyle,
	}
	if !event.EventDate.IsZero() {
		req.EventDate = event.EventDate.Format(time.RFC3339)
	}
	if event.Preferences != nil {
		req.Preferences = *event.Preferences
	}

	return req
}
