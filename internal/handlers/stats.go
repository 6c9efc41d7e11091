package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"example.com/event-planner/backend/internal/auth"
	"example.com/event-planner/backend/internal/repository"
)

type StatsHandler struct {
	Stats *repository.StatsRepository
}

// NewStatsHandler создает обработчик статистики.
func NewStatsHandler(stats *repository.StatsRepository) *StatsHandler {
	return &StatsHandler{Stats: stats}
}

type OverviewResponse struct {
	TotalEvents        int     `json:"total_events"`
	UpcomingEvents     int     `json:"upcoming_events"`
	PastEvents         int     `json:"past_events"`
	EventsWithPlan     int     `json:"events_with_plan"`
	TotalGuests        int     `json:"total_guests"`
	TotalBudget        float64 `json:"total_budget"`
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
}

type CategoryCostResponse struct {
	Categories []CategoryCostItem `json:"categories"`
}

type CategoryCostItem struct {
	Category      string  `json:"category"`
	EstimatedCost float64 `json:"estimated_cost"`
	Items         int     `json:"items"`
	Events        int     `json:"events"`
}

type MonthlyResponse struct {
	Months []MonthlyItem `json:"months"`
}

type MonthlyItem struct {
	Month         string  `json:"month"`
	Events        int     `json:"events"`
	Budget        float64 `json:"budget"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Overview возвращает сводную статистику по событиям.
func (h *StatsHandler) Overview(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	stats, err := h.Stats.Overview(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, OverviewResponse{
		TotalEvents:        stats.TotalEvents,
		UpcomingEvents:     stats.UpcomingEvents,
		PastEvents:         stats.PastEvents,
		EventsWithPlan:     stats.EventsWithPlan,
		TotalGuests:        stats.TotalGuests,
		TotalBudget:        stats.TotalBudget,
		TotalEstimatedCost: stats.TotalEstimatedCost,
	})
}

// CostByCategory возвращает оценку стоимости по категориям сохраненных планов.
func (h *StatsHandler) CostByCategory(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := h.Stats.CostByCategory(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	categories := make([]CategoryCostItem, 0, len(items))
	for _, item := range items {
		categories = append(categories, CategoryCostItem{
			Category:      item.Category,
			EstimatedCost: item.EstimatedCost,
			Items:         item.Items,
			Events:        item.Events,
		})
	}

	return c.JSON(http.StatusOK, CategoryCostResponse{Categories: categories})
}

// Monthly возвращает события и суммы по месяцам.
func (h *StatsHandler) Monthly(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	months := 6
	if raw := c.QueryParam("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid months")
		}
		if parsed > 24 {
			parsed = 24
		}
		months = parsed
	}

	items, err := h.Stats.Monthly(c.Request().Context(), userID, months)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid months")
		}
		return serverError(c)
	}

	response := make([]MonthlyItem, 0, len(items))
	for _, item := range items {
		response = append(response, MonthlyItem{
			Month:         item.Month,
			Events:        item.Events,
			Budget:        item.Budget,
			EstimatedCost: item.EstimatedCost,
		})
	}

	return c.JSON(http.StatusOK, MonthlyResponse{Months: response})
}
