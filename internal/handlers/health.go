package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthTimeout = 2 * time.Second

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	AI       string `json:"ai,omitempty"`
}

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB        pinger
	AIEnabled bool
}

// NewHealthHandler создает обработчик проверки состояния.
func NewHealthHandler(db pinger, aiEnabled bool) *HealthHandler {
	return &HealthHandler{DB: db, AIEnabled: aiEnabled}
}

// Health возвращает статус сервиса и базы данных.
func (h *HealthHandler) Health(c echo.Context) error {
	response := HealthResponse{Status: "ok", AI: "fallback"}
	if h.AIEnabled {
		response.AI = "enabled"
	}

	if h.DB == nil {
		return c.JSON(http.StatusOK, response)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "unavailable"
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	response.Database = "ok"
	return c.JSON(http.StatusOK, response)
}
