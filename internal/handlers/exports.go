package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/event-planner/backend/internal/auth"
	"example.com/event-planner/backend/internal/models"
	"example.com/event-planner/backend/internal/repository"
)

const (
	exportFormatJSON = "json"
	exportFormatCSV  = "csv"
)

type PlanExport struct {
	EventID   string           `json:"event_id"`
	EventName string           `json:"event_name"`
	EventType string           `json:"event_type"`
	EventDate string           `json:"event_date"`
	Currency  string           `json:"currency"`
	Plan      models.EventPlan `json:"plan"`
}

// ExportPlan выгружает сохраненный план события в JSON или CSV.
func (h *PlanHandler) ExportPlan(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	format := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	if format == "" {
		format = exportFormatJSON
	}
	if format != exportFormatJSON && format != exportFormatCSV {
		return badRequest(c, "invalid export format")
	}

	event, err := h.Events.GetByID(c.Request().Context(), userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Event not found")
		}
		return serverError(c)
	}

	if event.AIPlan == nil {
		return notFound(c, "plan not found")
	}

	filename := "event-" + event.ID.String() + "-plan." + format
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")

	if format == exportFormatJSON {
		return c.JSON(http.StatusOK, PlanExport{
			EventID:   event.ID.String(),
			EventName: event.Name,
			EventType: event.EventType,
			EventDate: event.EventDate.Format(timeLayout),
			Currency:  event.Currency,
			Plan:      *event.AIPlan,
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writePlanCSV(writer, event); err != nil {
		return serverError(c)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// writePlanCSV пишет по строке на позицию плана; категории без позиций выводятся отдельной строкой.
func writePlanCSV(writer *csv.Writer, event models.Event) error {
	header := []string{
		"event_id",
		"event_name",
		"category",
		"category_estimated_cost",
		"item",
		"price",
		"source",
		"notes",
		"currency",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, category := range event.AIPlan.Breakdown {
		base := []string{
			event.ID.String(),
			event.Name,
			category.Category,
			formatAmount(category.EstimatedCost),
		}

		if len(category.Items) == 0 {
			record := append(append([]string{}, base...), "", "", "", "", event.Currency)
			if err := writer.Write(record); err != nil {
				return err
			}
			continue
		}

		for _, item := range category.Items {
			record := append(append([]string{}, base...),
				item.Name,
				formatAmount(item.Price),
				item.Source,
				item.Notes,
				event.Currency,
			)
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return writer.Write([]string{
		event.ID.String(),
		event.Name,
		"total",
		formatAmount(event.AIPlan.EstimatedCost),
		"",
		"",
		"",
		strconv.Itoa(len(event.AIPlan.Breakdown)) + " categories",
		event.Currency,
	})
}

func formatAmount(value float64) string {
	return decimal.NewFromFloat(value).String()
}
