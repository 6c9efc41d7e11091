package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/event-planner/backend/internal/auth"
	"example.com/event-planner/backend/internal/models"
	"example.com/event-planner/backend/internal/repository"
)

type CatalogHandler struct {
	Services *repository.CatalogRepository
}

// NewCatalogHandler создает обработчик каталога услуг.
func NewCatalogHandler(services *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{Services: services}
}

type ServiceRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Category     string  `json:"category" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	Provider     string  `json:"provider" validate:"required,max=200"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=50"`
	ImageURL     *string `json:"image_url" validate:"omitempty,url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// List возвращает каталог услуг с необязательным фильтром category.
func (h *CatalogHandler) List(c echo.Context) error {
	var filter *models.ServiceCategory
	if raw := strings.TrimSpace(c.QueryParam("category")); raw != "" {
		category, ok := models.ParseServiceCategory(strings.ToLower(raw))
		if !ok {
			return badRequest(c, "invalid category")
		}
		filter = &category
	}

	services, err := h.Services.List(c.Request().Context(), filter)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, services)
}

// Get возвращает услугу по идентификатору.
func (h *CatalogHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid service id")
	}

	service, err := h.Services.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Service not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, service)
}

// Create публикует услугу от имени текущего пользователя.
func (h *CatalogHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	input, err := h.bindService(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	service, err := h.Services.Create(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid service")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, service)
}

// Update перезаписывает услугу текущего пользователя.
func (h *CatalogHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid service id")
	}

	input, err := h.bindService(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	service, err := h.Services.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "Service not found")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "invalid service")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, service)
}

// Delete удаляет услугу текущего пользователя.
func (h *CatalogHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid service id")
	}

	if err := h.Services.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Service not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Service deleted successfully"})
}

func (h *CatalogHandler) bindService(c echo.Context) (repository.ServiceInput, error) {
	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return repository.ServiceInput{}, errors.New("invalid payload")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Provider = strings.TrimSpace(req.Provider)
	if err := c.Validate(&req); err != nil {
		return repository.ServiceInput{}, errors.New("validation failed")
	}

	category, ok := models.ParseServiceCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	if !ok {
		return repository.ServiceInput{}, errors.New("invalid category")
	}

	return repository.ServiceInput{
		Name:         req.Name,
		Category:     category,
		Price:        req.Price,
		Description:  trimmedOrNil(req.Description),
		Provider:     req.Provider,
		ContactEmail: trimmedOrNil(req.ContactEmail),
		ContactPhone: trimmedOrNil(req.ContactPhone),
		ImageURL:     trimmedOrNil(req.ImageURL),
	}, nil
}
