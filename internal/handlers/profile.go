package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"example.com/event-planner/backend/internal/auth"
	"example.com/event-planner/backend/internal/models"
	"example.com/event-planner/backend/internal/repository"
)

const (
	profileNameMin = 2
	profileNameMax = 80
	maxImageBytes  = 2 * 1024 * 1024
	imageURIPrefix = "data:image/"
)

type ProfileHandler struct {
	Users  *repository.UserRepository
	Tokens *repository.RefreshTokenRepository
}

// NewProfileHandler создает обработчик профиля пользователя.
func NewProfileHandler(users *repository.UserRepository, tokens *repository.RefreshTokenRepository) *ProfileHandler {
	return &ProfileHandler{Users: users, Tokens: tokens}
}

type ProfileUpdateRequest struct {
	Name            *string `json:"name"`
	ImageData       *string `json:"imageData"`
	RemoveImage     bool    `json:"removeImage"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
	ConfirmPassword string  `json:"confirmPassword"`
}

type profileError struct {
	message string
}

func (e profileError) Error() string {
	return e.message
}

// Get возвращает профиль текущего пользователя.
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "user not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toAuthUser(user))
}

// Update меняет имя, аватар и пароль пользователя.
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	ctx := c.Request().Context()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "user not found")
		}
		return serverError(c)
	}

	update, err := buildProfileUpdate(req, user)
	if err != nil {
		var perr profileError
		if errors.As(err, &perr) {
			return badRequest(c, perr.message)
		}
		return serverError(c)
	}

	updated, err := h.Users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "user not found")
		}
		return serverError(c)
	}

	if update.PasswordHash != nil {
		if _, err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
			slog.Warn("revoke refresh tokens after password change", slog.String("user_id", userID.String()), slog.Any("error", err))
		}
	}

	return c.JSON(http.StatusOK, toAuthUser(updated))
}

// buildProfileUpdate проверяет запрос и собирает изменения профиля.
// Аватар и пароль меняются только у пользователей с паролем.
func buildProfileUpdate(req ProfileUpdateRequest, user models.User) (repository.ProfileUpdate, error) {
	var update repository.ProfileUpdate

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return update, profileError{"Name cannot be empty"}
		}
		if length := utf8.RuneCountInString(name); length < profileNameMin || length > profileNameMax {
			return update, profileError{"Name must be between 2 and 80 characters"}
		}
		update.Name = &name
	}

	if user.Provider != models.AuthProviderCredentials {
		return update, nil
	}

	switch {
	case req.RemoveImage:
		update.RemoveImage = true
	case req.ImageData != nil && *req.ImageData != "":
		image := *req.ImageData
		if !strings.HasPrefix(image, imageURIPrefix) {
			return update, profileError{"Invalid image format"}
		}
		if decodedSize(image) > maxImageBytes {
			return update, profileError{"Image must be 2MB or smaller"}
		}
		update.Image = &image
	}

	if req.NewPassword == "" {
		return update, nil
	}

	if req.CurrentPassword == "" {
		return update, profileError{"Current password is required"}
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return update, profileError{err.Error()}
	}
	if req.NewPassword != req.ConfirmPassword {
		return update, profileError{"Passwords do not match"}
	}
	if err := auth.ComparePassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return update, profileError{"Current password is incorrect"}
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return update, err
	}
	update.PasswordHash = &hash

	return update, nil
}

// decodedSize оценивает размер base64-данных после декодирования.
func decodedSize(dataURI string) int {
	payload := dataURI
	if idx := strings.IndexByte(dataURI, ','); idx >= 0 {
		payload = dataURI[idx+1:]
	}
	return (len(payload)*3 + 3) / 4
}
