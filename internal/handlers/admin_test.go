package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/event-planner/backend/internal/auth"
)

func runAdminMiddleware(t *testing.T, emails []string, tokenEmail string) int {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(auth.ContextUserIDKey, uuid.New())
	c.Set(auth.ContextEmailKey, tokenEmail)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}

	require.NoError(t, AdminMiddleware(nil, emails)(next)(c))
	return rec.Code
}

func TestAdminMiddlewareUsesTokenEmail(t *testing.T) {
	emails := []string{" Admin@Example.com ", ""}

	assert.Equal(t, http.StatusNoContent, runAdminMiddleware(t, emails, "admin@example.com"))
	assert.Equal(t, http.StatusForbidden, runAdminMiddleware(t, emails, "guest@example.com"))
	assert.Equal(t, http.StatusForbidden, runAdminMiddleware(t, nil, "admin@example.com"))
}
