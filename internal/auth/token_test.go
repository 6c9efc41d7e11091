package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TestTokenPairRoundTrip проверяет выпуск и разбор пары токенов.
func TestTokenPairRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", "event-planner", time.Minute, time.Hour)
	userID := uuid.New()
	refreshID := uuid.New()

	pair, err := manager.NewTokenPair(userID, "ana@example.com", refreshID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := manager.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("expected valid access token, got %v", err)
	}
	if got, _ := claims.UserID(); got != userID {
		t.Fatalf("expected subject %s, got %s", userID, got)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}

	refreshClaims, err := manager.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("expected valid refresh token, got %v", err)
	}
	if got, _ := refreshClaims.TokenID(); got != refreshID {
		t.Fatalf("expected refresh id %s, got %s", refreshID, got)
	}

	if _, err := manager.ParseRefreshToken(pair.AccessToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

// TestParseExpiredToken проверяет отказ для просроченного токена.
func TestParseExpiredToken(t *testing.T) {
	manager := NewTokenManager("secret", "event-planner", time.Minute, time.Hour)
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := manager.NewTokenPair(uuid.New(), "", uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := manager.ParseAccessToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

// TestJWTMiddlewareQueryToken проверяет передачу токена в query для SSE.
func TestJWTMiddlewareQueryToken(t *testing.T) {
	manager := NewTokenManager("secret", "event-planner", time.Minute, time.Hour)
	userID := uuid.New()
	pair, err := manager.NewTokenPair(userID, "", uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	e := echo.New()
	handler := JWTMiddleware(manager)(func(c echo.Context) error {
		got, ok := UserIDFromContext(c)
		if !ok || got != userID {
			t.Fatalf("expected user id %s in context, got %s", userID, got)
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stream?access_token="+pair.AccessToken, nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/events?access_token="+pair.AccessToken, nil)
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err == nil {
		t.Fatal("expected query token to be rejected for non-GET requests")
	}
}
