package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/event-planner/backend/internal/models"
)

var userColumnNames = []string{"id", "email", "password_hash", "name", "image", "provider", "provider_id", "created_at", "updated_at"}

// TestUserCreateConflict проверяет маппинг нарушения уникальности email.
func TestUserCreateConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err = NewUserRepository(mock).Create(context.Background(), NewUser{
		Email:        "ana@example.com",
		PasswordHash: "hash",
		Name:         "Ana",
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUserGetByEmailWithoutPassword проверяет пользователя без локального пароля.
func TestUserGetByEmailWithoutPassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	now := time.Now().UTC()
	providerID := "google-123"

	mock.ExpectQuery("FROM users").
		WithArgs("ana@example.com").
		WillReturnRows(mock.NewRows(userColumnNames).AddRow(
			id, "ana@example.com", (*string)(nil), "Ana", (*string)(nil),
			models.AuthProviderGoogle, &providerID, now, now,
		))

	user, err := NewUserRepository(mock).GetByEmail(context.Background(), "ana@example.com")

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, models.AuthProviderGoogle, user.Provider)
	require.NotNil(t, user.ProviderID)
	assert.Equal(t, providerID, *user.ProviderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUserUpdateProfileRemovesImage проверяет передачу флага удаления аватара.
func TestUserUpdateProfileRemovesImage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	now := time.Now().UTC()
	name := "Ana María"
	hash := "bcrypt-hash"

	mock.ExpectQuery("UPDATE users").
		WithArgs(id, &name, (*string)(nil), true, (*string)(nil)).
		WillReturnRows(mock.NewRows(userColumnNames).AddRow(
			id, "ana@example.com", &hash, name, (*string)(nil),
			models.AuthProviderCredentials, (*string)(nil), now, now,
		))

	user, err := NewUserRepository(mock).UpdateProfile(context.Background(), id, ProfileUpdate{
		Name:        &name,
		RemoveImage: true,
	})

	require.NoError(t, err)
	assert.Equal(t, name, user.Name)
	assert.Equal(t, hash, user.PasswordHash)
	assert.Nil(t, user.Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}
