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

var serviceColumnNames = []string{
	"id", "name", "category", "price", "description", "provider", "provider_id",
	"contact_email", "contact_phone", "image_url", "created_at", "updated_at",
}

// TestCatalogListByCategory проверяет фильтр по категории.
func TestCatalogListByCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	category := models.ServiceCategoryMusic
	providerID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("FROM services").
		WithArgs(&category).
		WillReturnRows(mock.NewRows(serviceColumnNames).
			AddRow(uuid.New(), "DJ Set", models.ServiceCategoryMusic, 350000.0, (*string)(nil), "Sonido Sur",
				&providerID, (*string)(nil), (*string)(nil), (*string)(nil), now, now).
			AddRow(uuid.New(), "Banda en vivo", models.ServiceCategoryMusic, 900000.0, (*string)(nil), "Los Andes",
				(*uuid.UUID)(nil), (*string)(nil), (*string)(nil), (*string)(nil), now, now))

	services, err := NewCatalogRepository(mock).List(context.Background(), &category)

	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "DJ Set", services[0].Name)
	assert.Equal(t, &providerID, services[0].ProviderID)
	assert.Nil(t, services[1].ProviderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCatalogCreateRejectsInvalidCategory проверяет маппинг нарушения CHECK.
func TestCatalogCreateRejectsInvalidCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO services").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgCheckViolation})

	_, err = NewCatalogRepository(mock).Create(context.Background(), uuid.New(), ServiceInput{
		Name:     "Mago",
		Category: "magic",
		Price:    10,
		Provider: "Show",
	})

	assert.ErrorIs(t, err, ErrInvalid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
