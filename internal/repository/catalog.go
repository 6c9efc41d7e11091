package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/event-planner/backend/internal/models"
)

const serviceColumns = `id, name, category, price, description, provider, provider_id, contact_email, contact_phone, image_url, created_at, updated_at`

// CatalogRepository хранит каталог услуг поставщиков.
type CatalogRepository struct {
	db DB
}

// ServiceInput содержит поля услуги из запроса.
type ServiceInput struct {
	Name         string
	Category     models.ServiceCategory
	Price        float64
	Description  *string
	Provider     string
	ContactEmail *string
	ContactPhone *string
	ImageURL     *string
}

// NewCatalogRepository создает репозиторий каталога услуг.
func NewCatalogRepository(db DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// List возвращает услуги, опционально отфильтрованные по категории.
func (r *CatalogRepository) List(ctx context.Context, category *models.ServiceCategory) ([]models.Service, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+serviceColumns+`
		 FROM services
		 WHERE $1::text IS NULL OR category = $1
		 ORDER BY created_at DESC`,
		category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]models.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return services, nil
}

// GetByID возвращает услугу по идентификатору.
func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Service, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+serviceColumns+`
		 FROM services
		 WHERE id = $1`,
		id,
	)

	service, err := scanService(row)
	if err != nil {
		return service, mapError(err)
	}
	return service, nil
}

// Create добавляет услугу от имени поставщика.
func (r *CatalogRepository) Create(ctx context.Context, providerID uuid.UUID, input ServiceInput) (models.Service, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO services
		 (name, category, price, description, provider, provider_id, contact_email, contact_phone, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+serviceColumns,
		input.Name,
		input.Category,
		input.Price,
		input.Description,
		input.Provider,
		providerID,
		input.ContactEmail,
		input.ContactPhone,
		input.ImageURL,
	)

	service, err := scanService(row)
	if err != nil {
		return service, mapError(err)
	}
	return service, nil
}

// Update перезаписывает услугу, принадлежащую поставщику.
func (r *CatalogRepository) Update(ctx context.Context, providerID, id uuid.UUID, input ServiceInput) (models.Service, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE services
		 SET name = $3,
		     category = $4,
		     price = $5,
		     description = $6,
		     provider = $7,
		     contact_email = $8,
		     contact_phone = $9,
		     image_url = $10,
		     updated_at = NOW()
		 WHERE id = $1 AND provider_id = $2
		 RETURNING `+serviceColumns,
		id,
		providerID,
		input.Name,
		input.Category,
		input.Price,
		input.Description,
		input.Provider,
		input.ContactEmail,
		input.ContactPhone,
		input.ImageURL,
	)

	service, err := scanService(row)
	if err != nil {
		return service, mapError(err)
	}
	return service, nil
}

// Delete удаляет услугу поставщика.
func (r *CatalogRepository) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM services
		 WHERE id = $1 AND provider_id = $2`,
		id, providerID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanService(row pgx.Row) (models.Service, error) {
	var service models.Service
	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Category,
		&service.Price,
		&service.Description,
		&service.Provider,
		&service.ProviderID,
		&service.ContactEmail,
		&service.ContactPhone,
		&service.ImageURL,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	return service, err
}
