package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/event-planner/backend/internal/models"
)

const userColumns = `id, email, password_hash, name, image, provider, provider_id, created_at, updated_at`

type UserRepository struct {
	db DB
}

// NewUser описывает данные для регистрации пользователя.
type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Provider     models.AuthProvider
	ProviderID   *string
	Image        *string
}

// ProfileUpdate содержит изменяемые поля профиля; nil означает "не менять".
type ProfileUpdate struct {
	Name         *string
	Image        *string
	RemoveImage  bool
	PasswordHash *string
}

// NewUserRepository создает репозиторий пользователей.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает пользователя в базе.
func (r *UserRepository) Create(ctx context.Context, input NewUser) (models.User, error) {
	provider := input.Provider
	if provider == "" {
		provider = models.AuthProviderCredentials
	}

	var passwordHash *string
	if input.PasswordHash != "" {
		passwordHash = &input.PasswordHash
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, image, provider, provider_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		input.Email, passwordHash, input.Name, input.Image, provider, input.ProviderID,
	)

	user, err := scanUser(row)
	if err != nil {
		return user, mapError(err)
	}
	return user, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE email = $1`,
		email,
	)

	user, err := scanUser(row)
	if err != nil {
		return user, mapError(err)
	}
	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE id = $1`,
		id,
	)

	user, err := scanUser(row)
	if err != nil {
		return user, mapError(err)
	}
	return user, nil
}

// UpdateProfile обновляет имя, аватар и пароль пользователя.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (models.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name),
		     image = CASE WHEN $4 THEN NULL ELSE COALESCE($3, image) END,
		     password_hash = COALESCE($5, password_hash),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, update.Name, update.Image, update.RemoveImage, update.PasswordHash,
	)

	user, err := scanUser(row)
	if err != nil {
		return user, mapError(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var passwordHash *string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.Name,
		&user.Image,
		&user.Provider,
		&user.ProviderID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return user, err
	}

	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	return user, nil
}
