package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/event-planner/backend/internal/models"
)

const eventColumns = `id, user_id, name, event_type, number_of_guests, age_range, gender_distribution, location,
		event_date, budget, currency, spending_style, preferences, estimated_cost, ai_plan, created_at, updated_at`

type EventRepository struct {
	db DB
}

// EventInput содержит поля события, которые задает пользователь.
type EventInput struct {
	Name               string
	EventType          string
	NumberOfGuests     int
	AgeRange           string
	GenderDistribution string
	Location           string
	EventDate          time.Time
	Budget             *float64
	Currency           string
	SpendingStyle      models.SpendingStyle
	Preferences        *string
}

// NewEventRepository создает репозиторий событий.
func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create сохраняет новое событие пользователя.
func (r *EventRepository) Create(ctx context.Context, userID uuid.UUID, input EventInput) (models.Event, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO events
		 (user_id, name, event_type, number_of_guests, age_range, gender_distribution, location,
		  event_date, budget, currency, spending_style, preferences)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+eventColumns,
		userID,
		input.Name,
		input.EventType,
		input.NumberOfGuests,
		input.AgeRange,
		input.GenderDistribution,
		input.Location,
		input.EventDate,
		input.Budget,
		input.Currency,
		input.SpendingStyle,
		input.Preferences,
	)

	event, err := scanEvent(row)
	if err != nil {
		return event, mapError(err)
	}
	return event, nil
}

// ListByUser возвращает события пользователя, новые первыми.
func (r *EventRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// GetByID возвращает событие пользователя по идентификатору.
func (r *EventRepository) GetByID(ctx context.Context, userID, eventID uuid.UUID) (models.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE id = $1 AND user_id = $2`,
		eventID, userID,
	)

	event, err := scanEvent(row)
	if err != nil {
		return event, mapError(err)
	}
	return event, nil
}

// Update полностью перезаписывает пользовательские поля события.
func (r *EventRepository) Update(ctx context.Context, userID, eventID uuid.UUID, input EventInput) (models.Event, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE events
		 SET name = $3,
		     event_type = $4,
		     number_of_guests = $5,
		     age_range = $6,
		     gender_distribution = $7,
		     location = $8,
		     event_date = $9,
		     budget = $10,
		     currency = $11,
		     spending_style = $12,
		     preferences = $13,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+eventColumns,
		eventID,
		userID,
		input.Name,
		input.EventType,
		input.NumberOfGuests,
		input.AgeRange,
		input.GenderDistribution,
		input.Location,
		input.EventDate,
		input.Budget,
		input.Currency,
		input.SpendingStyle,
		input.Preferences,
	)

	event, err := scanEvent(row)
	if err != nil {
		return event, mapError(err)
	}
	return event, nil
}

// Delete удаляет событие пользователя.
func (r *EventRepository) Delete(ctx context.Context, userID, eventID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM events
		 WHERE id = $1 AND user_id = $2`,
		eventID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// BulkDelete удаляет несколько событий пользователя и возвращает число удаленных.
func (r *EventRepository) BulkDelete(ctx context.Context, userID uuid.UUID, eventIDs []uuid.UUID) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, ErrInvalid
	}

	cmd, err := r.db.Exec(ctx,
		`DELETE FROM events
		 WHERE user_id = $1 AND id = ANY($2)`,
		userID, eventIDs,
	)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}

// SavePlan заменяет AI-план и оценку стоимости события целиком. Пустое имя заполняется типом события.
func (r *EventRepository) SavePlan(ctx context.Context, userID, eventID uuid.UUID, plan models.EventPlan) (models.Event, error) {
	payload, err := json.Marshal(plan)
	if err != nil {
		return models.Event{}, fmt.Errorf("encode plan: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`UPDATE events
		 SET ai_plan = $3::jsonb,
		     estimated_cost = $4,
		     name = CASE WHEN btrim(name) = '' THEN event_type ELSE name END,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+eventColumns,
		eventID, userID, string(payload), plan.EstimatedCost,
	)

	event, err := scanEvent(row)
	if err != nil {
		return event, mapError(err)
	}
	return event, nil
}

func scanEvent(row pgx.Row) (models.Event, error) {
	var event models.Event
	var plan []byte

	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Name,
		&event.EventType,
		&event.NumberOfGuests,
		&event.AgeRange,
		&event.GenderDistribution,
		&event.Location,
		&event.EventDate,
		&event.Budget,
		&event.Currency,
		&event.SpendingStyle,
		&event.Preferences,
		&event.EstimatedCost,
		&plan,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return event, err
	}

	if len(plan) > 0 {
		var decoded models.EventPlan
		if err := json.Unmarshal(plan, &decoded); err != nil {
			return event, fmt.Errorf("decode ai_plan: %w", err)
		}
		event.AIPlan = &decoded
	}

	return event, nil
}
