package repository

import (
	"context"

	"github.com/google/uuid"
)

type StatsRepository struct {
	db DB
}

type OverviewStats struct {
	TotalEvents        int
	UpcomingEvents     int
	PastEvents         int
	EventsWithPlan     int
	TotalGuests        int
	TotalBudget        float64
	TotalEstimatedCost float64
}

type CategoryCost struct {
	Category      string
	EstimatedCost float64
	Items         int
	Events        int
}

type MonthlyEvents struct {
	Month         string
	Events        int
	Budget        float64
	EstimatedCost float64
}

// NewStatsRepository создает репозиторий статистики.
func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview возвращает сводную статистику по событиям пользователя.
func (r *StatsRepository) Overview(ctx context.Context, userID uuid.UUID) (OverviewStats, error) {
	var stats OverviewStats

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE event_date >= NOW()),
		        COUNT(*) FILTER (WHERE event_date < NOW()),
		        COUNT(*) FILTER (WHERE ai_plan IS NOT NULL),
		        COALESCE(SUM(number_of_guests), 0),
		        COALESCE(SUM(budget), 0)::float8,
		        COALESCE(SUM(estimated_cost), 0)::float8
		 FROM events
		 WHERE user_id = $1`,
		userID,
	).Scan(
		&stats.TotalEvents,
		&stats.UpcomingEvents,
		&stats.PastEvents,
		&stats.EventsWithPlan,
		&stats.TotalGuests,
		&stats.TotalBudget,
		&stats.TotalEstimatedCost,
	)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

// CostByCategory агрегирует стоимость категорий из сохраненных AI-планов.
func (r *StatsRepository) CostByCategory(ctx context.Context, userID uuid.UUID) ([]CategoryCost, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category.value->>'category' AS category,
		        COALESCE(SUM((category.value->>'estimatedCost')::float8), 0)::float8 AS estimated_cost,
		        COALESCE(SUM(jsonb_array_length(COALESCE(category.value->'items', '[]'::jsonb))), 0)::int AS items,
		        COUNT(DISTINCT e.id)::int AS events
		 FROM events e
		 CROSS JOIN LATERAL jsonb_array_elements(COALESCE(e.ai_plan->'breakdown', '[]'::jsonb)) AS category(value)
		 WHERE e.user_id = $1
		 GROUP BY 1
		 ORDER BY estimated_cost DESC, category`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	costs := make([]CategoryCost, 0)
	for rows.Next() {
		var row CategoryCost
		if err := rows.Scan(&row.Category, &row.EstimatedCost, &row.Items, &row.Events); err != nil {
			return nil, err
		}
		costs = append(costs, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return costs, nil
}

// Monthly возвращает количество событий и суммы по месяцам даты события.
func (r *StatsRepository) Monthly(ctx context.Context, userID uuid.UUID, months int) ([]MonthlyEvents, error) {
	if months <= 0 {
		return nil, ErrInvalid
	}

	rows, err := r.db.Query(ctx,
		`SELECT to_char(date_trunc('month', event_date), 'YYYY-MM') AS month,
		        COUNT(*)::int,
		        COALESCE(SUM(budget), 0)::float8,
		        COALESCE(SUM(estimated_cost), 0)::float8
		 FROM events
		 WHERE user_id = $1
		 GROUP BY 1
		 ORDER BY 1 DESC
		 LIMIT $2`,
		userID, months,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]MonthlyEvents, 0)
	for rows.Next() {
		var row MonthlyEvents
		if err := rows.Scan(&row.Month, &row.Events, &row.Budget, &row.EstimatedCost); err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
