package repository

import (
	"context"

	"github.com/google/uuid"
)

// Request types stored in ai_requests.request_type.
const (
	RequestTypeEventPlan = "event_plan"
)

type AIRepository struct {
	db DB
}

type AIRequestLog struct {
	UserID          uuid.UUID
	EventID         *uuid.UUID
	RequestType     string
	Provider        string
	Model           string
	Language        string
	Prompt          string
	RequestPayload  []byte
	ResponsePayload []byte
	RawResponse     string
	Success         bool
	ErrorMessage    *string
}

// NewAIRepository создает репозиторий для AI-запросов.
func NewAIRepository(db DB) *AIRepository {
	return &AIRepository{db: db}
}

// LogRequest сохраняет лог AI-запроса.
func (r *AIRepository) LogRequest(ctx context.Context, log AIRequestLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ai_requests
		 (user_id, event_id, request_type, provider, model, language, prompt, request_payload, response_payload, raw_response, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::jsonb, NULLIF($9, '')::jsonb, $10, $11, $12)`,
		log.UserID,
		log.EventID,
		log.RequestType,
		log.Provider,
		log.Model,
		log.Language,
		log.Prompt,
		string(log.RequestPayload),
		string(log.ResponsePayload),
		log.RawResponse,
		log.Success,
		log.ErrorMessage,
	)
	return mapError(err)
}
