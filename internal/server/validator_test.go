package server

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/event-planner/backend/internal/handlers"
)

func TestValidatorUsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&handlers.RegisterRequest{Email: "not-an-email", Password: "secret1", Name: "Ana"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "email", verrs[0].Field())
}

func TestValidatorRejectsInvalidGuests(t *testing.T) {
	v := NewValidator()
	guests := 0

	err := v.Validate(&handlers.EventRequest{NumberOfGuests: &guests})
	assert.Error(t, err)

	guests = 40
	assert.NoError(t, v.Validate(&handlers.EventRequest{NumberOfGuests: &guests}))
}

func TestValidatorServiceRequest(t *testing.T) {
	v := NewValidator()

	valid := handlers.ServiceRequest{Name: "DJ Set", Category: "music", Price: 150000, Provider: "Sonido Sur"}
	assert.NoError(t, v.Validate(&valid))

	negative := valid
	negative.Price = -1
	assert.Error(t, v.Validate(&negative))
}
