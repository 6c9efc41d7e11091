package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/event-planner/backend/internal/models"
)

var testDefaults = EventDefaults{Location: "Santiago, Chile", Currency: "CLP"}

func decodeEventRequest(t *testing.T, body string) EventRequest {
	t.Helper()
	var req EventRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestFlexibleNumber(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		set   bool
		value *float64
	}{
		{name: "number", body: `{"budget":150000}`, set: true, value: floatPtr(150000)},
		{name: "numeric string", body: `{"budget":" 2500.5 "}`, set: true, value: floatPtr(2500.5)},
		{name: "garbage string", body: `{"budget":"mucho"}`, set: true},
		{name: "empty string", body: `{"budget":""}`, set: true},
		{name: "null", body: `{"budget":null}`, set: true},
		{name: "boolean", body: `{"budget":true}`, set: true},
		{name: "infinite string", body: `{"budget":"Infinity"}`, set: true},
		{name: "absent", body: `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := decodeEventRequest(t, tc.body)
			assert.Equal(t, tc.set, req.Budget.Set)
			assert.Equal(t, tc.value, req.Budget.Value)
		})
	}
}

func TestNewEventInputDefaults(t *testing.T) {
	req := decodeEventRequest(t, `{
		"name": "  Cumple Ana  ",
		"event_type": "Cumpleaños",
		"number_of_guests": 30,
		"event_date": "2024-12-14",
		"currency": "usd",
		"spending_style": "luxury",
		"location": "   ",
		"budget": "1500"
	}`)

	input, err := newEventInput(req, testDefaults)
	require.NoError(t, err)

	assert.Equal(t, "Cumple Ana", input.Name)
	assert.Equal(t, "USD", input.Currency)
	assert.Equal(t, models.SpendingStyleBalanced, input.SpendingStyle)
	assert.Equal(t, "Santiago, Chile", input.Location)
	assert.Equal(t, time.Date(2024, time.December, 14, 0, 0, 0, 0, time.UTC), input.EventDate)
	require.NotNil(t, input.Budget)
	assert.Equal(t, 1500.0, *input.Budget)
	assert.Nil(t, input.Preferences)
}

func TestNewEventInputErrors(t *testing.T) {
	cases := []struct {
		body    string
		message string
	}{
		{`{"event_type":"Boda","number_of_guests":10,"event_date":"2025-01-01"}`, "Event name is required"},
		{`{"name":"  ","event_type":"Boda","number_of_guests":10,"event_date":"2025-01-01"}`, "Event name is required"},
		{`{"name":"Boda","event_type":"","number_of_guests":10,"event_date":"2025-01-01"}`, "Event type is required"},
		{`{"name":"Boda","event_type":"Boda","number_of_guests":0,"event_date":"2025-01-01"}`, "Number of guests must be at least 1"},
		{`{"name":"Boda","event_type":"Boda","number_of_guests":10}`, "Event date is required"},
		{`{"name":"Boda","event_type":"Boda","number_of_guests":10,"event_date":"mañana"}`, "Invalid event date"},
		{`{"name":"Boda","event_type":"Boda","number_of_guests":10,"event_date":"2025-13-40"}`, "Invalid event date"},
	}

	for _, tc := range cases {
		_, err := newEventInput(decodeEventRequest(t, tc.body), testDefaults)
		require.Error(t, err, tc.body)
		assert.Equal(t, tc.message, err.Error(), tc.body)
	}
}

func TestMergeEventInputPartialUpdate(t *testing.T) {
	budget := 400000.0
	existing := models.Event{
		Name:           "Cumple Ana",
		EventType:      "Cumpleaños",
		NumberOfGuests: 30,
		Location:       "Valparaíso, Chile",
		EventDate:      time.Date(2024, time.December, 14, 18, 0, 0, 0, time.UTC),
		Budget:         &budget,
		Currency:       "CLP",
		SpendingStyle:  models.SpendingStylePremium,
	}

	req := decodeEventRequest(t, `{"number_of_guests":45,"spending_style":"cheap","currency":"eur","budget":null}`)
	input, err := mergeEventInput(existing, req, testDefaults)
	require.NoError(t, err)

	assert.Equal(t, "Cumple Ana", input.Name)
	assert.Equal(t, 45, input.NumberOfGuests)
	assert.Equal(t, models.SpendingStylePremium, input.SpendingStyle)
	assert.Equal(t, "EUR", input.Currency)
	assert.Equal(t, "Valparaíso, Chile", input.Location)
	assert.Nil(t, input.Budget)
	assert.Equal(t, existing.EventDate, input.EventDate)
}

func TestMergeEventInputUnparsableBudgetClears(t *testing.T) {
	budget := 400000.0
	existing := models.Event{Name: "Boda", Budget: &budget, Location: "Santiago, Chile"}

	input, err := mergeEventInput(existing, decodeEventRequest(t, `{"budget":"n/a","location":""}`), testDefaults)
	require.NoError(t, err)

	assert.Nil(t, input.Budget)
	assert.Equal(t, "Santiago, Chile", input.Location)
}

func TestMergeEventInputErrors(t *testing.T) {
	existing := models.Event{Name: "Boda"}

	_, err := mergeEventInput(existing, decodeEventRequest(t, `{"name":"   "}`), testDefaults)
	require.Error(t, err)
	assert.Equal(t, "Event name cannot be empty", err.Error())

	_, err = mergeEventInput(existing, decodeEventRequest(t, `{"event_date":"pronto"}`), testDefaults)
	require.Error(t, err)
	assert.Equal(t, "Invalid event date", err.Error())
}

func TestParseEventIDs(t *testing.T) {
	id := uuid.New()

	ids, err := parseEventIDs([]string{id.String(), " " + id.String() + " "})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, ids)

	_, err = parseEventIDs(nil)
	require.Error(t, err)
	assert.Equal(t, "No event ids provided", err.Error())

	_, err = parseEventIDs([]string{"not-a-uuid"})
	assert.Error(t, err)
}

func floatPtr(value float64) *float64 {
	return &value
}
