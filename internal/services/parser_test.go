package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
)

var parseClock = time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

func TestParseStrictFormat(t *testing.T) {
	draft, err := ParseBookingRequest("RESERVA Aeroporto GRU para Hotel X - 3 pessoas - 20/08/2025", parseClock)
	require.NoError(t, err)

	assert.Equal(t, "Aeroporto GRU", draft.Origin)
	assert.Equal(t, "Hotel X", draft.Destination)
	assert.Equal(t, 3, draft.Passengers)
	assert.Equal(t, "20/08/2025", draft.TravelDate)
	assert.Equal(t, "12:00", draft.TravelTime)
}

func TestParseConfirmationRoundTrip(t *testing.T) {
	raw := "RESERVA Aeroporto GRU para Hotel X - 3 pessoas - 20/08/2025"
	draft, err := ParseBookingRequest(raw, parseClock)
	require.NoError(t, err)

	vehicle, price := models.VehicleForPassengers(draft.Passengers)
	confirmation := FormatBookingConfirmation(&models.Booking{
		ID:              models.NewBookingID(parseClock),
		Origin:          draft.Origin,
		Destination:     draft.Destination,
		Passengers:      draft.Passengers,
		TravelDate:      draft.TravelDate,
		TravelTime:      draft.TravelTime,
		VehicleCategory: vehicle,
		Price:           price,
		Status:          models.BookingStatusConfirmed,
	})

	// Every parsed field must come back verbatim in the confirmation.
	for _, want := range []string{"Aeroporto GRU", "Hotel X", "3 pessoas", "20/08/2025"} {
		assert.Contains(t, confirmation, want)
	}
}

func TestParseStrictWithTime(t *testing.T) {
	draft, err := ParseBookingRequest("reserva Centro para Guarulhos - 2 pessoas - 01/09/2025 07:30", parseClock)
	require.NoError(t, err)

	assert.Equal(t, "01/09/2025", draft.TravelDate)
	assert.Equal(t, "07:30", draft.TravelTime)
}

func TestParseLooseConnectors(t *testing.T) {
	tests := []struct {
		text        string
		origin      string
		destination string
	}{
		{"GRU para Campinas", "GRU", "Campinas"},
		{"GRU pra Campinas", "GRU", "Campinas"},
		{"GRU até Campinas", "GRU", "Campinas"},
		{"GRU -> Campinas", "GRU", "Campinas"},
	}

	for _, tt := range tests {
		draft, err := ParseBookingRequest(tt.text, parseClock)
		require.NoError(t, err, "text %q", tt.text)
		assert.Equal(t, tt.origin, draft.Origin, "text %q", tt.text)
		assert.Equal(t, tt.destination, draft.Destination, "text %q", tt.text)
	}
}

func TestParseDefaults(t *testing.T) {
	draft, err := ParseBookingRequest("GRU para Campinas", parseClock)
	require.NoError(t, err)

	assert.Equal(t, 1, draft.Passengers, "passenger count defaults to 1")
	assert.Equal(t, "16/07/2025", draft.TravelDate, "date defaults to tomorrow")
	assert.Equal(t, "12:00", draft.TravelTime, "time defaults to noon")
}

func TestParseRelativeDates(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"RESERVA GRU para Santos - 2 pessoas - hoje", "15/07/2025"},
		{"RESERVA GRU para Santos - 2 pessoas - amanhã", "16/07/2025"},
		{"RESERVA GRU para Santos - 2 pessoas - depois de amanhã", "17/07/2025"},
	}

	for _, tt := range tests {
		draft, err := ParseBookingRequest(tt.text, parseClock)
		require.NoError(t, err, "text %q", tt.text)
		assert.Equal(t, tt.want, draft.TravelDate, "text %q", tt.text)
	}
}

func TestParseFieldsInAnyOrder(t *testing.T) {
	draft, err := ParseBookingRequest("dia 22/08/2025 às 18:00, 5 pessoas, saindo de Moema para o Aeroporto", parseClock)
	require.NoError(t, err)

	assert.Equal(t, 5, draft.Passengers)
	assert.Equal(t, "22/08/2025", draft.TravelDate)
	assert.Equal(t, "18:00", draft.TravelTime)
	assert.True(t, strings.Contains(draft.Origin, "Moema"), "origin %q should mention Moema", draft.Origin)
	assert.True(t, strings.Contains(draft.Destination, "Aeroporto"), "destination %q should mention Aeroporto", draft.Destination)
}

func TestParseMissingRoute(t *testing.T) {
	_, err := ParseBookingRequest("quero viajar com 3 pessoas dia 20/08", parseClock)
	if !errors.Is(err, ErrMissingRoute) {
		t.Fatalf("expected ErrMissingRoute, got %v", err)
	}
}

func TestParseInvalidPassengers(t *testing.T) {
	_, err := ParseBookingRequest("RESERVA GRU para Santos - 0 pessoas - 20/08/2025", parseClock)
	if !errors.Is(err, ErrInvalidPassengers) {
		t.Fatalf("expected ErrInvalidPassengers, got %v", err)
	}
}
