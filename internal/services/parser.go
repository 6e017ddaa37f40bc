package services

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
)

// Parse failures. Missing origin/destination is the only unrecoverable case;
// every other field has a default.
var (
	ErrMissingRoute      = errors.New("booking request has no origin/destination pair")
	ErrInvalidPassengers = errors.New("passenger count must be a positive number")
)

const defaultTravelTime = "12:00"

var (
	bookingKeywordRe = regexp.MustCompile(`(?i)^\s*reservar?\b[:\s]*`)
	passengersRe     = regexp.MustCompile(`(?i)(\d+)\s*(?:pessoas?|passageiros?|pax)\b`)
	travelDateRe     = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\b`)
	travelTimeRe     = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)

	// Strict grammar: RESERVA <origem> para <destino> - N pessoas - <data>
	strictBookingRe = regexp.MustCompile(`(?i)^\s*reservar?\s+(.+?)\s+para\s+(.+?)\s*-\s*(\d+)\s*pessoas?\s*-\s*(.+)$`)
)

// Connector words separating origin from destination, tried in order.
// "->" before the word connectors so "GRU -> Campinas para 2" splits right.
var routeConnectors = []string{"->", " para ", " pra ", " até ", " ate "}

// relative date expressions resolved against the parse-time clock
var relativeDates = []struct {
	phrase string
	days   int
}{
	{"depois de amanhã", 2},
	{"depois de amanha", 2},
	{"amanhã", 1},
	{"amanha", 1},
	{"hoje", 0},
}

// ParseBookingRequest extracts a booking draft from free text. Grammar
// variants are attempted in order: the strict RESERVA format first, then a
// loose token-extraction pass that accepts the fields in any order.
func ParseBookingRequest(text string, now time.Time) (*models.BookingDraft, error) {
	if m := strictBookingRe.FindStringSubmatch(text); m != nil {
		passengers, err := strconv.Atoi(m[3])
		if err != nil || passengers <= 0 {
			return nil, ErrInvalidPassengers
		}
		date, timeOfDay := extractDateTime(m[4], now)
		if date == "" {
			date = relativeDate(now, 1)
		}
		if timeOfDay == "" {
			timeOfDay = defaultTravelTime
		}
		return &models.BookingDraft{
			Origin:      strings.TrimSpace(m[1]),
			Destination: trimRouteField(m[2]),
			Passengers:  passengers,
			TravelDate:  date,
			TravelTime:  timeOfDay,
		}, nil
	}

	return parseLooseBooking(text, now)
}

// parseLooseBooking pulls passenger count, date and time out of the text
// independently, then splits what is left on a connector word.
func parseLooseBooking(text string, now time.Time) (*models.BookingDraft, error) {
	work := bookingKeywordRe.ReplaceAllString(text, "")

	passengers := 1
	if m := passengersRe.FindStringSubmatch(work); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return nil, ErrInvalidPassengers
		}
		passengers = n
		work = strings.Replace(work, m[0], "", 1)
	}

	date, timeOfDay := extractDateTime(work, now)
	if m := travelDateRe.FindString(work); m != "" {
		work = strings.Replace(work, m, "", 1)
	}
	if m := travelTimeRe.FindString(work); m != "" {
		work = strings.Replace(work, m, "", 1)
	}
	lower := strings.ToLower(work)
	for _, rel := range relativeDates {
		if idx := strings.Index(lower, rel.phrase); idx >= 0 {
			work = work[:idx] + work[idx+len(rel.phrase):]
			break
		}
	}

	if date == "" {
		date = relativeDate(now, 1)
	}
	if timeOfDay == "" {
		timeOfDay = defaultTravelTime
	}

	origin, destination, ok := splitRoute(work)
	if !ok {
		return nil, ErrMissingRoute
	}

	return &models.BookingDraft{
		Origin:      origin,
		Destination: destination,
		Passengers:  passengers,
		TravelDate:  date,
		TravelTime:  timeOfDay,
	}, nil
}

// splitRoute separates origin from destination on the first connector found
func splitRoute(text string) (string, string, bool) {
	lower := strings.ToLower(text)
	for _, connector := range routeConnectors {
		idx := strings.Index(lower, connector)
		if idx < 0 {
			continue
		}
		origin := trimRouteField(text[:idx])
		destination := trimRouteField(text[idx+len(connector):])
		if origin == "" || destination == "" {
			return "", "", false
		}
		return origin, destination, true
	}
	return "", "", false
}

// trimRouteField strips delimiter leftovers around an extracted place name
func trimRouteField(s string) string {
	return strings.Trim(strings.TrimSpace(s), "-–,;: \t")
}

// extractDateTime finds an explicit or relative date plus an hh:mm time
func extractDateTime(text string, now time.Time) (date string, timeOfDay string) {
	if m := travelDateRe.FindStringSubmatch(text); m != nil {
		date = m[1]
	} else {
		lower := strings.ToLower(text)
		for _, rel := range relativeDates {
			if strings.Contains(lower, rel.phrase) {
				date = relativeDate(now, rel.days)
				break
			}
		}
	}

	if m := travelTimeRe.FindStringSubmatch(text); m != nil {
		timeOfDay = m[1]
	}
	return date, timeOfDay
}

func relativeDate(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format("02/01/2006")
}
