package models

import (
	"fmt"
	"strings"
	"time"
)

// Booking represents a confirmed transfer reservation
type Booking struct {
	ID string `json:"id" gorm:"primaryKey"`

	// Customer reference
	CustomerPhone string `json:"customer_phone" gorm:"index"`
	CustomerName  string `json:"customer_name"`

	// Trip details
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Passengers  int    `json:"passengers"`
	TravelDate  string `json:"travel_date"` // dd/mm/yyyy as sent by the customer
	TravelTime  string `json:"travel_time"` // hh:mm

	// Vehicle assignment
	VehicleCategory string `json:"vehicle_category"`
	DriverID        string `json:"driver_id"`

	// Status tracking
	Status string `json:"status"` // "Pendente", "Confirmado", "Pago", "Cancelado"

	// Billing
	Price         float64 `json:"price"`
	BillingType   string  `json:"billing_type"`   // "avulso" or "faturado"
	BillingStatus string  `json:"billing_status"` // "aberto", "aguardando", "quitado"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingDraft holds the fields extracted from a booking-request message
// before the reservation is confirmed and persisted.
type BookingDraft struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Passengers  int    `json:"passengers"`
	TravelDate  string `json:"travel_date"`
	TravelTime  string `json:"travel_time"`
}

// Booking status constants
const (
	BookingStatusPending   = "Pendente"
	BookingStatusConfirmed = "Confirmado"
	BookingStatusPaid      = "Pago"
	BookingStatusCancelled = "Cancelado"
)

// Billing status constants
const (
	BillingStatusOpen    = "aberto"
	BillingStatusWaiting = "aguardando"
	BillingStatusSettled = "quitado"
)

// Vehicle categories by passenger count
const (
	VehicleSedan = "Sedan"
	VehicleSUV   = "SUV"
	VehicleVan   = "Van"
)

// BookingIDPrefix is the canonical reservation identifier prefix
const BookingIDPrefix = "RES_"

// VehicleForPassengers maps a passenger count to a vehicle category and its
// base price. Breakpoints: up to 4 ride in a sedan, up to 7 in an SUV,
// anything larger takes the van.
func VehicleForPassengers(passengers int) (string, float64) {
	switch {
	case passengers <= 4:
		return VehicleSedan, 250.00
	case passengers <= 7:
		return VehicleSUV, 350.00
	default:
		return VehicleVan, 500.00
	}
}

// NewBookingID generates a timestamp-derived reservation identifier
func NewBookingID(now time.Time) string {
	return fmt.Sprintf("%s%s", BookingIDPrefix, now.Format("20060102150405"))
}

// NormalizeBookingID uppercases a user-supplied reservation identifier and
// adds the standard prefix when the customer omitted it.
func NormalizeBookingID(raw string) string {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if id == "" {
		return id
	}
	if !strings.HasPrefix(id, BookingIDPrefix) {
		// Tolerate "RES 20250720" and "RES-20250720" spellings
		id = strings.TrimPrefix(id, "RES ")
		id = strings.TrimPrefix(id, "RES-")
		id = BookingIDPrefix + id
	}
	return id
}
