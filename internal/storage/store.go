package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
)

var (
	storeInstance Store
	storeMu       sync.RWMutex
)

// ErrNotFound is returned by point lookups when no row matches
var ErrNotFound = errors.New("record not found")

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return storeInstance
}

// Store defines the interface for the booking record store
type Store interface {
	// Booking operations
	CreateBooking(booking *models.Booking) (*models.Booking, error)
	GetBooking(id string) (*models.Booking, error)
	GetBookingsByPhone(phone string) ([]*models.Booking, error)
	UpdateBooking(booking *models.Booking) error
	UpdateBookingStatus(id string, status string) error
	GetUnpaidBookingsOlderThan(age time.Duration) ([]*models.Booking, error)

	// Customer directory
	GetCustomerByPhone(phone string) (*models.Customer, error)
	UpsertCustomer(customer *models.Customer) error
	GetAllCustomers() ([]*models.Customer, error)

	// Price table
	FindRoutePrice(company, origin, destination, vehicle string) (float64, error)
}
