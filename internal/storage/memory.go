package storage

import (
	"strings"
	"sync"
	"time"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
)

// MemoryStore holds all data in memory for tests and local development
type MemoryStore struct {
	bookings  map[string]*models.Booking
	customers map[string]*models.Customer
	prices    []*models.RoutePrice

	// Mutexes for thread safety
	bookingMu  sync.RWMutex
	customerMu sync.RWMutex
	priceMu    sync.RWMutex
}

// NewMemoryStore creates a new in-memory record store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings:  make(map[string]*models.Booking),
		customers: make(map[string]*models.Customer),
	}
}

// Booking operations

func (m *MemoryStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	m.bookings[booking.ID] = booking
	return booking, nil
}

func (m *MemoryStore) GetBooking(id string) (*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	booking, exists := m.bookings[id]
	if !exists {
		return nil, ErrNotFound
	}
	return booking, nil
}

func (m *MemoryStore) GetBookingsByPhone(phone string) ([]*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	var bookings []*models.Booking
	for _, booking := range m.bookings {
		if booking.CustomerPhone == phone {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (m *MemoryStore) UpdateBooking(booking *models.Booking) error {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	if _, exists := m.bookings[booking.ID]; !exists {
		return ErrNotFound
	}
	booking.UpdatedAt = time.Now()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MemoryStore) UpdateBookingStatus(id string, status string) error {
	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	booking, exists := m.bookings[id]
	if !exists {
		return ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) GetUnpaidBookingsOlderThan(age time.Duration) ([]*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	cutoff := time.Now().Add(-age)
	var bookings []*models.Booking
	for _, booking := range m.bookings {
		if booking.Status == models.BookingStatusConfirmed && booking.CreatedAt.Before(cutoff) {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

// Customer directory

func (m *MemoryStore) GetCustomerByPhone(phone string) (*models.Customer, error) {
	m.customerMu.RLock()
	defer m.customerMu.RUnlock()

	customer, exists := m.customers[phone]
	if !exists {
		return nil, ErrNotFound
	}
	return customer, nil
}

func (m *MemoryStore) UpsertCustomer(customer *models.Customer) error {
	m.customerMu.Lock()
	defer m.customerMu.Unlock()

	now := time.Now()
	if existing, exists := m.customers[customer.Phone]; exists {
		customer.CreatedAt = existing.CreatedAt
	} else {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now
	m.customers[customer.Phone] = customer
	return nil
}

func (m *MemoryStore) GetAllCustomers() ([]*models.Customer, error) {
	m.customerMu.RLock()
	defer m.customerMu.RUnlock()

	var customers []*models.Customer
	for _, customer := range m.customers {
		customers = append(customers, customer)
	}
	return customers, nil
}

// Price table

// AddRoutePrice seeds a negotiated price row (tests and dev fixtures)
func (m *MemoryStore) AddRoutePrice(price *models.RoutePrice) {
	m.priceMu.Lock()
	defer m.priceMu.Unlock()
	m.prices = append(m.prices, price)
}

func (m *MemoryStore) FindRoutePrice(company, origin, destination, vehicle string) (float64, error) {
	m.priceMu.RLock()
	defer m.priceMu.RUnlock()

	for _, p := range m.prices {
		if strings.EqualFold(p.Company, company) &&
			strings.EqualFold(p.Origin, origin) &&
			strings.EqualFold(p.Destination, destination) &&
			strings.EqualFold(p.Vehicle, vehicle) {
			return p.Price, nil
		}
	}
	return 0, ErrNotFound
}
