package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
)

// DatabaseStore persists bookings and customers in PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed record store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Booking operations

func (d *DatabaseStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	if err := d.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (d *DatabaseStore) GetBooking(id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.db.First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (d *DatabaseStore) GetBookingsByPhone(phone string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := d.db.Where("customer_phone = ?", phone).Order("created_at desc").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (d *DatabaseStore) UpdateBooking(booking *models.Booking) error {
	result := d.db.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(booking)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) UpdateBookingStatus(id string, status string) error {
	result := d.db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) GetUnpaidBookingsOlderThan(age time.Duration) ([]*models.Booking, error) {
	cutoff := time.Now().Add(-age)
	var bookings []*models.Booking
	err := d.db.
		Where("status = ? AND created_at < ?", models.BookingStatusConfirmed, cutoff).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// Customer directory

func (d *DatabaseStore) GetCustomerByPhone(phone string) (*models.Customer, error) {
	var customer models.Customer
	err := d.db.First(&customer, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (d *DatabaseStore) UpsertCustomer(customer *models.Customer) error {
	return d.db.Save(customer).Error
}

func (d *DatabaseStore) GetAllCustomers() ([]*models.Customer, error) {
	var customers []*models.Customer
	if err := d.db.Order("name").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Price table

func (d *DatabaseStore) FindRoutePrice(company, origin, destination, vehicle string) (float64, error) {
	var price models.RoutePrice
	err := d.db.
		Where("lower(company) = lower(?) AND lower(origin) = lower(?) AND lower(destination) = lower(?) AND lower(vehicle) = lower(?)",
			company, origin, destination, vehicle).
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return price.Price, nil
}
