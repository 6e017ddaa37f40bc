package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
)

func TestMemoryStoreBookingLifecycle(t *testing.T) {
	store := NewMemoryStore()

	booking := &models.Booking{
		ID:            "RES_20250820143005",
		CustomerPhone: "11988216292",
		Origin:        "GRU",
		Destination:   "Santos",
		Status:        models.BookingStatusConfirmed,
	}
	if _, err := store.CreateBooking(booking); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetBooking("RES_20250820143005")
	if err != nil {
		t.Fatal(err)
	}
	if got.Destination != "Santos" {
		t.Errorf("destination = %q", got.Destination)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on create")
	}

	if err := store.UpdateBookingStatus("RES_20250820143005", models.BookingStatusCancelled); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetBooking("RES_20250820143005")
	if got.Status != models.BookingStatusCancelled {
		t.Errorf("status = %q after cancellation", got.Status)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.GetBooking("RES_404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBooking error = %v, want ErrNotFound", err)
	}
	if err := store.UpdateBookingStatus("RES_404", models.BookingStatusPaid); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateBookingStatus error = %v, want ErrNotFound", err)
	}
	if err := store.UpdateBooking(&models.Booking{ID: "RES_404"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateBooking error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetCustomerByPhone("11900000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCustomerByPhone error = %v, want ErrNotFound", err)
	}
	if _, err := store.FindRoutePrice("ACME", "GRU", "Santos", "Sedan"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindRoutePrice error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreBookingsByPhone(t *testing.T) {
	store := NewMemoryStore()
	for _, b := range []*models.Booking{
		{ID: "RES_1", CustomerPhone: "11911110001"},
		{ID: "RES_2", CustomerPhone: "11911110001"},
		{ID: "RES_3", CustomerPhone: "11922220002"},
	} {
		if _, err := store.CreateBooking(b); err != nil {
			t.Fatal(err)
		}
	}

	bookings, err := store.GetBookingsByPhone("11911110001")
	if err != nil {
		t.Fatal(err)
	}
	if len(bookings) != 2 {
		t.Errorf("got %d bookings, want 2", len(bookings))
	}
}

func TestMemoryStoreUnpaidBookings(t *testing.T) {
	store := NewMemoryStore()

	old := &models.Booking{ID: "RES_OLD", Status: models.BookingStatusConfirmed}
	if _, err := store.CreateBooking(old); err != nil {
		t.Fatal(err)
	}
	old.CreatedAt = time.Now().Add(-48 * time.Hour)

	paid := &models.Booking{ID: "RES_PAID", Status: models.BookingStatusPaid}
	if _, err := store.CreateBooking(paid); err != nil {
		t.Fatal(err)
	}
	paid.CreatedAt = time.Now().Add(-48 * time.Hour)

	fresh := &models.Booking{ID: "RES_NEW", Status: models.BookingStatusConfirmed}
	if _, err := store.CreateBooking(fresh); err != nil {
		t.Fatal(err)
	}

	unpaid, err := store.GetUnpaidBookingsOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if len(unpaid) != 1 || unpaid[0].ID != "RES_OLD" {
		t.Errorf("unpaid = %v, want only RES_OLD", unpaid)
	}
}

func TestMemoryStoreCustomerUpsert(t *testing.T) {
	store := NewMemoryStore()

	first := &models.Customer{Phone: "11988216292", Name: "Maria", Active: true}
	if err := store.UpsertCustomer(first); err != nil {
		t.Fatal(err)
	}
	created := first.CreatedAt

	update := &models.Customer{Phone: "11988216292", Name: "Maria Souza", Active: true}
	if err := store.UpsertCustomer(update); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetCustomerByPhone("11988216292")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Maria Souza" {
		t.Errorf("name = %q after upsert", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("upsert must preserve the original creation time")
	}

	all, err := store.GetAllCustomers()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("directory size = %d, want 1", len(all))
	}
}

func TestMemoryStoreRoutePriceCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()
	store.AddRoutePrice(&models.RoutePrice{
		Company:     "ACME",
		Origin:      "Aeroporto GRU",
		Destination: "Hotel X",
		Vehicle:     "Sedan",
		Price:       199.90,
	})

	price, err := store.FindRoutePrice("acme", "aeroporto gru", "hotel x", "SEDAN")
	if err != nil {
		t.Fatal(err)
	}
	if price != 199.90 {
		t.Errorf("price = %.2f, want 199.90", price)
	}
}
