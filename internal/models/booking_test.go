package models

import (
	"testing"
	"time"
)

func TestVehicleForPassengers(t *testing.T) {
	tests := []struct {
		passengers int
		vehicle    string
		price      float64
	}{
		{1, VehicleSedan, 250.00},
		{4, VehicleSedan, 250.00},
		{5, VehicleSUV, 350.00},
		{7, VehicleSUV, 350.00},
		{8, VehicleVan, 500.00},
		{15, VehicleVan, 500.00},
	}

	for _, tt := range tests {
		vehicle, price := VehicleForPassengers(tt.passengers)
		if vehicle != tt.vehicle || price != tt.price {
			t.Errorf("VehicleForPassengers(%d) = (%s, %.2f), want (%s, %.2f)",
				tt.passengers, vehicle, price, tt.vehicle, tt.price)
		}
	}
}

func TestNewBookingID(t *testing.T) {
	now := time.Date(2025, 8, 20, 14, 30, 5, 0, time.UTC)
	if got := NewBookingID(now); got != "RES_20250820143005" {
		t.Errorf("NewBookingID = %q", got)
	}
}

func TestNormalizeBookingID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"RES_20250820143005", "RES_20250820143005"},
		{"res_20250820143005", "RES_20250820143005"},
		{"  res_20250820143005  ", "RES_20250820143005"},
		{"20250820143005", "RES_20250820143005"},
		{"res 20250820143005", "RES_20250820143005"},
		{"res-20250820143005", "RES_20250820143005"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeBookingID(tt.raw); got != tt.want {
			t.Errorf("NormalizeBookingID(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCustomerFirstName(t *testing.T) {
	tests := []struct {
		customer *Customer
		want     string
	}{
		{&Customer{Name: "Maria Souza"}, "Maria"},
		{&Customer{Name: "Maria"}, "Maria"},
		{&Customer{Name: "Convidado"}, ""},
		{&Customer{}, ""},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := tt.customer.FirstName(); got != tt.want {
			t.Errorf("FirstName() = %q, want %q", got, tt.want)
		}
	}
}

func TestGuestCustomerIsActiveGuest(t *testing.T) {
	guest := GuestCustomer("11988216292")
	if !guest.Active {
		t.Error("guest must be active")
	}
	if guest.Level != 0 {
		t.Errorf("guest level = %d, want 0", guest.Level)
	}
	if guest.FirstName() != "" {
		t.Errorf("guest first name = %q, want empty", guest.FirstName())
	}
}
