package storage

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
	"github.com/jcm-viagens/alinebot-backend/internal/utils"
)

// Sheet layout. Bookings are append-only rows; status changes rewrite the row
// in place. The customer directory and the price table are read-only from the
// bot's point of view (the agency maintains them by hand).
const (
	bookingSheetRange  = "Reservas!A:L"
	customerSheetRange = "Clientes_Recorrentes!A:F"
	priceSheetRange    = "Tabela_Precos!A:E"

	sheetsCallTimeout = 10 * time.Second
)

// SheetsStore keeps the record store in a Google Spreadsheet, which is what
// the travel agency actually operates on.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsStore creates a spreadsheet-backed record store from service
// account credentials JSON.
func NewSheetsStore(spreadsheetID string, credentialsJSON []byte) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("missing spreadsheet ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), sheetsCallTimeout)
	defer cancel()

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

func sheetsContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), sheetsCallTimeout)
}

// Booking operations

func bookingRow(b *models.Booking) []interface{} {
	return []interface{}{
		b.ID,
		b.CustomerPhone,
		b.TravelDate,
		b.TravelTime,
		b.Origin,
		b.Destination,
		b.VehicleCategory,
		b.DriverID,
		b.Status,
		fmt.Sprintf("%.2f", b.Price),
		b.BillingType,
		b.BillingStatus,
	}
}

func bookingFromRow(row []interface{}) *models.Booking {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(fmt.Sprint(row[i]))
		}
		return ""
	}

	price, _ := strconv.ParseFloat(strings.ReplaceAll(cell(9), ",", "."), 64)
	return &models.Booking{
		ID:              cell(0),
		CustomerPhone:   cell(1),
		TravelDate:      cell(2),
		TravelTime:      cell(3),
		Origin:          cell(4),
		Destination:     cell(5),
		VehicleCategory: cell(6),
		DriverID:        cell(7),
		Status:          cell(8),
		Price:           price,
		BillingType:     cell(10),
		BillingStatus:   cell(11),
	}
}

func (s *SheetsStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	ctx, cancel := sheetsContext()
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, bookingSheetRange, &sheets.ValueRange{Values: [][]interface{}{bookingRow(booking)}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append booking row: %w", err)
	}
	return booking, nil
}

// findBookingRow returns the booking and its 1-based sheet row number
func (s *SheetsStore) findBookingRow(id string) (*models.Booking, int, error) {
	ctx, cancel := sheetsContext()
	defer cancel()

	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, bookingSheetRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read booking sheet: %w", err)
	}

	for i, row := range resp.Values {
		if len(row) > 0 && strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), id) {
			return bookingFromRow(row), i + 1, nil
		}
	}
	return nil, 0, ErrNotFound
}

func (s *SheetsStore) GetBooking(id string) (*models.Booking, error) {
	booking, _, err := s.findBookingRow(id)
	return booking, err
}

func (s *SheetsStore) GetBookingsByPhone(phone string) ([]*models.Booking, error) {
	ctx, cancel := sheetsContext()
	defer cancel()

	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, bookingSheetRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read booking sheet: %w", err)
	}

	var bookings []*models.Booking
	for _, row := range resp.Values {
		booking := bookingFromRow(row)
		if utils.NormalizePhone(booking.CustomerPhone) == phone {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (s *SheetsStore) UpdateBooking(booking *models.Booking) error {
	_, rowNum, err := s.findBookingRow(booking.ID)
	if err != nil {
		return err
	}

	ctx, cancel := sheetsContext()
	defer cancel()

	writeRange := fmt.Sprintf("Reservas!A%d:L%d", rowNum, rowNum)
	_, err = s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, writeRange, &sheets.ValueRange{Values: [][]interface{}{bookingRow(booking)}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update booking row: %w", err)
	}
	return nil
}

func (s *SheetsStore) UpdateBookingStatus(id string, status string) error {
	booking, _, err := s.findBookingRow(id)
	if err != nil {
		return err
	}
	booking.Status = status
	return s.UpdateBooking(booking)
}

func (s *SheetsStore) GetUnpaidBookingsOlderThan(age time.Duration) ([]*models.Booking, error) {
	ctx, cancel := sheetsContext()
	defer cancel()

	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, bookingSheetRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read booking sheet: %w", err)
	}

	// The sheet stores the travel date, not the creation instant, so the age
	// filter works on the travel date column.
	cutoff := time.Now().Add(-age)
	var bookings []*models.Booking
	for _, row := range resp.Values {
		booking := bookingFromRow(row)
		if booking.Status != models.BookingStatusConfirmed {
			continue
		}
		travelDate, err := time.Parse("02/01/2006", booking.TravelDate)
		if err != nil {
			continue
		}
		if travelDate.Before(cutoff) {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

// Customer directory

func (s *SheetsStore) GetCustomerByPhone(phone string) (*models.Customer, error) {
	customers, err := s.GetAllCustomers()
	if err != nil {
		return nil, err
	}
	for _, customer := range customers {
		if customer.Phone == phone {
			return customer, nil
		}
	}
	return nil, ErrNotFound
}

// UpsertCustomer is not supported on the spreadsheet backend; the agency
// maintains the directory by hand.
func (s *SheetsStore) UpsertCustomer(customer *models.Customer) error {
	log.Printf("UpsertCustomer ignored on sheets store (phone %s)", customer.Phone)
	return nil
}

func (s *SheetsStore) GetAllCustomers() ([]*models.Customer, error) {
	ctx, cancel := sheetsContext()
	defer cancel()

	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, customerSheetRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read customer sheet: %w", err)
	}

	var customers []*models.Customer
	for i, row := range resp.Values {
		if i == 0 {
			continue // header row
		}
		cell := func(j int) string {
			if j < len(row) {
				return strings.TrimSpace(fmt.Sprint(row[j]))
			}
			return ""
		}
		level, _ := strconv.Atoi(cell(4))
		customers = append(customers, &models.Customer{
			Phone:   utils.NormalizePhone(cell(0)),
			Name:    cell(1),
			Company: cell(2),
			Email:   cell(3),
			Level:   level,
			Active:  strings.EqualFold(cell(5), "sim") || strings.EqualFold(cell(5), "true"),
		})
	}
	return customers, nil
}

// Price table

func (s *SheetsStore) FindRoutePrice(company, origin, destination, vehicle string) (float64, error) {
	ctx, cancel := sheetsContext()
	defer cancel()

	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, priceSheetRange).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read price sheet: %w", err)
	}

	for _, row := range resp.Values {
		cell := func(j int) string {
			if j < len(row) {
				return strings.TrimSpace(fmt.Sprint(row[j]))
			}
			return ""
		}
		if strings.EqualFold(cell(0), company) &&
			strings.EqualFold(cell(1), origin) &&
			strings.EqualFold(cell(2), destination) &&
			strings.EqualFold(cell(3), vehicle) {
			price, err := strconv.ParseFloat(strings.ReplaceAll(cell(4), ",", "."), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid price %q in sheet: %w", cell(4), err)
			}
			return price, nil
		}
	}
	return 0, ErrNotFound
}
