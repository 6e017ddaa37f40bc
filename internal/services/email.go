package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
)

// EmailSender delivers booking confirmations. Failures never reach the
// customer; callers log and move on.
type EmailSender interface {
	SendBookingConfirmation(ctx context.Context, toEmail string, booking *models.Booking) error
}

// SendGridSender sends confirmation emails via the SendGrid API
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridSender creates an email sender from environment configuration.
// Returns nil when no API key is configured, which disables email.
func NewSendGridSender() *SendGridSender {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return nil
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "reservas@jcmviagens.com"
	}

	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  "JCM Viagens",
	}
}

// SendBookingConfirmation emails the booking summary to the customer
func (s *SendGridSender) SendBookingConfirmation(ctx context.Context, toEmail string, booking *models.Booking) error {
	if toEmail == "" {
		return fmt.Errorf("customer has no email on file")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(booking.CustomerName, toEmail)
	subject := fmt.Sprintf("Confirmação de reserva %s - JCM Viagens", booking.ID)

	body := fmt.Sprintf(
		"Olá %s,\n\nSua reserva foi confirmada!\n\nReserva: %s\nOrigem: %s\nDestino: %s\nPassageiros: %d\nData: %s às %s\nVeículo: %s\nValor: R$ %.2f\n\nObrigado por viajar com a JCM Viagens!",
		booking.CustomerName, booking.ID, booking.Origin, booking.Destination,
		booking.Passengers, booking.TravelDate, booking.TravelTime,
		booking.VehicleCategory, booking.Price,
	)

	message := mail.NewSingleEmail(from, subject, to, body, body)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	log.Printf("📧 Confirmation email sent for %s to %s", booking.ID, toEmail)
	return nil
}

// StubEmailSender logs instead of sending (dev and tests)
type StubEmailSender struct{}

// SendBookingConfirmation logs the email that would have been sent
func (StubEmailSender) SendBookingConfirmation(_ context.Context, toEmail string, booking *models.Booking) error {
	log.Printf("📧 (stub) would email confirmation for %s to %s", booking.ID, toEmail)
	return nil
}
