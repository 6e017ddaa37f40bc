package jobs

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
	"github.com/jcm-viagens/alinebot-backend/internal/services"
	"github.com/jcm-viagens/alinebot-backend/internal/storage"
)

// ReminderJob nudges customers with confirmed but unpaid reservations
type ReminderJob struct {
	store         storage.Store
	twilioService *services.TwilioService

	interval time.Duration
	unpaidBy time.Duration

	mu        sync.Mutex
	isRunning bool
	stop      chan struct{}
}

// NewReminderJob creates the payment reminder scheduler
func NewReminderJob(store storage.Store, twilioService *services.TwilioService) *ReminderJob {
	return &ReminderJob{
		store:         store,
		twilioService: twilioService,
		interval:      30 * time.Minute,
		unpaidBy:      24 * time.Hour,
	}
}

// Start begins the periodic reminder sweep
func (r *ReminderJob) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		log.Println("Reminder job already running")
		return
	}
	r.isRunning = true
	r.stop = make(chan struct{})

	go r.run(r.stop)
	log.Println("💳 Payment reminder job started")
}

// Stop halts the reminder sweep
func (r *ReminderJob) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}
	r.isRunning = false
	close(r.stop)
	log.Println("Stopping payment reminder job...")
}

func (r *ReminderJob) run(stop chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sendPaymentReminders()
		case <-stop:
			return
		}
	}
}

// sendPaymentReminders messages every customer holding an aging unpaid booking
func (r *ReminderJob) sendPaymentReminders() {
	if r.twilioService == nil {
		return
	}

	bookings, err := r.store.GetUnpaidBookingsOlderThan(r.unpaidBy)
	if err != nil {
		log.Printf("Error fetching unpaid bookings: %v", err)
		return
	}

	sent := 0
	for _, booking := range bookings {
		msg := paymentReminderMessage(booking)
		if err := r.twilioService.SendWhatsAppMessage(booking.CustomerPhone, msg); err != nil {
			log.Printf("Error sending payment reminder for %s: %v", booking.ID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("💳 Sent %d payment reminders", sent)
	}
}

func paymentReminderMessage(b *models.Booking) string {
	return fmt.Sprintf(
		"💳 Lembrete: a reserva %s (%s → %s, %s) aguarda pagamento de R$ %.2f.\n"+
			"Digite *PAGAR* para receber o link.",
		b.ID, b.Origin, b.Destination, b.TravelDate, b.Price,
	)
}
