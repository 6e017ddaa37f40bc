package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
	"github.com/jcm-viagens/alinebot-backend/internal/storage"
	"github.com/jcm-viagens/alinebot-backend/internal/utils"
)

// sessionIdleReset forces an idle conversation back to the start. Eviction of
// the session itself happens later, in the SessionManager sweep.
const sessionIdleReset = 30 * time.Minute

const paymentLink = "https://jcmviagens.com/pagar"

// Canned texts. The command menu doubles as the help reply, so HELP is
// idempotent from any state.
const (
	menuText = "*Comandos disponíveis:*\n" +
		"- RESERVA: Nova reserva\n" +
		"- STATUS: Verificar reserva\n" +
		"- PAGAR: Pagamento\n" +
		"- CANCELAR: Cancelamento\n" +
		"- SUPORTE: Atendente humano"

	bookingFormatText = "RESERVA [ORIGEM] para [DESTINO] - [PESSOAS] pessoas - [DATA]"

	bookingPromptText = "✈️ Para reservar, envie:\n" + bookingFormatText +
		"\n\nExemplo:\nRESERVA GRU para São Paulo - 4 pessoas - 20/07"

	bookingRetryText = "📝 Formato incorreto. Envie no formato:\n" + bookingFormatText

	restartText = "🔄 Reiniciando conversa... Digite *OI* para começar"

	rejectionText = "❌ Você não tem permissão. Contate o administrador."

	notUnderstoodText = "Não entendi. Digite *OI* ou *AJUDA* para ver opções"

	unknownOptionText = "⚠️ Opção não reconhecida. Digite *AJUDA* para ver opções"

	postBookingMenuText = "O que deseja fazer agora?\n" +
		"1️⃣ Alterar reserva\n" +
		"2️⃣ Cancelar reserva\n" +
		"3️⃣ Falar com atendente\n" +
		"4️⃣ Encerrar"
)

// greetingAckPool answers greetings outside the initial state
var greetingAckPool = []string{
	"👋 Olá! Como posso ajudar?",
	"Oi! 😊 Em que posso ajudar?",
	"Olá! Precisa de algo mais?",
}

// ConversationService is the message-processing core: it classifies each
// inbound message, runs the per-phone state machine and produces the reply.
type ConversationService struct {
	store        storage.Store
	sessions     *SessionManager
	admin        *AdminService
	twilioSvc    *TwilioService
	email        EmailSender
	smallTalk    *SmallTalkResponder
	supportPhone string

	now func() time.Time
}

// NewConversationService wires the state machine to its collaborators.
// twilioSvc and email may be nil; the matching side effects degrade to logs.
func NewConversationService(store storage.Store, sessions *SessionManager, admin *AdminService, twilioSvc *TwilioService, email EmailSender) *ConversationService {
	return &ConversationService{
		store:        store,
		sessions:     sessions,
		admin:        admin,
		twilioSvc:    twilioSvc,
		email:        email,
		smallTalk:    NewSmallTalkResponder(rand.NewSource(time.Now().UnixNano())),
		supportPhone: os.Getenv("SUPPORT_AGENT_PHONE"),
		now:          time.Now,
	}
}

// ProcessMessage handles one inbound WhatsApp message and returns the reply
func (c *ConversationService) ProcessMessage(from, body string) (string, error) {
	phone := utils.NormalizePhone(from)
	body = strings.TrimSpace(body)
	if phone == "" || body == "" {
		return notUnderstoodText, nil
	}

	log.Printf("💬 Message from %s: %q", phone, body)

	customer := c.lookupCustomer(phone)

	reply := c.sessions.WithSession(phone, func(s *Session) string {
		now := c.now()

		// Inactive directory entries are locked out. Only the activity
		// timestamp moves.
		if !customer.Active {
			s.LastActivity = now
			return rejectionText
		}

		reply := c.handleTurn(s, customer, body, now)
		s.LastActivity = now
		return reply
	})

	return reply, nil
}

// handleTurn evaluates global overrides, then the state-specific transitions
func (c *ConversationService) handleTurn(s *Session, customer *models.Customer, body string, now time.Time) string {
	// Expired conversation: restart and swallow the message.
	if s.State != StateInitial && now.Sub(s.LastActivity) > sessionIdleReset {
		s.Reset()
		return restartText
	}

	// Corrupted state value heals itself the same way.
	if !knownStates[s.State] {
		log.Printf("⚠️ Unknown session state %q for %s, resetting", s.State, s.Phone)
		s.Reset()
		return restartText
	}

	// A first contact gets the welcome no matter what was said.
	if s.State == StateInitial && s.FirstContact {
		s.FirstContact = false
		s.State = StateAwaitingAction
		return c.welcome(customer, now)
	}

	// Admin side-branch, privilege-gated. The explicit prefix wins over the
	// keyword scan ("admin status servidor" must not read as a status query).
	if IsAdminCommand(body) {
		return c.admin.Handle(customer, body)
	}

	intent := Classify(body)

	// Universal commands work from any state.
	switch intent {
	case IntentHelp:
		if s.State == StateInitial {
			s.State = StateAwaitingAction
			return c.welcome(customer, now)
		}
		return menuText

	case IntentStatus:
		return c.reportStatus(s)

	case IntentCancel:
		if s.State == StateInitial || s.State == StateAwaitingAction {
			s.State = StateAwaitingCancelID
			return "❌ Digite o número da reserva que deseja cancelar:"
		}
		s.Reset()
		return "🔄 Operação cancelada. Digite *OI* para recomeçar"

	case IntentSupport:
		return c.startSupport(s)
	}

	// Small talk answers in place.
	if category, ok := DetectSmallTalk(body); ok {
		return c.smallTalk.Pick(category)
	}
	if intent == IntentGreeting && s.State != StateInitial {
		return c.smallTalk.pickFrom(greetingAckPool)
	}

	switch s.State {
	case StateInitial:
		if intent == IntentGreeting {
			s.State = StateAwaitingAction
			return c.welcome(customer, now)
		}
		return notUnderstoodText

	case StateAwaitingAction:
		return c.dispatchAction(s, intent)

	case StateAwaitingBookingDetails:
		return c.confirmBooking(s, customer, body, now)

	case StateAwaitingReservationID:
		s.State = StateInitial
		return c.describeBooking(body)

	case StateAwaitingCancelID:
		s.State = StateInitial
		return c.cancelBooking(body)

	case StateAwaitingPaymentID:
		s.State = StateInitial
		return c.paymentForBooking(body)

	case StateSupportActive:
		s.Reset()
		return "👩‍💼 Nosso atendente dará continuidade por aqui. Digite *OI* para voltar ao menu."

	case StateConfirmation:
		s.Reset()
		return "✅ Tudo certo! Digite *OI* para um novo atendimento."

	case StatePostBookingMenu:
		return c.postBookingChoice(s, body)

	default:
		// Unreachable: knownStates is checked above. Kept for safety.
		s.Reset()
		return restartText
	}
}

// welcome builds the time-of-day salutation plus the command menu
func (c *ConversationService) welcome(customer *models.Customer, now time.Time) string {
	var salutation string
	switch hour := now.Hour(); {
	case hour < 12:
		salutation = "Bom dia"
	case hour < 18:
		salutation = "Boa tarde"
	default:
		salutation = "Boa noite"
	}

	if name := customer.FirstName(); name != "" {
		salutation = fmt.Sprintf("%s, %s! Que bom te ver de novo. ", salutation, name)
	} else {
		salutation = salutation + "! "
	}

	return salutation + "Bem-vindo(a) à JCM Viagens 🧳✨\n\n" + menuText
}

// dispatchAction routes the menu-level intents to their sub-states
func (c *ConversationService) dispatchAction(s *Session, intent Intent) string {
	switch intent {
	case IntentBook:
		s.State = StateAwaitingBookingDetails
		return bookingPromptText

	case IntentPay:
		s.State = StateAwaitingPaymentID
		return "💳 Link para pagamento: " + paymentLink +
			"\n\nEnvie o número da reserva para pagamento específico"

	case IntentContinue:
		return menuText

	default:
		return unknownOptionText
	}
}

// confirmBooking parses the free-text booking request and persists it. Parse
// failures keep the customer in this state for another attempt.
func (c *ConversationService) confirmBooking(s *Session, customer *models.Customer, body string, now time.Time) string {
	draft, err := ParseBookingRequest(body, now)
	if err != nil {
		log.Printf("📝 Booking parse failed for %s: %v", s.Phone, err)
		if errors.Is(err, ErrInvalidPassengers) {
			return "📝 Número de pessoas inválido. " + bookingRetryText
		}
		return bookingRetryText
	}
	s.Draft = draft

	vehicle, price := models.VehicleForPassengers(draft.Passengers)
	if negotiated, err := c.store.FindRoutePrice(customer.Company, draft.Origin, draft.Destination, vehicle); err == nil {
		price = negotiated
	}

	booking := &models.Booking{
		ID:              models.NewBookingID(now),
		CustomerPhone:   s.Phone,
		CustomerName:    customer.Name,
		Origin:          draft.Origin,
		Destination:     draft.Destination,
		Passengers:      draft.Passengers,
		TravelDate:      draft.TravelDate,
		TravelTime:      draft.TravelTime,
		VehicleCategory: vehicle,
		Status:          models.BookingStatusConfirmed,
		Price:           price,
		BillingType:     "avulso",
		BillingStatus:   models.BillingStatusOpen,
	}

	if _, err := c.store.CreateBooking(booking); err != nil {
		log.Printf("❌ Failed to persist booking %s: %v", booking.ID, err)
		s.Draft = nil
		s.State = StateConfirmation
		return "✅ Reserva registrada localmente! Em instantes enviaremos a confirmação."
	}

	c.sendConfirmationEmail(customer, booking)

	// The draft stays on the session so "alterar" in the post-booking menu
	// can echo what was just booked.
	s.State = StatePostBookingMenu
	return FormatBookingConfirmation(booking) + "\n\n" + postBookingMenuText
}

// FormatBookingConfirmation renders the confirmation message. The trip fields
// appear exactly as parsed so the customer can double-check what they asked.
func FormatBookingConfirmation(b *models.Booking) string {
	return fmt.Sprintf(
		"✅ *Reserva confirmada!*\n\n"+
			"Reserva: %s\n"+
			"Origem: %s\n"+
			"Destino: %s\n"+
			"Passageiros: %d pessoas\n"+
			"Data: %s às %s\n"+
			"Veículo: %s\n"+
			"Valor: R$ %.2f\n"+
			"Status: %s",
		b.ID, b.Origin, b.Destination, b.Passengers,
		b.TravelDate, b.TravelTime, b.VehicleCategory, b.Price, b.Status,
	)
}

// reportStatus lists the customer's bookings, or asks for an identifier when
// there is nothing on file to report.
func (c *ConversationService) reportStatus(s *Session) string {
	bookings, err := c.store.GetBookingsByPhone(s.Phone)
	if err != nil {
		log.Printf("❌ Status lookup failed for %s: %v", s.Phone, err)
		return "🔍 Não consegui consultar suas reservas agora. Tente novamente em instantes."
	}

	if len(bookings) == 0 {
		s.State = StateAwaitingReservationID
		return "🔍 Digite o número da reserva para verificar o status:"
	}

	lines := []string{"🔍 Suas reservas:"}
	for _, b := range bookings {
		lines = append(lines, fmt.Sprintf("• %s | %s → %s | %s %s | %s",
			b.ID, b.Origin, b.Destination, b.TravelDate, b.TravelTime, b.Status))
	}
	return strings.Join(lines, "\n")
}

// startSupport opens a ticket reference and pings the human agent
func (c *ConversationService) startSupport(s *Session) string {
	ticket := "ATD-" + strings.ToUpper(uuid.NewString()[:8])
	s.State = StateSupportActive

	if c.twilioSvc != nil && c.supportPhone != "" {
		go func(phone, ticket string) {
			msg := fmt.Sprintf("🔔 Cliente %s aguarda atendimento (protocolo %s)", phone, ticket)
			if err := c.twilioSvc.SendWhatsAppMessage(c.supportPhone, msg); err != nil {
				log.Printf("Failed to notify support agent: %v", err)
			}
		}(s.Phone, ticket)
	}

	return fmt.Sprintf("⏳ Redirecionando para atendente humano...\nProtocolo de atendimento: %s", ticket)
}

func (c *ConversationService) describeBooking(body string) string {
	id := models.NormalizeBookingID(body)
	booking, err := c.store.GetBooking(id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("❌ Booking lookup failed for %s: %v", id, err)
		}
		return fmt.Sprintf("❌ Reserva %s não encontrada. Confira o número e tente novamente.", id)
	}
	return FormatBookingConfirmation(booking)
}

func (c *ConversationService) cancelBooking(body string) string {
	id := models.NormalizeBookingID(body)
	if err := c.store.UpdateBookingStatus(id, models.BookingStatusCancelled); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("❌ Cancellation failed for %s: %v", id, err)
		}
		return fmt.Sprintf("❌ Reserva %s não encontrada. Confira o número e tente novamente.", id)
	}
	return fmt.Sprintf("✅ Reserva %s cancelada. Esperamos te ver em breve!", id)
}

func (c *ConversationService) paymentForBooking(body string) string {
	id := models.NormalizeBookingID(body)
	booking, err := c.store.GetBooking(id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("❌ Payment lookup failed for %s: %v", id, err)
		}
		return fmt.Sprintf("❌ Reserva %s não encontrada. Confira o número e tente novamente.", id)
	}
	return fmt.Sprintf("💳 Pagamento da reserva %s (R$ %.2f):\n%s?reserva=%s",
		booking.ID, booking.Price, paymentLink, booking.ID)
}

// postBookingChoice branches on the numbered menu after a confirmation
func (c *ConversationService) postBookingChoice(s *Session, body string) string {
	choice := strings.ToLower(strings.TrimSpace(body))
	switch {
	case choice == "1" || strings.Contains(choice, "alterar"):
		s.State = StateAwaitingBookingDetails
		prompt := "✏️ Envie a reserva corrigida:\n" + bookingFormatText
		if d := s.Draft; d != nil {
			prompt = fmt.Sprintf("✏️ Reserva atual: %s para %s - %d pessoas - %s às %s\n\n",
				d.Origin, d.Destination, d.Passengers, d.TravelDate, d.TravelTime) + prompt
		}
		return prompt

	case choice == "2":
		s.Draft = nil
		s.State = StateAwaitingCancelID
		return "❌ Digite o número da reserva que deseja cancelar:"

	case choice == "3":
		s.Draft = nil
		return c.startSupport(s)

	default:
		s.Reset()
		return "🧳 Obrigado por escolher a JCM Viagens! Até a próxima."
	}
}

// sendConfirmationEmail fires the confirmation email without blocking the
// reply. Errors are logged only; the customer already got the confirmation.
func (c *ConversationService) sendConfirmationEmail(customer *models.Customer, booking *models.Booking) {
	if c.email == nil || customer.Email == "" {
		return
	}

	email := customer.Email
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := c.email.SendBookingConfirmation(ctx, email, booking); err != nil {
			log.Printf("📧 Confirmation email failed for %s: %v", booking.ID, err)
		}
	}()
}

// lookupCustomer resolves the phone against the directory, falling back to
// an active level-0 guest. Never returns nil.
func (c *ConversationService) lookupCustomer(phone string) *models.Customer {
	customer, err := c.store.GetCustomerByPhone(phone)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("⚠️ Customer lookup failed for %s: %v", phone, err)
		}
		return models.GuestCustomer(phone)
	}
	return customer
}
