package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jcm-viagens/alinebot-backend/internal/models"
	"github.com/jcm-viagens/alinebot-backend/internal/storage"
)

// adminRequiredLevel is the minimum directory level for admin commands
const adminRequiredLevel = 3

var adminPrefixes = []string{"admin ", "administrativo "}

// AdminService dispatches operator commands sent over the same WhatsApp
// channel, gated by the customer directory access level.
type AdminService struct {
	store     storage.Store
	sessions  *SessionManager
	startedAt time.Time
}

// NewAdminService creates the admin command dispatcher
func NewAdminService(store storage.Store, sessions *SessionManager) *AdminService {
	return &AdminService{
		store:     store,
		sessions:  sessions,
		startedAt: time.Now(),
	}
}

// IsAdminCommand reports whether the message carries the admin prefix
func IsAdminCommand(text string) bool {
	msg := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range adminPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// Handle runs an admin command for an already-identified sender. Callers must
// have checked IsAdminCommand first.
func (a *AdminService) Handle(customer *models.Customer, text string) string {
	if customer == nil || customer.Level < adminRequiredLevel {
		log.Printf("⛔ Admin command rejected for %s (level %d)", customerPhone(customer), customerLevel(customer))
		return "❌ Você não tem permissão. Contate o administrador."
	}

	command := strings.TrimSpace(text)
	for _, prefix := range adminPrefixes {
		if len(command) >= len(prefix) && strings.EqualFold(command[:len(prefix)], prefix) {
			command = strings.TrimSpace(command[len(prefix):])
			break
		}
	}
	lower := strings.ToLower(command)

	switch {
	case strings.HasPrefix(lower, "listar usuarios") || strings.HasPrefix(lower, "listar usuários"):
		return a.listUsers(customer)

	case strings.HasPrefix(lower, "atribuir motorista"):
		return a.assignDriver(command)

	case strings.HasPrefix(lower, "status servidor"):
		return a.serverStatus()

	default:
		return "Comando administrativo desconhecido"
	}
}

func (a *AdminService) listUsers(requester *models.Customer) string {
	customers, err := a.store.GetAllCustomers()
	if err != nil {
		log.Printf("Error listing customers: %v", err)
		return "❌ Erro ao processar comando"
	}

	lines := []string{"📋 Usuários:"}
	for _, c := range customers {
		if c.Phone == requester.Phone {
			continue
		}
		status := "inativo"
		if c.Active {
			status = "ativo"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) | Nível %d | %s", c.Name, c.Phone, c.Level, status))
	}
	if len(lines) == 1 {
		return "📋 Nenhum outro usuário cadastrado."
	}
	return strings.Join(lines, "\n")
}

// assignDriver expects: atribuir motorista <reserva> <motorista>
func (a *AdminService) assignDriver(command string) string {
	fields := strings.Fields(command)
	if len(fields) < 4 {
		return "Formato: admin atribuir motorista [RESERVA] [MOTORISTA]"
	}

	bookingID := models.NormalizeBookingID(fields[2])
	driverID := fields[3]

	booking, err := a.store.GetBooking(bookingID)
	if err != nil {
		return fmt.Sprintf("❌ Reserva %s não encontrada", bookingID)
	}

	booking.DriverID = driverID
	if err := a.store.UpdateBooking(booking); err != nil {
		log.Printf("Error assigning driver to %s: %v", bookingID, err)
		return "❌ Erro ao processar comando"
	}

	return fmt.Sprintf("✅ Motorista %s atribuído à reserva %s", driverID, bookingID)
}

func (a *AdminService) serverStatus() string {
	uptime := time.Since(a.startedAt).Round(time.Second)
	return fmt.Sprintf("🖥️ Servidor no ar há %s | Sessões ativas: %d", uptime, a.sessions.Count())
}

func customerPhone(c *models.Customer) string {
	if c == nil {
		return "unknown"
	}
	return c.Phone
}

func customerLevel(c *models.Customer) int {
	if c == nil {
		return 0
	}
	return c.Level
}
