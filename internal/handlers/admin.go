package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcm-viagens/alinebot-backend/internal/services"
	"github.com/jcm-viagens/alinebot-backend/internal/storage"
)

// AdminHandler exposes monitoring endpoints for operators
type AdminHandler struct {
	store    storage.Store
	sessions *services.SessionManager
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Store, sessions *services.SessionManager) *AdminHandler {
	return &AdminHandler{
		store:    store,
		sessions: sessions,
	}
}

// GetSessions returns the current conversation sessions
func (h *AdminHandler) GetSessions(c *fiber.Ctx) error {
	sessions := h.sessions.Snapshot()
	return c.JSON(fiber.Map{
		"success":  true,
		"count":    len(sessions),
		"sessions": sessions,
	})
}

// GetCustomers returns the customer directory
func (h *AdminHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.store.GetAllCustomers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch customers",
		})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"count":     len(customers),
		"customers": customers,
	})
}
