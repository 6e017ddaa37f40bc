package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/jcm-viagens/alinebot-backend/internal/handlers"
	"github.com/jcm-viagens/alinebot-backend/internal/middleware"
	"github.com/jcm-viagens/alinebot-backend/internal/services"
	"github.com/jcm-viagens/alinebot-backend/internal/storage"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, store storage.Store, conversation *services.ConversationService, sessions *services.SessionManager) {
	whatsappHandler := handlers.NewWhatsAppHandler(conversation)
	adminHandler := handlers.NewAdminHandler(store, sessions)

	// WhatsApp webhook. Signature validation is skipped in development so
	// ngrok tunnels work.
	webhooks := app.Group("/webhook")
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/whatsapp", whatsappHandler.HandleWebhook)
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(), whatsappHandler.HandleWebhook)
	}

	// Test endpoint (development only)
	if os.Getenv("ENVIRONMENT") == "development" {
		app.Post("/test/whatsapp", whatsappHandler.HandleTestWebhook)
	}

	// Monitoring endpoints
	admin := app.Group("/admin")
	admin.Get("/sessions", adminHandler.GetSessions)
	admin.Get("/customers", adminHandler.GetCustomers)
}
