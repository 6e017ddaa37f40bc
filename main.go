package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/jcm-viagens/alinebot-backend/database"
	"github.com/jcm-viagens/alinebot-backend/internal/jobs"
	"github.com/jcm-viagens/alinebot-backend/internal/models"
	"github.com/jcm-viagens/alinebot-backend/internal/routes"
	"github.com/jcm-viagens/alinebot-backend/internal/services"
	"github.com/jcm-viagens/alinebot-backend/internal/storage"
	"github.com/jcm-viagens/alinebot-backend/internal/utils"
)

func main() {
	// Load .env for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - using environment variables")
		}
	}

	store := buildStore()
	storage.SetStore(store)
	seedAdminCustomer(store)

	// Twilio is optional: the webhook replies with TwiML either way, only
	// push messages (support handoff, reminders) need the REST client.
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio service not initialized: %v", err)
		twilioService = nil
	} else {
		log.Println("✅ Twilio service initialized")
	}

	var emailSender services.EmailSender
	if sender := services.NewSendGridSender(); sender != nil {
		emailSender = sender
		log.Println("✅ SendGrid email sender initialized")
	} else {
		emailSender = services.StubEmailSender{}
		log.Println("⚠️  SENDGRID_API_KEY not set - confirmation emails disabled")
	}

	sessionManager := services.NewSessionManager()
	adminService := services.NewAdminService(store, sessionManager)
	conversation := services.NewConversationService(store, sessionManager, adminService, twilioService, emailSender)

	reminderJob := jobs.NewReminderJob(store, twilioService)
	reminderJob.Start()

	app := fiber.New(fiber.Config{
		AppName: "AlineBot Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "AlineBot Backend",
			"version": "1.0.0",
			"status":  "healthy",
			"storage": storageType(),
			"whatsapp": fiber.Map{
				"configured": twilioService != nil,
			},
			"sessions": sessionManager.Count(),
		})
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := fiber.StatusOK
		if storageType() == "PostgreSQL" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = fiber.StatusServiceUnavailable
			}
		}
		return c.Status(statusCode).JSON(fiber.Map{"status": status})
	})

	routes.SetupRoutes(app, store, conversation, sessionManager)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("\n🛑 Gracefully shutting down...")
		reminderJob.Stop()
		sessionManager.Stop()
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 AlineBot Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", storageType())
	log.Printf("📱 WhatsApp: %s", whatsappStatus(twilioService))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// buildStore picks the record store backend from the environment:
// in-memory for tests, Google Sheets when a spreadsheet is configured,
// PostgreSQL otherwise.
func buildStore() storage.Store {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		return storage.NewMemoryStore()
	}

	if sheetID := os.Getenv("GOOGLE_SHEETS_ID"); sheetID != "" {
		creds := os.Getenv("GOOGLE_CREDS_JSON")
		store, err := storage.NewSheetsStore(sheetID, []byte(creds))
		if err != nil {
			log.Fatal("Failed to initialize Google Sheets store:", err)
		}
		log.Println("✅ Using Google Sheets storage")
		return store
	}

	log.Println("📦 Connecting to PostgreSQL database...")
	database.Connect()

	log.Println("🔄 Running database migrations...")
	err := database.DB.AutoMigrate(
		&models.Booking{},
		&models.Customer{},
		&models.RoutePrice{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("✅ Database migrations completed!")

	return storage.NewDatabaseStore(database.DB)
}

// seedAdminCustomer bootstraps the first operator account from the
// environment so admin commands work on a fresh database.
func seedAdminCustomer(store storage.Store) {
	phone := os.Getenv("ADMIN_PHONE")
	if phone == "" {
		return
	}

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrador"
	}

	err := store.UpsertCustomer(&models.Customer{
		Phone:   utils.NormalizePhone(phone),
		Name:    name,
		Company: "JCM",
		Level:   5,
		Active:  true,
	})
	if err != nil {
		log.Printf("⚠️  Failed to seed admin customer: %v", err)
		return
	}
	log.Printf("✅ Admin customer seeded (%s)", name)
}

func storageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	if os.Getenv("GOOGLE_SHEETS_ID") != "" {
		return "Google Sheets"
	}
	return "PostgreSQL"
}

func whatsappStatus(t *services.TwilioService) string {
	if t == nil {
		return "Not configured"
	}
	return "Configured"
}
