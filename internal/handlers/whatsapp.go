package handlers

import (
	"bytes"
	"encoding/xml"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/jcm-viagens/alinebot-backend/internal/services"
)

// internalErrorReply is the catch-all message; the customer never sees a raw
// error or an empty reply.
const internalErrorReply = "⚠️ Ocorreu um erro interno. Tente novamente."

// WhatsAppHandler handles the Twilio WhatsApp webhook
type WhatsAppHandler struct {
	conversation *services.ConversationService
}

// NewWhatsAppHandler creates a new WhatsApp webhook handler
func NewWhatsAppHandler(conversation *services.ConversationService) *WhatsAppHandler {
	return &WhatsAppHandler{conversation: conversation}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid          string `form:"MessageSid"`
	AccountSid          string `form:"AccountSid"`
	MessagingServiceSid string `form:"MessagingServiceSid"`
	From                string `form:"From"` // "whatsapp:+5511972508430"
	To                  string `form:"To"`
	Body                string `form:"Body"`
	NumMedia            string `form:"NumMedia"`
}

// HandleWebhook processes one inbound message and answers with TwiML
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Status callbacks and media-only events carry no body; just ack them.
	if payload.From == "" || payload.Body == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	log.Printf("📱 WhatsApp message from %s: %s", payload.From, payload.Body)

	reply, err := h.conversation.ProcessMessage(payload.From, payload.Body)
	if err != nil {
		log.Printf("❌ Error processing message from %s: %v", payload.From, err)
		reply = internalErrorReply
	}
	if reply == "" {
		reply = internalErrorReply
	}

	return sendTwiML(c, reply)
}

// sendTwiML wraps the reply in the messaging response Twilio expects
func sendTwiML(c *fiber.Ctx, message string) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<Response><Message>")
	_ = xml.EscapeText(&buf, []byte(message))
	buf.WriteString("</Message></Response>")

	c.Set(fiber.HeaderContentType, "text/xml")
	return c.Send(buf.Bytes())
}

// TestWebhookPayload is the JSON shape for the development test endpoint
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test messages without Twilio (development only)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	reply, err := h.conversation.ProcessMessage(payload.From, payload.Message)
	if err != nil {
		log.Printf("Error processing test message: %v", err)
		reply = internalErrorReply
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"response": reply,
	})
}
