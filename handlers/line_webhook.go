package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"log"
	"os"
	"strings"

	"siakad_go/models"

	"github.com/gofiber/fiber/v2"
	"github.com/line/line-bot-sdk-go/linebot"
	"gorm.io/gorm"
)

// LineWebhookHandler receives LINE platform events. Guardians and students
// link their LINE account by messaging the bot "link <student number>";
// linked accounts receive academic pushes.
type LineWebhookHandler struct {
	DB  *gorm.DB
	Bot *linebot.Client
}

func NewLineWebhookHandler(db *gorm.DB) *LineWebhookHandler {
	secret := os.Getenv("LINE_CHANNEL_SECRET")
	token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")

	if secret == "" || token == "" {
		log.Println("LINE credentials missing: webhook disabled")
		return &LineWebhookHandler{DB: db, Bot: nil}
	}

	bot, err := linebot.New(secret, token)
	if err != nil {
		log.Fatalf("cannot create LINE bot client: %v", err)
	}
	return &LineWebhookHandler{DB: db, Bot: bot}
}

// Handle validates the webhook signature and processes events. Responds 200
// immediately; event handling runs asynchronously.
func (h *LineWebhookHandler) Handle(c *fiber.Ctx) error {
	if h.Bot == nil {
		return c.SendStatus(fiber.StatusOK)
	}

	signature := c.Get("X-Line-Signature")
	if signature == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if !validateSignature(os.Getenv("LINE_CHANNEL_SECRET"), c.Body(), signature) {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	go func(body []byte) {
		var webhook struct {
			Events []*linebot.Event `json:"events"`
		}
		if err := json.Unmarshal(body, &webhook); err != nil {
			log.Printf("failed to parse LINE event JSON: %v", err)
			return
		}

		for _, event := range webhook.Events {
			switch event.Type {
			case linebot.EventTypeMessage:
				h.handleMessage(event)
			case linebot.EventTypeFollow:
				h.reply(event.ReplyToken,
					"Welcome. Send \"link <student number>\" to connect your account and receive academic notifications.")
			}
		}
	}(c.Body())

	return c.SendStatus(fiber.StatusOK)
}

// handleMessage processes "link <NIM>" commands from users
func (h *LineWebhookHandler) handleMessage(event *linebot.Event) {
	text, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		return
	}

	fields := strings.Fields(strings.TrimSpace(text.Text))
	if len(fields) != 2 || strings.ToLower(fields[0]) != "link" {
		h.reply(event.ReplyToken,
			"Unrecognized command. Send \"link <student number>\" to connect your account.")
		return
	}
	nim := fields[1]
	lineID := event.Source.UserID
	if lineID == "" {
		return
	}

	var student models.Student
	if err := h.DB.Preload("User").Where("nim = ?", nim).First(&student).Error; err != nil {
		h.reply(event.ReplyToken, "Student number "+nim+" was not found.")
		return
	}

	// An account already linked to a different LINE user is never taken
	// over from the webhook; an admin must clear the link first.
	if linkBlocked(student.User.LineID, lineID) {
		h.reply(event.ReplyToken,
			"Student "+nim+" is already linked to another LINE account. Ask an administrator to unlink it first.")
		return
	}

	// Link the student's own user account. Guardian accounts linked to the
	// student also get the LINE ID if they have none yet, so a parent can
	// link by sending their child's number.
	if err := h.DB.Model(&models.User{}).Where("id = ?", student.UserID).
		Update("line_id", lineID).Error; err != nil {
		log.Printf("failed to link LINE account: %v", err)
		h.reply(event.ReplyToken, "Linking failed, please try again later.")
		return
	}

	var links []models.GuardianStudent
	h.DB.Preload("Guardian").Where("student_id = ?", student.ID).Find(&links)
	for _, link := range links {
		h.DB.Model(&models.User{}).
			Where("id = ? AND (line_id IS NULL OR line_id = '')", link.Guardian.UserID).
			Update("line_id", lineID)
	}

	h.reply(event.ReplyToken, "Account linked to student "+nim+". You will now receive academic notifications.")
}

func (h *LineWebhookHandler) reply(replyToken, message string) {
	if h.Bot == nil || replyToken == "" {
		return
	}
	if _, err := h.Bot.ReplyMessage(replyToken, linebot.NewTextMessage(message)).Do(); err != nil {
		log.Printf("failed to reply LINE message: %v", err)
	}
}

// linkBlocked reports whether a link request must be refused because the
// account already belongs to a different LINE user
func linkBlocked(existing, incoming string) bool {
	return existing != "" && existing != incoming
}

// validateSignature checks the X-Line-Signature HMAC over the raw body
func validateSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
