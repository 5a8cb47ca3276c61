package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/mrzion/internal/models"
)

const telegramAPIBase = "https://api.telegram.org"

// AdminNotifier tells the site owner about paid orders and new leads.
type AdminNotifier interface {
	NotifyPaymentSuccess(ctx context.Context, payment models.Payment) error
	NotifyNewLead(ctx context.Context, lead LeadNotification) error
}

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
	apiBase     string
	client      *http.Client
	logger      *zap.Logger
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string, logger *zap.Logger) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		apiBase:     telegramAPIBase,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(ctx context.Context, chatID, text string) error {
	if s.botToken == "" {
		s.logger.Debug("telegram bot token not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)

	body, err := json.Marshal(telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(ctx context.Context, text string) error {
	if s.adminChatID == "" {
		s.logger.Debug("telegram admin chat not configured")
		return nil
	}
	return s.SendMessage(ctx, s.adminChatID, text)
}

// NotifyPaymentSuccess sends notification about a fulfilled payment.
func (s *TelegramService) NotifyPaymentSuccess(ctx context.Context, payment models.Payment) error {
	message := fmt.Sprintf(`<b>✅ PAYMENT RECEIVED</b>
<b>📦 Type:</b> %s
<b>🏷 Item:</b> %s
<b>💰 Amount:</b> %s
<b>👤 Customer:</b> %s
<b>✉️ Email:</b> %s
<b>🆔 Payment:</b> %s
━━━━━━━━━━━━━━━━━━`,
		payment.PaymentType,
		html.EscapeString(payment.ItemName),
		FormatPrice(payment.Amount.StringFixed(2), payment.Currency),
		html.EscapeString(payment.FullName),
		html.EscapeString(payment.Email),
		payment.ID,
	)

	return s.SendToAdmin(ctx, message)
}

// LeadNotification is a summary of a submitted lead form.
type LeadNotification struct {
	Kind   string
	Name   string
	Email  string
	Fields [][2]string
}

// NotifyNewLead sends notification about a new contact, call or speaker request.
func (s *TelegramService) NotifyNewLead(ctx context.Context, lead LeadNotification) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📨 NEW %s</b>\n", strings.ToUpper(html.EscapeString(lead.Kind)))
	fmt.Fprintf(&b, "<b>👤 Name:</b> %s\n", html.EscapeString(lead.Name))
	fmt.Fprintf(&b, "<b>✉️ Email:</b> %s\n", html.EscapeString(lead.Email))
	for _, field := range lead.Fields {
		if field[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "<b>%s:</b> %s\n", html.EscapeString(field[0]), html.EscapeString(field[1]))
	}
	b.WriteString("━━━━━━━━━━━━━━━━━━")

	return s.SendToAdmin(ctx, b.String())
}

// FormatPrice formats a fixed-point amount with thousand separators.
func FormatPrice(amount, currency string) string {
	whole, frac, _ := strings.Cut(amount, ".")
	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}

	var result strings.Builder
	length := len(whole)
	for i, digit := range whole {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	out := sign + result.String()
	if frac != "" {
		out += "." + frac
	}
	return out + " " + strings.ToUpper(currency)
}
