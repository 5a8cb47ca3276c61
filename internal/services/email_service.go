package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/smtp"
	"net/textproto"
	"time"

	"go.uber.org/zap"

	"github.com/example/mrzion/internal/config"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// Email is one outgoing message with plain text and HTML bodies.
type Email struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	FromName string
}

// EmailSender delivers a single email.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// NewEmailSender picks the transport named by EMAIL_PROVIDER. Unknown or
// incomplete settings fall back to logging the message.
func NewEmailSender(cfg *config.Config, logger *zap.Logger) EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if cfg.SendGridAPIKey != "" {
			return NewSendGridSender(cfg.SendGridAPIKey, cfg.DefaultFromEmail, cfg.EmailFromName)
		}
		logger.Warn("SENDGRID_API_KEY is empty, emails will only be logged")
	case "smtp":
		if cfg.SMTPHost != "" {
			return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.DefaultFromEmail, cfg.EmailFromName)
		}
		logger.Warn("SMTP_HOST is empty, emails will only be logged")
	}
	return NewLogSender(logger)
}

// SendGridSender posts messages to the SendGrid v3 mail API.
type SendGridSender struct {
	apiKey   string
	from     string
	fromName string
	endpoint string
	client   *http.Client
}

func NewSendGridSender(apiKey, from, fromName string) *SendGridSender {
	return &SendGridSender{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
		endpoint: sendGridEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To      []sendGridAddress `json:"to"`
	Subject string            `json:"subject"`
}

type sendGridMessage struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Content          []sendGridContent         `json:"content"`
}

func (s *SendGridSender) Send(ctx context.Context, email Email) error {
	fromName := email.FromName
	if fromName == "" {
		fromName = s.fromName
	}

	msg := sendGridMessage{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: email.To}}, Subject: email.Subject},
		},
		From: sendGridAddress{Email: s.from, Name: fromName},
		Content: []sendGridContent{
			{Type: "text/plain", Value: email.Text},
			{Type: "text/html", Value: email.HTML},
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}

// SMTPSender delivers mail through an authenticated SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

func NewSMTPSender(host, port, username, password, from, fromName string) *SMTPSender {
	if from == "" {
		from = username
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fromName := email.FromName
	if fromName == "" {
		fromName = s.fromName
	}

	msg, err := buildMIMEMessage(mime.QEncoding.Encode("utf-8", fromName)+" <"+s.from+">", email)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{email.To}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func buildMIMEMessage(from string, email Email) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		value       string
	}{
		{"text/plain; charset=UTF-8", email.Text},
		{"text/html; charset=UTF-8", email.HTML},
	}
	for _, p := range parts {
		part, err := writer.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := part.Write([]byte(p.value)); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + email.To + "\r\n")
	msg.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", email.Subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/alternative; boundary=" + writer.Boundary() + "\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

// LogSender only logs messages. Used in development.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, email Email) error {
	s.logger.Info("email",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("text", email.Text),
	)
	return nil
}
