package services

import (
	"fmt"

	"dreamtrack/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		client:    sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromEmail: cfg.SendgridFromEmail,
		fromName:  cfg.SendgridFromName,
	}
}

// SendReminderEmail delivers one reminder notification as email
func (s *EmailService) SendReminderEmail(toEmail, toName, title, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	plainContent := fmt.Sprintf("Hello %s, %s", toName, body)
	htmlContent := fmt.Sprintf("<p>Hello %s,</p><p><strong>%s</strong></p>", toName, body)

	message := mail.NewSingleEmail(from, title, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d", toEmail, response.StatusCode)
	}
	return nil
}
