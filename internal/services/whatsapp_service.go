package services

import (
	"fmt"
	"strings"

	"dreamtrack/internal/config"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppService wraps the Twilio messaging operations reminders need
type WhatsAppService struct {
	client *twilio.RestClient
	from   string
}

// NewWhatsAppService creates a Twilio client bound to the configured sender number
func NewWhatsAppService(cfg *config.Config) *WhatsAppService {
	return &WhatsAppService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioWhatsAppNumber,
	}
}

// SendWhatsApp sends a WhatsApp message via Twilio's API
func (s *WhatsAppService) SendWhatsApp(to, body string) error {
	sender := normalizeWhatsAppAddress(s.from)
	if sender == "" {
		return fmt.Errorf("twilio sender WhatsApp number is not configured")
	}
	recipient := normalizeWhatsAppAddress(to)
	if recipient == "" {
		return fmt.Errorf("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send message: %w", err)
	}
	return nil
}

func normalizeWhatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "whatsapp:") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		return "whatsapp:" + trimmed
	}
	return "whatsapp:+" + trimmed
}
