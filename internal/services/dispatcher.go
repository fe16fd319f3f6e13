package services

import (
	"encoding/json"
	"fmt"
	"log"

	"dreamtrack/internal/models"

	"gorm.io/gorm"
)

// Dispatcher fans a reminder push out to a user's channels: the in-app
// notification feed always, email and WhatsApp per account opt-in. Channel
// failures are logged, not returned; only a missing account or a failed feed
// write count as dispatch errors.
type Dispatcher struct {
	db       *gorm.DB
	email    *EmailService
	whatsapp *WhatsAppService
}

// NewDispatcher creates a dispatcher. Either channel service may be nil when
// the corresponding credentials are not configured.
func NewDispatcher(db *gorm.DB, email *EmailService, whatsapp *WhatsAppService) *Dispatcher {
	return &Dispatcher{
		db:       db,
		email:    email,
		whatsapp: whatsapp,
	}
}

// Send implements PushSender
func (d *Dispatcher) Send(userID, title, body string, data map[string]string) error {
	var account models.Account
	if err := d.db.First(&account, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("dispatch: account %s: %w", userID, err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("dispatch: encode payload: %w", err)
	}
	notification := models.Notification{
		UserID: userID,
		Type:   models.NotificationTypeReminder,
		Title:  title,
		Body:   body,
		Data:   payload,
	}
	if err := d.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("dispatch: create notification: %w", err)
	}

	if account.EmailReminders && d.email != nil {
		if err := d.email.SendReminderEmail(account.Email, account.Username, title, body); err != nil {
			log.Printf("dispatch: email to %s: %v", account.Email, err)
		}
	}
	if account.WhatsAppReminders && account.WhatsAppNumber != "" && d.whatsapp != nil {
		if err := d.whatsapp.SendWhatsApp(account.WhatsAppNumber, title+"\n"+body); err != nil {
			log.Printf("dispatch: whatsapp to %s: %v", account.WhatsAppNumber, err)
		}
	}
	return nil
}
