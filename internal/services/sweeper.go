package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"dreamtrack/internal/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// PushSender delivers one notification to a user. Delivery is fire-and-forget
// from the sweep's perspective; receipts belong to another subsystem.
type PushSender interface {
	Send(userID, title, body string, data map[string]string) error
}

// SweepResult summarizes one reminder sweep for logging
type SweepResult struct {
	Checked int `json:"checked"`
	Users   int `json:"users"`
}

// ReminderSweeper is the durable backstop for reminder delivery. On a fixed
// cadence it scans for due, unsent reminders and notifies each affected user
// exactly once, marking reminder_sent_at so an entity can never be picked up
// again, even if the device-local notification path was lost entirely.
type ReminderSweeper struct {
	db       *gorm.DB
	push     PushSender
	interval time.Duration
	cron     *cron.Cron
	now      func() time.Time
}

// NewReminderSweeper creates a sweeper running every interval
func NewReminderSweeper(db *gorm.DB, push PushSender, interval time.Duration) *ReminderSweeper {
	return &ReminderSweeper{
		db:       db,
		push:     push,
		interval: interval,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start registers the sweep job and starts the scheduler loop
func (s *ReminderSweeper) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		result, err := s.SweepOnce()
		if err != nil {
			log.Printf("reminder sweep failed: %v", err)
			return
		}
		if result.Checked > 0 {
			log.Printf("reminder sweep: checked=%d users=%d", result.Checked, result.Users)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *ReminderSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepOnce runs a single sweep against the current clock.
//
// Candidates are actions that are incomplete, not archived, have a reminder
// at or before now, and have never been sent. Each candidate's parent dream
// must exist and be unarchived; failures resolving one parent drop that
// candidate only. Surviving candidates are grouped by user, claimed by a
// guarded write of reminder_sent_at (first writer wins under concurrent
// sweeps), and each user gets one aggregate push.
func (s *ReminderSweeper) SweepOnce() (SweepResult, error) {
	now := s.now()

	var candidates []models.Action
	err := s.db.
		Where("is_completed = ? AND status <> ? AND reminder IS NOT NULL AND reminder <= ? AND reminder_sent_at IS NULL",
			false, models.ActionArchived, now).
		Order("reminder asc").
		Find(&candidates).Error
	if err != nil {
		return SweepResult{}, fmt.Errorf("scan actions: %w", err)
	}

	// Parent resolution with a per-dream cache; nil means skip its actions.
	dreams := make(map[string]*models.Dream)
	resolveDream := func(id string) *models.Dream {
		if dream, ok := dreams[id]; ok {
			return dream
		}
		var dream models.Dream
		if err := s.db.First(&dream, "id = ?", id).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("reminder sweep: resolve dream %s: %v", id, err)
			}
			dreams[id] = nil
			return nil
		}
		if dream.IsArchived() {
			dreams[id] = nil
			return nil
		}
		dreams[id] = &dream
		return dreams[id]
	}

	byUser := make(map[string][]models.Action)
	var userOrder []string
	for _, action := range candidates {
		if resolveDream(action.DreamID) == nil {
			continue
		}
		if _, ok := byUser[action.UserID]; !ok {
			userOrder = append(userOrder, action.UserID)
		}
		byUser[action.UserID] = append(byUser[action.UserID], action)
	}

	users := 0
	for _, userID := range userOrder {
		actions := byUser[userID]

		// Claim before dispatch: the guarded update means the first sweep to
		// persist the flag owns the send, and a crash after this point
		// under-sends rather than double-sends.
		var claimed []models.Action
		for _, action := range actions {
			res := s.db.Model(&models.Action{}).
				Where("id = ? AND reminder_sent_at IS NULL", action.ID).
				Update("reminder_sent_at", now)
			if res.Error != nil {
				log.Printf("reminder sweep: mark %s: %v", action.ID, res.Error)
				continue
			}
			if res.RowsAffected == 0 {
				// Lost the claim to a concurrent sweep.
				continue
			}
			claimed = append(claimed, action)
		}
		if len(claimed) == 0 {
			continue
		}
		users++

		title, body, data := composeReminder(claimed, resolveDream(claimed[0].DreamID))
		if err := s.push.Send(userID, title, body, data); err != nil {
			log.Printf("reminder sweep: dispatch to user %s: %v", userID, err)
		}
	}

	return SweepResult{Checked: len(candidates), Users: users}, nil
}

// composeReminder builds one notification covering all of a user's claimed
// reminders: the single action with its dream title, or the first action
// plus a count.
func composeReminder(actions []models.Action, dream *models.Dream) (title, body string, data map[string]string) {
	title = "Dream reminder"
	first := actions[0]

	if len(actions) == 1 {
		dreamTitle := ""
		if dream != nil {
			dreamTitle = dream.Title
		}
		body = fmt.Sprintf("%s — %s", first.Text, dreamTitle)
		data = map[string]string{"type": "reminder", "entityId": first.ID}
		return title, body, data
	}

	body = fmt.Sprintf("%s and %d more", first.Text, len(actions)-1)
	data = map[string]string{
		"type":     "reminder",
		"entityId": first.ID,
		"count":    strconv.Itoa(len(actions)),
	}
	return title, body, data
}
