package services

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dreamtrack/internal/database"
	"dreamtrack/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1",
		name, atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type sentPush struct {
	userID string
	title  string
	body   string
	data   map[string]string
}

type fakePush struct {
	sends []sentPush
	err   error
}

func (f *fakePush) Send(userID, title, body string, data map[string]string) error {
	f.sends = append(f.sends, sentPush{userID: userID, title: title, body: body, data: data})
	return f.err
}

func newTestSweeper(db *gorm.DB, push PushSender, now time.Time) *ReminderSweeper {
	s := NewReminderSweeper(db, push, time.Minute)
	s.now = func() time.Time { return now }
	return s
}

// createAccount satisfies the dream owner foreign key; the test DBs run with
// sqlite foreign keys enabled.
func createAccount(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	account := models.Account{
		ID:       id,
		GoogleID: "g-" + id,
		Username: id,
		Email:    id + "@example.com",
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create account %s: %v", id, err)
	}
}

func createDream(t *testing.T, db *gorm.DB, id, userID, title string, status models.DreamStatus) {
	t.Helper()
	dream := models.Dream{ID: id, UserID: userID, Title: title, Status: status}
	if err := db.Create(&dream).Error; err != nil {
		t.Fatalf("create dream %s: %v", id, err)
	}
}

func createAction(t *testing.T, db *gorm.DB, action models.Action) {
	t.Helper()
	if err := db.Create(&action).Error; err != nil {
		t.Fatalf("create action %s: %v", action.ID, err)
	}
}

func loadAction(t *testing.T, db *gorm.DB, id string) models.Action {
	t.Helper()
	var action models.Action
	if err := db.First(&action, "id = ?", id).Error; err != nil {
		t.Fatalf("load action %s: %v", id, err)
	}
	return action
}

func TestSweepOnceSendsDueReminder(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-10 * time.Minute)

	createAccount(t, db, "u1")
	createDream(t, db, "d1", "u1", "Get fit", models.DreamActive)
	createAction(t, db, models.Action{
		ID: "a1", DreamID: "d1", UserID: "u1", Text: "Morning run", Reminder: &past,
	})

	push := &fakePush{}
	result, err := newTestSweeper(db, push, now).SweepOnce()
	if err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if result.Checked != 1 || result.Users != 1 {
		t.Fatalf("result = %+v, want checked=1 users=1", result)
	}

	if len(push.sends) != 1 {
		t.Fatalf("got %d pushes, want 1", len(push.sends))
	}
	sent := push.sends[0]
	if sent.userID != "u1" {
		t.Errorf("push user = %q, want u1", sent.userID)
	}
	if sent.body != "Morning run — Get fit" {
		t.Errorf("push body = %q", sent.body)
	}
	if sent.data["type"] != "reminder" || sent.data["entityId"] != "a1" {
		t.Errorf("push data = %+v", sent.data)
	}

	action := loadAction(t, db, "a1")
	if action.ReminderSentAt == nil {
		t.Fatal("reminder_sent_at was not written")
	}
	if diff := action.ReminderSentAt.Sub(now); diff < -time.Second || diff > time.Second {
		t.Errorf("reminder_sent_at = %v, want sweep time %v", action.ReminderSentAt, now)
	}
}

func TestSweepOnceIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	createAccount(t, db, "u1")
	createDream(t, db, "d1", "u1", "Get fit", models.DreamActive)
	createAction(t, db, models.Action{
		ID: "a1", DreamID: "d1", UserID: "u1", Text: "Morning run", Reminder: &past,
	})

	push := &fakePush{}
	sweeper := newTestSweeper(db, push, now)

	if _, err := sweeper.SweepOnce(); err != nil {
		t.Fatal(err)
	}
	second, err := sweeper.SweepOnce()
	if err != nil {
		t.Fatal(err)
	}

	if second.Checked != 0 || second.Users != 0 {
		t.Fatalf("second sweep = %+v, want checked=0 users=0", second)
	}
	if len(push.sends) != 1 {
		t.Fatalf("got %d pushes across two sweeps, want 1", len(push.sends))
	}
}

func TestSweepOnceAggregatesPerUser(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-2 * time.Hour)
	later := now.Add(-time.Hour)

	createAccount(t, db, "u1")
	createDream(t, db, "d1", "u1", "Get fit", models.DreamActive)
	createAction(t, db, models.Action{
		ID: "a1", DreamID: "d1", UserID: "u1", Text: "Morning run", Reminder: &earlier,
	})
	createAction(t, db, models.Action{
		ID: "a2", DreamID: "d1", UserID: "u1", Text: "Stretch", Reminder: &later,
	})

	push := &fakePush{}
	result, err := newTestSweeper(db, push, now).SweepOnce()
	if err != nil {
		t.Fatal(err)
	}
	if result.Checked != 2 || result.Users != 1 {
		t.Fatalf("result = %+v, want checked=2 users=1", result)
	}

	if len(push.sends) != 1 {
		t.Fatalf("got %d pushes, want 1 aggregate", len(push.sends))
	}
	sent := push.sends[0]
	// Candidates are ordered by reminder time, so the earliest leads.
	if sent.body != "Morning run and 1 more" {
		t.Errorf("push body = %q", sent.body)
	}
	if sent.data["count"] != "2" || sent.data["entityId"] != "a1" {
		t.Errorf("push data = %+v", sent.data)
	}

	// Both marks carry the same sweep timestamp.
	a1 := loadAction(t, db, "a1")
	a2 := loadAction(t, db, "a2")
	if a1.ReminderSentAt == nil || a2.ReminderSentAt == nil {
		t.Fatal("both actions should be marked sent")
	}
	if !a1.ReminderSentAt.Equal(*a2.ReminderSentAt) {
		t.Errorf("sent timestamps differ: %v vs %v", a1.ReminderSentAt, a2.ReminderSentAt)
	}
}

func TestSweepOnceNotifiesEachUserOnce(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	createAccount(t, db, "u1")
	createAccount(t, db, "u2")
	createDream(t, db, "d1", "u1", "Get fit", models.DreamActive)
	createDream(t, db, "d2", "u2", "Learn piano", models.DreamActive)
	createAction(t, db, models.Action{
		ID: "a1", DreamID: "d1", UserID: "u1", Text: "Morning run", Reminder: &past,
	})
	createAction(t, db, models.Action{
		ID: "a2", DreamID: "d2", UserID: "u2", Text: "Practice scales", Reminder: &past,
	})

	push := &fakePush{}
	result, err := newTestSweeper(db, push, now).SweepOnce()
	if err != nil {
		t.Fatal(err)
	}
	if result.Checked != 2 || result.Users != 2 {
		t.Fatalf("result = %+v, want checked=2 users=2", result)
	}
	if len(push.sends) != 2 {
		t.Fatalf("got %d pushes, want 2", len(push.sends))
	}
}

func TestSweepOnceSkipsArchivedAndMissingParents(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	createAccount(t, db, "u1")
	createDream(t, db, "d1", "u1", "Old plans", models.DreamArchived)
	createAction(t, db, models.Action{
		ID: "a1", DreamID: "d1", UserID: "u1", Text: "Forgotten step", Reminder: &past,
	})

	// A soft-deleted dream leaves its actions behind but no resolvable parent.
	createDream(t, db, "d2", "u1", "Abandoned plans", models.DreamActive)
	createAction(t, db, models.Action{
		ID: "a2", DreamID: "d2", UserID: "u1", Text: "Orphaned step", Reminder: &past,
	})
	if err := db.Delete(&models.Dream{}, "id = ?", "d2").Error; err != nil {
		t.Fatalf("delete dream d2: %v", err)
	}

	push := &fakePush{}
	result, err := newTestSweeper(db, push, now).SweepOnce()
	if err != nil {
		t.Fatal(err)
	}
	if result.Checked != 2 || result.Users != 0 {
		t.Fatalf("result = %+v, want checked=2 users=0", result)
	}
	if len(push.sends) != 0 {
		t.Fatalf("got %d pushes, want none", len(push.sends))
	}

	// Skipped candidates stay unmarked so they deliver if the parent is
	// restored before the next sweep.
	for _, id := range []string{"a1", "a2"} {
		if action := loadAction(t, db, id); action.ReminderSentAt != nil {
			t.Errorf("action %s was marked sent despite skipped parent", id)
		}
	}
}

func TestSweepOnceExcludesIneligibleActions(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	alreadySent := now.Add(-time.Hour)

	createAccount(t, db, "u1")
	createDream(t, db, "d1", "u1", "Get fit", models.DreamActive)
	createAction(t, db, models.Action{
		ID: "completed", DreamID: "d1", UserID: "u1", Text: "x", Reminder: &past, IsCompleted: true,
	})
	createAction(t, db, models.Action{
		ID: "archived", DreamID: "d1", UserID: "u1", Text: "x", Reminder: &past, Status: models.ActionArchived,
	})
	createAction(t, db, models.Action{
		ID: "future", DreamID: "d1", UserID: "u1", Text: "x", Reminder: &future,
	})
	createAction(t, db, models.Action{
		ID: "sent", DreamID: "d1", UserID: "u1", Text: "x", Reminder: &past, ReminderSentAt: &alreadySent,
	})
	createAction(t, db, models.Action{
		ID: "no-reminder", DreamID: "d1", UserID: "u1", Text: "x",
	})

	push := &fakePush{}
	result, err := newTestSweeper(db, push, now).SweepOnce()
	if err != nil {
		t.Fatal(err)
	}
	if result.Checked != 0 || result.Users != 0 {
		t.Fatalf("result = %+v, want checked=0 users=0", result)
	}
	if len(push.sends) != 0 {
		t.Fatalf("got %d pushes, want none", len(push.sends))
	}
}

func TestSweepOnceDispatchFailureStillMarksSent(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	createAccount(t, db, "u1")
	createDream(t, db, "d1", "u1", "Get fit", models.DreamActive)
	createAction(t, db, models.Action{
		ID: "a1", DreamID: "d1", UserID: "u1", Text: "Morning run", Reminder: &past,
	})

	push := &fakePush{err: errors.New("provider down")}
	result, err := newTestSweeper(db, push, now).SweepOnce()
	if err != nil {
		t.Fatalf("dispatch failure must not fail the sweep: %v", err)
	}
	if result.Checked != 1 || result.Users != 1 {
		t.Fatalf("result = %+v, want checked=1 users=1", result)
	}

	// The claim happened before dispatch; a failed send is never retried.
	if action := loadAction(t, db, "a1"); action.ReminderSentAt == nil {
		t.Error("reminder_sent_at should be set even when dispatch fails")
	}
}
