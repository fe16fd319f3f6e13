package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"dreamtrack/internal/config"
	"dreamtrack/internal/countdown"
	"dreamtrack/internal/database"
	"dreamtrack/internal/focustimer"
	"dreamtrack/internal/models"
	"dreamtrack/internal/notify"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	tabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("236")).
			PaddingLeft(1).
			PaddingRight(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			PaddingLeft(1).
			PaddingRight(1)

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Padding(1, 2)

	timerDoneStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Padding(1, 2)

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("196")).
			Padding(0, 1)
)

type timerTickMsg struct{}
type labelTickMsg struct{}
type notificationMsg struct {
	content notify.Content
}

type reminderRow struct {
	action models.Action
	dream  string
}

type model struct {
	activeTab int
	timer     *focustimer.Timer
	table     table.Model
	rows      []reminderRow
	alert     string
	width     int
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

// labelTick re-arms a single-shot for the soonest possible label change
// across all visible reminders, never a fixed poll interval
func (m model) labelTick() tea.Cmd {
	now := time.Now()
	var min time.Duration
	for _, row := range m.rows {
		if row.action.Reminder == nil {
			continue
		}
		d := countdown.NextTickDelay(*row.action.Reminder, now)
		if min == 0 || d < min {
			min = d
		}
	}
	if min == 0 {
		return nil
	}
	return tea.Tick(min, func(time.Time) tea.Msg { return labelTickMsg{} })
}

func (m model) Init() tea.Cmd {
	return m.labelTick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % 2
			return m, nil
		case "s":
			if err := m.timer.Start(); err == nil {
				return m, timerTick()
			}
			return m, nil
		case "p":
			m.timer.Pause()
			return m, nil
		case "r":
			m.timer.Reset()
			return m, nil
		case "+":
			m.timer.SetDuration(m.timer.Duration() + 5*time.Minute)
			return m, nil
		case "-":
			if m.timer.Duration() > 5*time.Minute {
				m.timer.SetDuration(m.timer.Duration() - 5*time.Minute)
			}
			return m, nil
		}

	case tea.BlurMsg:
		// Terminal lost focus: stop ticking, remember the wall clock.
		m.timer.Suspend(time.Now())
		return m, nil

	case tea.FocusMsg:
		// Reconcile the whole background period in one step.
		m.timer.Resume(time.Now())
		if m.timer.State() == focustimer.StateRunning {
			return m, timerTick()
		}
		return m, nil

	case timerTickMsg:
		m.timer.Tick()
		if m.timer.State() == focustimer.StateRunning {
			return m, timerTick()
		}
		return m, nil

	case labelTickMsg:
		m.refreshTable()
		return m, m.labelTick()

	case notificationMsg:
		m.alert = fmt.Sprintf("%s: %s", msg.content.Title, msg.content.Body)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) refreshTable() {
	now := time.Now()
	rows := make([]table.Row, 0, len(m.rows))
	for _, row := range m.rows {
		label := countdown.Format(row.action.Reminder, now)
		labelText := ""
		if label != nil {
			if label.IsOverdue {
				labelText = overdueStyle.Render(label.Text)
			} else {
				labelText = dueStyle.Render(label.Text)
			}
		}
		rows = append(rows, table.Row{row.action.Text, row.dream, labelText})
	}
	m.table.SetRows(rows)
}

func (m model) View() string {
	tabs := ""
	for i, name := range []string{"Focus", "Reminders"} {
		if i == m.activeTab {
			tabs += activeTabStyle.Render(name)
		} else {
			tabs += tabStyle.Render(name)
		}
		tabs += " "
	}

	body := ""
	if m.activeTab == 0 {
		body = m.timerView()
	} else {
		body = m.table.View()
	}

	view := tabs + "\n\n" + body + "\n"
	if m.alert != "" {
		view += "\n" + alertStyle.Render(m.alert) + "\n"
	}
	view += "\n" + helpStyle.Render("tab: switch • s: start • p: pause • r: reset • +/-: duration • q: quit")
	return view
}

func (m model) timerView() string {
	remaining := m.timer.Remaining()
	clock := fmt.Sprintf("%02d:%02d", int(remaining.Minutes()), int(remaining.Seconds())%60)
	bar := progressBar(m.timer.Progress(), 30)

	switch m.timer.State() {
	case focustimer.StateComplete:
		return timerDoneStyle.Render("Session complete!") + "\n" + bar
	case focustimer.StatePaused:
		return timerStyle.Render(clock+" (paused)") + "\n" + bar
	default:
		return timerStyle.Render(clock) + "\n" + bar
	}
}

func progressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func loadReminders(userID string) ([]reminderRow, error) {
	db := database.GetDB()
	query := db.Where("reminder IS NOT NULL AND reminder_sent_at IS NULL AND is_completed = ? AND status <> ?",
		false, models.ActionArchived)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var actions []models.Action
	if err := query.Order("reminder asc").Find(&actions).Error; err != nil {
		return nil, err
	}

	rows := make([]reminderRow, 0, len(actions))
	for _, action := range actions {
		var dream models.Dream
		title := ""
		if err := db.First(&dream, "id = ?", action.DreamID).Error; err == nil {
			title = dream.Title
		}
		rows = append(rows, reminderRow{action: action, dream: title})
	}
	return rows, nil
}

func main() {
	cfg := config.Load()
	if err := database.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	rows, err := loadReminders(os.Getenv("DREAMTRACK_USER"))
	if err != nil {
		log.Fatal("Failed to load reminders:", err)
	}

	columns := []table.Column{
		{Title: "Action", Width: 36},
		{Title: "Dream", Width: 24},
		{Title: "Due", Width: 16},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	m := model{
		timer: focustimer.New(25 * time.Minute),
		table: t,
		rows:  rows,
	}
	m.refreshTable()

	// The terminal stands in for the device: local notifications fire
	// in-process and surface as an alert line.
	var program *tea.Program
	notifier := notify.NewTimerNotifier(func(id string, content notify.Content) {
		if program != nil {
			program.Send(notificationMsg{content: content})
		}
	})
	defer notifier.Close()

	scheduler := notify.NewLocalScheduler(notifier)
	for _, row := range rows {
		if row.action.Reminder != nil {
			scheduler.Schedule(row.action.ID, row.action.Text, row.dream, *row.action.Reminder)
		}
	}

	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		log.Fatal(err)
	}
}
