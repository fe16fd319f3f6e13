package main

import (
	"fmt"
	"os"
	"time"

	"dreamtrack/internal/config"
	"dreamtrack/internal/countdown"
	"dreamtrack/internal/database"
	"dreamtrack/internal/models"
	"dreamtrack/internal/services"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dreamctl",
		Short: "Admin tooling for the dreamtrack reminder pipeline",
	}

	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(dueCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initDB() error {
	cfg := config.Load()
	return database.InitDB(cfg.DatabaseURL)
}

func sweepCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one reminder sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return err
			}
			cfg := config.Load()

			if dryRun {
				var count int64
				err := database.GetDB().Model(&models.Action{}).
					Where("is_completed = ? AND status <> ? AND reminder IS NOT NULL AND reminder <= ? AND reminder_sent_at IS NULL",
						false, models.ActionArchived, time.Now()).
					Count(&count).Error
				if err != nil {
					return err
				}
				fmt.Printf("Would check %d due reminder(s)\n", count)
				return nil
			}

			var email *services.EmailService
			if cfg.SendgridAPIKey != "" {
				email = services.NewEmailService(cfg)
			}
			var whatsapp *services.WhatsAppService
			if cfg.TwilioAccountSID != "" {
				whatsapp = services.NewWhatsAppService(cfg)
			}
			dispatcher := services.NewDispatcher(database.GetDB(), email, whatsapp)
			sweeper := services.NewReminderSweeper(database.GetDB(), dispatcher, cfg.SweepInterval)

			result, err := sweeper.SweepOnce()
			if err != nil {
				return err
			}
			fmt.Printf("Sweep complete: checked=%d users=%d\n", result.Checked, result.Users)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "count candidates without sending")
	return cmd
}

func dueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List due, unsent reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return err
			}

			now := time.Now()
			var actions []models.Action
			err := database.GetDB().
				Where("is_completed = ? AND status <> ? AND reminder IS NOT NULL AND reminder <= ? AND reminder_sent_at IS NULL",
					false, models.ActionArchived, now).
				Order("reminder asc").
				Find(&actions).Error
			if err != nil {
				return err
			}

			if len(actions) == 0 {
				fmt.Println("No due reminders.")
				return nil
			}
			for _, action := range actions {
				label := countdown.Format(action.Reminder, now)
				fmt.Printf("%s  user=%s  %-40q  %s\n", action.ID, action.UserID, action.Text, label.Text)
			}
			return nil
		},
	}
}
