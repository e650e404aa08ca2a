package models

import "time"

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// RunSummary holds the data for a backup-run notification.
type RunSummary struct {
	Success   bool
	StartTime time.Time
	Duration  time.Duration

	// Per-source outcome.
	SourcesTotal     int
	SourcesCompleted int

	// Error info (if failed).
	FailedSource string
	ErrorMessage string
}

// TelegramResult holds the result of a Telegram notification.
type TelegramResult struct {
	MessageSent bool
	Error       error
}
