// Package telegram sends backup-run notifications.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fgeck/remotedump/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for Telegram notification operations.
type Service interface {
	SendNotification(ctx context.Context, cfg models.TelegramConfig, summary models.RunSummary) (*models.TelegramResult, error)
}

// HTTPClient allows mocking HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Impl implements the Telegram Service interface.
type Impl struct {
	httpClient HTTPClient
	logger     zerolog.Logger
	baseURL    string
}

// New creates a new Telegram service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:  logger,
		baseURL: "https://api.telegram.org",
	}
}

// NewWithClient creates a new Telegram service with a custom HTTP client (for testing).
func NewWithClient(logger zerolog.Logger, httpClient HTTPClient, baseURL string) *Impl {
	return &Impl{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// sendMessageRequest is the request body for Telegram sendMessage API.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendNotification sends a run summary via Telegram.
func (s *Impl) SendNotification(ctx context.Context, cfg models.TelegramConfig, summary models.RunSummary) (*models.TelegramResult, error) {
	result := &models.TelegramResult{}

	s.logger.Info().
		Str("chat_id", cfg.ChatID).
		Bool("success", summary.Success).
		Msg("sending Telegram notification")

	reqBody := sendMessageRequest{
		ChatID:    cfg.ChatID,
		Text:      formatSummary(summary),
		ParseMode: "HTML",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		result.Error = fmt.Errorf("failed to marshal request: %w", err)
		return result, nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, cfg.BotToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		result.Error = fmt.Errorf("failed to create request: %w", err)
		return result, nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Errorf("failed to send notification: %w", err)
		return result, nil //nolint:nilerr // error is stored in result struct by design
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		result.Error = fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(body))
		return result, nil
	}

	result.MessageSent = true
	s.logger.Info().Msg("Telegram notification sent")

	return result, nil
}

// formatSummary renders the run summary as a Telegram HTML message.
func formatSummary(summary models.RunSummary) string {
	var buf bytes.Buffer

	if summary.Success {
		buf.WriteString("✅ <b>remotedump: backup run succeeded</b>\n\n")
	} else {
		buf.WriteString("❌ <b>remotedump: backup run failed</b>\n\n")
	}

	fmt.Fprintf(&buf, "Sources: %d/%d completed\n", summary.SourcesCompleted, summary.SourcesTotal)
	fmt.Fprintf(&buf, "Started: %s\n", summary.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&buf, "Duration: %s\n", summary.Duration.Round(time.Second))

	if !summary.Success {
		if summary.FailedSource != "" {
			fmt.Fprintf(&buf, "\nFailed source: %s\n", summary.FailedSource)
		}
		if summary.ErrorMessage != "" {
			fmt.Fprintf(&buf, "Error:\n<pre>%s</pre>\n", summary.ErrorMessage)
		}
	}

	return buf.String()
}
