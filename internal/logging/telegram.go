package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"lightspeed-sync/internal/config"
)

// Notifier pushes operator-facing sync notifications. All methods are
// nil-receiver safe so callers never have to guard a missing bot config.
type Notifier interface {
	Log(value string)
	LogError(value string, err error)
	LogWarning(value string)
	LogSuccess(value string)
}

type telegramNotifier struct {
	creds  config.TelegramBotConfig
	logger zerolog.Logger
}

type telegramRequest struct {
	ChatId string `json:"chat_id"`
	Text   string `json:"text"`
}

const (
	iconInfo    = "ℹ️"
	iconError   = "❌"
	iconWarning = "⚠️"
	iconSuccess = "✅"
)

// NewNotifier returns a Telegram-backed Notifier. With incomplete
// credentials it returns nil, which is a valid no-op Notifier.
func NewNotifier(creds config.TelegramBotConfig, logger zerolog.Logger) Notifier {
	if creds.ChatId == "" || creds.Token == "" {
		logger.Warn().Msg("telegram credentials missing, notifications disabled")
		return (*telegramNotifier)(nil)
	}
	return &telegramNotifier{creds: creds, logger: logger}
}

func (n *telegramNotifier) Log(value string) {
	if n == nil {
		return
	}
	n.logger.Info().Msg(value)
	_ = n.sendRequest(formatMessage(iconInfo, "INFO", value))
}

func (n *telegramNotifier) LogError(value string, err error) {
	if n == nil {
		return
	}
	n.logger.Error().Err(err).Msg(value)
	if err != nil {
		value = fmt.Sprintf("%s: %v", value, err)
	}
	_ = n.sendRequest(formatMessage(iconError, "ERROR", value))
}

func (n *telegramNotifier) LogWarning(value string) {
	if n == nil {
		return
	}
	n.logger.Warn().Msg(value)
	_ = n.sendRequest(formatMessage(iconWarning, "WARNING", value))
}

func (n *telegramNotifier) LogSuccess(value string) {
	if n == nil {
		return
	}
	n.logger.Info().Msg(value)
	_ = n.sendRequest(formatMessage(iconSuccess, "SUCCESS", value))
}

func formatMessage(icon, level, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		v = "-"
	}
	return fmt.Sprintf("%s %s: %s", icon, level, v)
}

func (n *telegramNotifier) sendRequest(value string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.creds.Token)

	reqBody := telegramRequest{
		ChatId: n.creds.ChatId,
		Text:   value,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Error().Str("status", resp.Status).Bytes("body", respBody).Msg("telegram send failed")
		return fmt.Errorf("telegram send failed: %s", resp.Status)
	}

	return nil
}
