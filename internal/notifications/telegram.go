package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTelegramURL is the Bot API endpoint
const DefaultTelegramURL = "https://api.telegram.org"

// TelegramNotifier posts alerts through the Telegram Bot API
type TelegramNotifier struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

// NewTelegramNotifier creates a notifier for one chat
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		baseURL: DefaultTelegramURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the notifier at another Bot API host
func (t *TelegramNotifier) WithBaseURL(base string) *TelegramNotifier {
	t.baseURL = strings.TrimRight(base, "/")
	return t
}

func emojiFor(level Level) string {
	switch level {
	case LevelWarning:
		return "⚠️"
	case LevelError:
		return "🚨"
	case LevelSuccess:
		return "✅"
	default:
		return "ℹ️"
	}
}

// SendAlert implements Notifier
func (t *TelegramNotifier) SendAlert(ctx context.Context, level Level, message string) error {
	text := fmt.Sprintf("%s *FinSaathi Alert*\n\n%s", emojiFor(level), message)

	data := url.Values{}
	data.Set("chat_id", t.chatID)
	data.Set("text", text)
	data.Set("parse_mode", "Markdown")

	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
