// Package notifications sends watchlist alerts to chat services.
package notifications

import "context"

// Level is the severity of an alert
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Notifier defines the interface for notification services
type Notifier interface {
	// SendAlert sends an alert with the specified level and message
	SendAlert(ctx context.Context, level Level, message string) error
}
