package domain

import (
	"context"
	"time"
)

type NotificationKind string

const (
	NotificationReminder      NotificationKind = "reminder"
	NotificationDailyAnalysis NotificationKind = "daily_analysis"
)

// Notification is what the engine pushes to a user outside the request cycle.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Messages  []string         `json:"messages,omitempty"`
	Analysis  *DailyAnalysis   `json:"analysis,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
