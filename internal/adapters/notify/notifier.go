package notify

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = MultiNotifier(nil)
)

// LogNotifier writes notifications to the process log. It is the fallback
// sink when no push channel is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Notify(ctx context.Context, n domain.Notification) error {
	log.Printf("[NOTIFY] %s for user %s: %s | %s", n.Kind, n.UserID, n.Title, strings.Join(n.Messages, " | "))
	return nil
}

// MultiNotifier delivers to every sink and joins their errors.
type MultiNotifier []domain.Notifier

func (m MultiNotifier) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
