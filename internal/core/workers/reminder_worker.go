package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type ReminderProfiles interface {
	ListWithReminders(ctx context.Context) ([]*domain.UserProfile, error)
}

type RecommendationSource interface {
	DailyAnalyzer
	ComputeRecommendations(ctx context.Context, input domain.TrendInput) ([]string, error)
}

type ReminderJob struct {
	UserID string
	Slot   string
	Date   time.Time
}

// ReminderWorker sends each user their recommendations at the reminder
// times of their profile. Users are processed concurrently by a bounded
// pool; one user's pipeline always runs in order.
type ReminderWorker struct {
	profiles ReminderProfiles
	source   RecommendationSource
	notifier domain.Notifier
	cfg      domain.ReminderConfig
	now      func() time.Time

	jobs chan ReminderJob

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderWorker(profiles ReminderProfiles, source RecommendationSource, notifier domain.Notifier, cfg domain.ReminderConfig) *ReminderWorker {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	return &ReminderWorker{
		profiles: profiles,
		source:   source,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		jobs:     make(chan ReminderJob, cfg.QueueSize),
		sent:     make(map[string]time.Time),
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.Workers; i++ {
		go func() {
			for {
				select {
				case job := <-w.jobs:
					w.processJob(ctx, job)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		log.Printf("[REMINDER] Worker started: %d workers, tick %s", w.cfg.Workers, w.cfg.TickInterval)
		ticker := time.NewTicker(w.cfg.TickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.Tick(ctx)
			case <-ctx.Done():
				log.Println("[REMINDER] Worker shutting down...")
				return
			}
		}
	}()
}

// Tick enqueues a job for every reminder slot that is due now.
func (w *ReminderWorker) Tick(ctx context.Context) {
	profiles, err := w.profiles.ListWithReminders(ctx)
	if err != nil {
		log.Printf("[REMINDER] Failed to list profiles: %v", err)
		return
	}

	now := w.now()
	w.prune(now)

	for _, p := range profiles {
		if !p.RemindersEnabled {
			continue
		}
		for _, job := range w.dueSlots(p, now) {
			key := fmt.Sprintf("reminder:%s:%s:%s", job.UserID, job.Date.Format(domain.DateLayout), job.Slot)
			if !w.shouldSend(key, now) {
				continue
			}
			if !w.enqueue(job) {
				w.forget(key)
			}
		}
	}
}

func (w *ReminderWorker) dueSlots(p *domain.UserProfile, now time.Time) []ReminderJob {
	loc := p.Location(w.cfg.DefaultLocation)
	local := now.In(loc)

	times := p.ReminderTimes
	if len(times) == 0 {
		times = w.cfg.DefaultTimes
	}

	var due []ReminderJob
	for _, slot := range times {
		at, err := time.ParseInLocation("15:04", slot, loc)
		if err != nil {
			log.Printf("[REMINDER] Skipping invalid slot %q for user %s", slot, p.UserID)
			continue
		}
		scheduled := time.Date(local.Year(), local.Month(), local.Day(), at.Hour(), at.Minute(), 0, 0, loc)
		if local.Before(scheduled) || local.Sub(scheduled) >= w.cfg.GracePeriod {
			continue
		}
		due = append(due, ReminderJob{
			UserID: p.UserID,
			Slot:   slot,
			Date:   time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		})
	}
	return due
}

func (w *ReminderWorker) enqueue(job ReminderJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		log.Printf("[REMINDER] Queue full! Dropping reminder for user %s", job.UserID)
		return false
	}
}

func (w *ReminderWorker) processJob(ctx context.Context, job ReminderJob) {
	analysis, err := w.source.ComputeDailyAnalysis(ctx, job.UserID, job.Date)
	if err != nil {
		log.Printf("[REMINDER] Analysis failed for user %s: %v", job.UserID, err)
		return
	}

	recs, err := w.source.ComputeRecommendations(ctx, domain.TrendInput{
		UserID:  job.UserID,
		Days:    w.cfg.WindowDays,
		EndDate: job.Date,
	})
	if err != nil {
		log.Printf("[REMINDER] Recommendations failed for user %s: %v", job.UserID, err)
		return
	}

	n := domain.Notification{
		Kind:      domain.NotificationReminder,
		UserID:    job.UserID,
		Title:     fmt.Sprintf("Your %s nutrition check-in", job.Slot),
		Messages:  recs,
		Analysis:  analysis,
		CreatedAt: w.now().UTC(),
	}
	if err := w.notifier.Notify(ctx, n); err != nil {
		log.Printf("[REMINDER] Delivery failed for user %s: %v", job.UserID, err)
	}
}

func (w *ReminderWorker) shouldSend(key string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.sent[key]; ok {
		return false
	}
	w.sent[key] = now
	return true
}

func (w *ReminderWorker) forget(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.sent, key)
}

// prune drops dedup keys older than two days; their date can no longer recur.
func (w *ReminderWorker) prune(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for key, at := range w.sent {
		if now.Sub(at) > 48*time.Hour {
			delete(w.sent, key)
		}
	}
}
