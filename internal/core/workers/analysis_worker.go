package workers

import (
	"context"
	"log"
	"time"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type DailyAnalyzer interface {
	ComputeDailyAnalysis(ctx context.Context, userID string, date time.Time) (*domain.DailyAnalysis, error)
}

type AnalysisJob struct {
	UserID string
	Date   time.Time
}

// AnalysisWorker recomputes a user's day after a food log write and pushes
// the fresh analysis to the notifier.
type AnalysisWorker struct {
	analyzer DailyAnalyzer
	notifier domain.Notifier
	jobs     chan AnalysisJob
}

func NewAnalysisWorker(analyzer DailyAnalyzer, notifier domain.Notifier) *AnalysisWorker {
	return &AnalysisWorker{
		analyzer: analyzer,
		notifier: notifier,
		jobs:     make(chan AnalysisJob, 100),
	}
}

func (w *AnalysisWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Analysis Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Analysis Worker shutting down...")
				return
			}
		}
	}()
}

func (w *AnalysisWorker) Enqueue(userID string, date time.Time) {
	select {
	case w.jobs <- AnalysisJob{UserID: userID, Date: domain.DateOf(date)}:
	default:
		log.Printf("Analysis Worker queue full! Dropping job for user %s", userID)
	}
}

func (w *AnalysisWorker) processJob(ctx context.Context, job AnalysisJob) {
	analysis, err := w.analyzer.ComputeDailyAnalysis(ctx, job.UserID, job.Date)
	if err != nil {
		log.Printf("Worker Error analysing %s for user %s: %v", job.Date.Format(domain.DateLayout), job.UserID, err)
		return
	}

	n := domain.Notification{
		Kind:      domain.NotificationDailyAnalysis,
		UserID:    job.UserID,
		Title:     "Daily analysis updated",
		Analysis:  analysis,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.notifier.Notify(ctx, n); err != nil {
		log.Printf("Worker Failed to push analysis for user %s: %v", job.UserID, err)
	}
}
