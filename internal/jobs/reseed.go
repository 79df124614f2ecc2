package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"golang.org/x/sync/errgroup"
)

const defaultReseedConcurrency = 4

type Reseeder struct {
	events      domain.EventRepository
	seats       domain.SeatRepository
	logger      *slog.Logger
	Concurrency int
}

func NewReseeder(events domain.EventRepository, seats domain.SeatRepository, logger *slog.Logger) *Reseeder {
	return &Reseeder{
		events:      events,
		seats:       seats,
		logger:      logger,
		Concurrency: defaultReseedConcurrency,
	}
}

type ReseedReport struct {
	Events    int
	Reseeded  int
	Failed    int
	Preserved int
}

func (r *Reseeder) ReseedEvent(ctx context.Context, eventID int, templates []domain.SeatTemplate) (*domain.ReseedStats, error) {
	if err := domain.ValidateLayout(templates); err != nil {
		return nil, err
	}

	stats, err := r.seats.Reseed(ctx, eventID, templates)
	if err != nil {
		return nil, fmt.Errorf("reseed event %d: %w", eventID, err)
	}

	logger := r.logger.With("event_id", eventID)
	logger.Info("event reseeded",
		"total", stats.Total,
		"preserved", stats.Preserved,
		"reset", stats.Reset,
		"added", stats.Added,
		"removed", stats.Removed)

	if len(stats.DroppedHeld) > 0 {
		logger.Warn("layout dropped seats that were held or sold", "seat_ids", stats.DroppedHeld)
	}

	return stats, nil
}

// ReseedAll applies templates to every event, a bounded number at a time.
// One event failing does not stop the others.
func (r *Reseeder) ReseedAll(ctx context.Context, templates []domain.SeatTemplate) (ReseedReport, error) {
	var report ReseedReport

	if err := domain.ValidateLayout(templates); err != nil {
		return report, err
	}

	ids, err := r.events.ListIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("list events: %w", err)
	}

	report.Events = len(ids)

	var reseeded, failed, preserved atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Concurrency, 1))

	for _, id := range ids {
		g.Go(func() error {
			stats, err := r.ReseedEvent(gctx, id, templates)
			if err != nil {
				r.logger.Error("failed to reseed event", "event_id", id, "error", err)
				failed.Add(1)
				return nil
			}

			reseeded.Add(1)
			preserved.Add(int64(stats.Preserved))

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	report.Reseeded = int(reseeded.Load())
	report.Failed = int(failed.Load())
	report.Preserved = int(preserved.Load())

	return report, nil
}
