package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/shopspring/decimal"
)

type Recomputer struct {
	reservations domain.ReservationRepository
	users        domain.UserRepository
	logger       *slog.Logger
	BatchSize    int
}

func NewRecomputer(reservations domain.ReservationRepository, users domain.UserRepository, logger *slog.Logger) *Recomputer {
	return &Recomputer{
		reservations: reservations,
		users:        users,
		logger:       logger,
		BatchSize:    domain.RecomputeBatchCap,
	}
}

// Recompute rebuilds every user's loyalty aggregate from the confirmed
// ledger. Users without confirmed bookings are reset. A failed batch is
// logged and counted; the remaining batches still run.
func (r *Recomputer) Recompute(ctx context.Context, mode domain.RecomputeMode) (domain.RecomputeReport, error) {
	var report domain.RecomputeReport

	folder := domain.NewLedgerFolder()

	err := r.reservations.StreamConfirmedLedger(ctx, func(e domain.LedgerEntry) error {
		folder.Add(e)
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("read ledger: %w", err)
	}

	ids, err := r.users.ListIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("list users: %w", err)
	}

	totals := folder.Totals()
	report.Users = len(ids)

	size := r.BatchSize
	if size <= 0 || size > domain.RecomputeBatchCap {
		size = domain.RecomputeBatchCap
	}

	batch := make([]domain.UserTotals, 0, size)

	flush := func() {
		if len(batch) == 0 {
			return
		}

		report.Batches++

		if err := r.users.ApplyTotals(ctx, batch, mode); err != nil {
			r.logger.Error("failed to write batch",
				"batch", report.Batches,
				"first_user_id", batch[0].UserID,
				"size", len(batch),
				"error", err)
			report.Failed += len(batch)
		} else {
			report.Updated += len(batch)
		}

		batch = batch[:0]
	}

	for _, id := range ids {
		t, ok := totals[id]
		if !ok {
			t = domain.UserTotals{UserID: id, TotalSpent: decimal.Zero}
		}

		batch = append(batch, t)
		if len(batch) == size {
			flush()
		}
	}
	flush()

	r.logger.Info("recompute finished",
		"users", report.Users,
		"updated", report.Updated,
		"failed", report.Failed,
		"batches", report.Batches,
		"full_points", mode == domain.RecomputeFullPoints)

	return report, nil
}
