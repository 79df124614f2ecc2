package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
)

// PromoteAdmin grants the admin role to the account registered with email.
// Promoting an existing admin is a no-op.
func PromoteAdmin(ctx context.Context, users domain.UserRepository, email string, logger *slog.Logger) (*domain.User, error) {
	user, changed, err := users.SetRoleByEmail(ctx, email, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("promote %s: %w", email, err)
	}

	if changed {
		logger.Info("user promoted to admin", "user_id", user.ID)
	} else {
		logger.Info("user already admin", "user_id", user.ID)
	}

	return user, nil
}

// ExpireHolds releases every hold that lapsed before now.
func ExpireHolds(ctx context.Context, reservations domain.ReservationRepository, now time.Time, logger *slog.Logger) (int, error) {
	n, err := reservations.ExpireHolds(ctx, now, nil)
	if err != nil {
		return 0, fmt.Errorf("expire holds: %w", err)
	}

	logger.Info("expired holds released", "count", n)

	return n, nil
}
