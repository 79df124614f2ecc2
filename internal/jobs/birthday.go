package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/mailer"
)

const BirthdayTemplate = "birthday.tmpl"

type BirthdayReport struct {
	Candidates int
	Sent       int
	Failed     int
}

type BirthdayChecker struct {
	users  domain.UserRepository
	mailer mailer.Mailer
	logger *slog.Logger
}

func NewBirthdayChecker(users domain.UserRepository, m mailer.Mailer, logger *slog.Logger) *BirthdayChecker {
	return &BirthdayChecker{
		users:  users,
		mailer: m,
		logger: logger,
	}
}

// Run greets every user whose birthday is today.
func (b *BirthdayChecker) Run(ctx context.Context, today time.Time) (BirthdayReport, error) {
	var report BirthdayReport

	users, err := b.users.GetByBirthday(ctx, today)
	if err != nil {
		return report, fmt.Errorf("find birthdays: %w", err)
	}

	report.Candidates = len(users)

	for _, u := range users {
		data := map[string]any{
			"FirstName": u.FirstName,
			"Points":    u.Points,
			"Tier":      string(u.Tier),
		}

		if err := b.mailer.Send(u.Email, BirthdayTemplate, data); err != nil {
			b.logger.Error("failed to send birthday email", "user_id", u.ID, "error", err)
			report.Failed++
			continue
		}

		report.Sent++
	}

	b.logger.Info("birthday check finished",
		"date", today.Format(time.DateOnly),
		"candidates", report.Candidates,
		"sent", report.Sent,
		"failed", report.Failed)

	return report, nil
}
