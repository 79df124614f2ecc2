// Command birthday mails a greeting to every user whose birthday is today.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/jobs"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/mailer"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/platform"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("birthday", flag.ExitOnError)
	date := fs.String("date", "", "Day to check as YYYY-MM-DD (default: today)")

	tool, err := platform.NewTool("birthday", fs, os.Args[1:])
	if err != nil {
		return err
	}
	defer tool.Close()

	today := time.Now()
	if *date != "" {
		today, err = time.ParseInLocation(time.DateOnly, *date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	smtp := tool.Config.SMTP
	checker := jobs.NewBirthdayChecker(
		repository.NewPostgresUserRepository(tool.DB),
		mailer.NewSMTPMailer(smtp.Host, smtp.Port, smtp.Username, smtp.Password, smtp.Sender),
		tool.Logger)

	report, err := checker.Run(ctx, today)
	if err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d greetings failed", report.Failed, report.Candidates)
	}

	return nil
}
