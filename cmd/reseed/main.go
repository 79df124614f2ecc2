// Command reseed replaces the seat layout of one event, or of every event
// with -all. Seats that are sold or held keep their status when the new
// layout still contains them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/jobs"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/layout"
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
	fs := flag.NewFlagSet("reseed", flag.ExitOnError)
	eventID := fs.Int("event", 0, "Event to reseed")
	all := fs.Bool("all", false, "Reseed every event")
	layoutFile := fs.String("layout", "", "JSON layout file (default: the built-in layout)")
	concurrency := fs.Int("concurrency", 4, "Events reseeded in parallel with -all")

	tool, err := platform.NewTool("reseed", fs, os.Args[1:])
	if err != nil {
		return err
	}
	defer tool.Close()

	if (*eventID == 0) == !*all {
		return errors.New("exactly one of -event or -all is required")
	}

	templates, err := loadLayout(*layoutFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reseeder := jobs.NewReseeder(
		repository.NewPostgresEventRepository(tool.DB),
		repository.NewPostgresSeatRepository(tool.DB),
		tool.Logger)
	reseeder.Concurrency = *concurrency

	if !*all {
		_, err := reseeder.ReseedEvent(ctx, *eventID, templates)
		return err
	}

	report, err := reseeder.ReseedAll(ctx, templates)
	if err != nil {
		return err
	}

	tool.Logger.Info("reseed finished",
		"events", report.Events,
		"reseeded", report.Reseeded,
		"failed", report.Failed,
		"preserved", report.Preserved)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d events failed", report.Failed, report.Events)
	}

	return nil
}

func loadLayout(path string) ([]domain.SeatTemplate, error) {
	if path == "" {
		return layout.Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return layout.Read(f)
}
