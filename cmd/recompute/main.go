// Command recompute rebuilds every user's spend, visits and last visit from
// confirmed reservations. With -full-points the point balance and tier are
// rebuilt too, discarding manual adjustments.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/jobs"
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
	fs := flag.NewFlagSet("recompute", flag.ExitOnError)
	fullPoints := fs.Bool("full-points", false, "Also rebuild points and tier from the ledger")
	batchSize := fs.Int("batch-size", domain.RecomputeBatchCap, "Users written per transaction")

	tool, err := platform.NewTool("recompute", fs, os.Args[1:])
	if err != nil {
		return err
	}
	defer tool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode := domain.RecomputeSpend
	if *fullPoints {
		mode = domain.RecomputeFullPoints
	}

	recomputer := jobs.NewRecomputer(
		repository.NewPostgresReservationRepository(tool.DB),
		repository.NewPostgresUserRepository(tool.DB),
		tool.Logger)
	recomputer.BatchSize = *batchSize

	report, err := recomputer.Recompute(ctx, mode)
	if err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d users were not updated", report.Failed, report.Users)
	}

	return nil
}
