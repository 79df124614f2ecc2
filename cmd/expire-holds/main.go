// Command expire-holds cancels pending reservations whose hold lapsed and
// frees their seats. Holds are also expired lazily on every new booking;
// this sweeps events nobody is booking.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

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
	fs := flag.NewFlagSet("expire-holds", flag.ExitOnError)

	tool, err := platform.NewTool("expire-holds", fs, os.Args[1:])
	if err != nil {
		return err
	}
	defer tool.Close()

	_, err = jobs.ExpireHolds(context.Background(), repository.NewPostgresReservationRepository(tool.DB), time.Now(), tool.Logger)

	return err
}
