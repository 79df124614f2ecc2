// Command worker consumes confirmed bookings from the broker and mails the
// tickets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/config"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/mailer"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/platform"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/queue"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/ticket"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/vcs"
)

const serviceName = "bargoglio-worker"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet(serviceName, flag.ExitOnError)

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		return err
	}

	if cfg.AMQP.URL == "" {
		return errors.New("-amqp-url is required")
	}

	logger, logCloser := platform.NewLogger(cfg.Log, serviceName, cfg.OtelCollectorUrl != "")
	defer logCloser.Close()

	shutdownTelemetry, err := platform.InitTelemetry(platform.TelemetryConfig{
		CollectorURL: cfg.OtelCollectorUrl,
		Service:      serviceName,
		Version:      vcs.Version(),
		Env:          cfg.Env,
	}, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := ticket.NewSender(mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender))
	consumer := queue.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, logger, sender.Send)

	logger.Info("worker started", "queue", cfg.AMQP.Queue)

	err = consumer.Run(ctx)

	logger.Info("worker stopped")

	return err
}
