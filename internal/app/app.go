package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/config"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/mailer"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/payment"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/platform"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/queue"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/repository"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/ticket"
	appvalidator "github.com/Josemabaher/bargoglio-webapp-sub001/internal/validator"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/vcs"
	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const serviceName = "bargoglio-api"

var (
	version = vcs.Version()
)

type Application struct {
	config         config.Config
	logger         *slog.Logger
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager
	wg             sync.WaitGroup

	userRepo        domain.UserRepository
	eventRepo       domain.EventRepository
	seatRepo        domain.SeatRepository
	reservationRepo domain.ReservationRepository
	assetStore      domain.AssetStore

	paymentProvider domain.PaymentProvider
	notifier        domain.TicketNotifier

	confirmations metric.Int64Counter
	location      *time.Location
}

func NewApp(
	cfg config.Config,
	logger *slog.Logger,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	mailer mailer.Mailer,
	sessionManager *scs.SessionManager,
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
	seatRepo domain.SeatRepository,
	reservationRepo domain.ReservationRepository,
	assetStore domain.AssetStore,
	paymentProvider domain.PaymentProvider,
	notifier domain.TicketNotifier) *Application {

	app := &Application{
		config:          cfg,
		logger:          logger,
		redis:           redisClient,
		validator:       validator,
		mailer:          mailer,
		sessionManager:  sessionManager,
		userRepo:        userRepo,
		eventRepo:       eventRepo,
		seatRepo:        seatRepo,
		reservationRepo: reservationRepo,
		assetStore:      assetStore,
		paymentProvider: paymentProvider,
		notifier:        notifier,
		location:        time.Local,
	}

	app.initMetrics()

	return app
}

func (app *Application) initMetrics() {
	counter, err := otel.Meter(serviceName).Int64Counter(
		"bookings.confirmed",
		metric.WithDescription("Reservations confirmed, by channel"),
	)
	if err != nil {
		app.logger.Warn("failed to create confirmation counter", "error", err)
	}

	app.confirmations = counter
}

func Run() error {
	fs := flag.NewFlagSet(serviceName, flag.ExitOnError)
	displayVersion := fs.Bool("version", false, "Display version and exit")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		return err
	}

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	stripe.Key = cfg.Stripe.SecretKey

	logger, logCloser := platform.NewLogger(cfg.Log, serviceName, cfg.OtelCollectorUrl != "")
	defer logCloser.Close()

	shutdownTelemetry, err := platform.InitTelemetry(platform.TelemetryConfig{
		CollectorURL: cfg.OtelCollectorUrl,
		Service:      serviceName,
		Version:      version,
		Env:          cfg.Env,
	}, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	db, err := platform.NewDatabasePool(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := platform.NewRedisClient(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)

	var paymentProvider domain.PaymentProvider
	if cfg.Stripe.SecretKey == "" {
		logger.Warn("stripe key not set, using the mock payment provider")
		paymentProvider = payment.NewMockPaymentProvider()
	} else {
		paymentProvider = payment.NewStripePaymentProvider(cfg.Stripe.FailureUrl, cfg.Stripe.SuccessUrl, cfg.Stripe.WebhookSecret)
	}

	var notifier domain.TicketNotifier = ticket.NewInlineNotifier(ticket.NewSender(smtpMailer))
	if cfg.AMQP.URL != "" {
		publisher, err := queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			return err
		}
		defer closeQuietly(publisher, logger)

		notifier = publisher
	}

	app := NewApp(
		*cfg,
		logger,
		redisClient,
		appvalidator.NewValidator(),
		smtpMailer,
		NewSessionManager(redisClient),
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresEventRepository(db),
		repository.NewPostgresSeatRepository(db),
		repository.NewPostgresReservationRepository(db),
		repository.NewPostgresAssetStore(db, cfg.PublicBaseURL),
		paymentProvider,
		notifier,
	)

	return app.serve()
}

func closeQuietly(c io.Closer, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "error", err)
	}
}

func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func (app *Application) holdPolicy() domain.HoldPolicy {
	return domain.HoldPolicy{
		TTL:        app.config.Booking.HoldTTL,
		ServiceFee: decimal.NewFromFloat(app.config.Booking.ServiceFee),
	}
}

// background runs fn in its own goroutine, tracked so shutdown can wait
// for it, with panics logged instead of crashing the process.
func (app *Application) background(logger *slog.Logger, fn func()) {
	app.wg.Add(1)

	go func() {
		defer app.wg.Done()

		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic in background task", "panic", fmt.Sprint(err))
			}
		}()

		fn()
	}()
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
			return
		}

		app.logger.Info("completing background tasks")
		app.wg.Wait()

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "version", version)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
