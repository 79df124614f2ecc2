package integration_test

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/app"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/config"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/mailer"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/payment"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/platform"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/repository"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/ticket"
	appvalidator "github.com/Josemabaher/bargoglio-webapp-sub001/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App     *app.Application
	Handler http.Handler
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Mailer  *mailer.MockMailer
	Logger  *slog.Logger

	Users        *repository.PostgresUserRepository
	Events       *repository.PostgresEventRepository
	Seats        *repository.PostgresSeatRepository
	Reservations *repository.PostgresReservationRepository
	Payments     *payment.MockPaymentProvider
}

func newTestApp(cfg config.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	mockMailer := mailer.NewMockMailer()

	db, err := platform.NewDatabasePool(cfg.DB)
	if err != nil {
		return nil, err
	}

	redisClient, err := platform.NewRedisClient(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	t := &TestApp{
		DB:           db,
		Redis:        redisClient,
		Mailer:       mockMailer,
		Logger:       logger,
		Users:        repository.NewPostgresUserRepository(db),
		Events:       repository.NewPostgresEventRepository(db),
		Seats:        repository.NewPostgresSeatRepository(db),
		Reservations: repository.NewPostgresReservationRepository(db),
		Payments:     payment.NewMockPaymentProvider(),
	}

	t.App = app.NewApp(
		cfg,
		logger,
		redisClient,
		appvalidator.NewValidator(),
		mockMailer,
		app.NewSessionManager(redisClient),
		t.Users,
		t.Events,
		t.Seats,
		t.Reservations,
		repository.NewPostgresAssetStore(db, cfg.PublicBaseURL),
		t.Payments,
		ticket.NewInlineNotifier(ticket.NewSender(mockMailer)),
	)
	t.Handler = t.App.Routes()

	return t, nil
}

func (t *TestApp) Close() {
	t.Redis.Close()
	t.DB.Close()
}
