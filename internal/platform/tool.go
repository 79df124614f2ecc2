package platform

import (
	"flag"
	"io"
	"log/slog"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tool bundles what the maintenance commands share: parsed config, a
// logger and a database pool.
type Tool struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *pgxpool.Pool

	logCloser io.Closer
}

// NewTool parses args into fs, which may already carry command specific
// flags, and connects to the database.
func NewTool(name string, fs *flag.FlagSet, args []string) (*Tool, error) {
	cfg, err := config.Load(fs, args)
	if err != nil {
		return nil, err
	}

	logger, logCloser := NewLogger(cfg.Log, name, false)

	db, err := NewDatabasePool(cfg.DB)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	return &Tool{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		logCloser: logCloser,
	}, nil
}

func (t *Tool) Close() {
	t.DB.Close()
	t.logCloser.Close()
}
