// Package relayer implements app.Runner for the relayer process.
package relayer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/cascoin-bridge/pkg/app/http"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/cascoin"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
	"github.com/chainsafe/cascoin-bridge/pkg/ethereum"
	"github.com/chainsafe/cascoin-bridge/pkg/executor"
	"github.com/chainsafe/cascoin-bridge/pkg/fees"
	"github.com/chainsafe/cascoin-bridge/pkg/notify"
	"github.com/chainsafe/cascoin-bridge/pkg/observer"
	"github.com/chainsafe/cascoin-bridge/pkg/pgutil"
	"github.com/chainsafe/cascoin-bridge/pkg/relayer"
)

const (
	defaultHTTPMiddlewareTimeout = 60 * time.Second
	readinessTimeout             = 5 * time.Second
)

// Server holds configuration for the relayer process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new relayer Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts the relayer engine and the operational HTTP server.
// It blocks until an OS shutdown signal is received or a fatal server error occurs.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging, "relayer")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Cascoin-Polygon bridge relayer")

	db, err := pgutil.ConnectDB(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	store := bridgestore.NewStore(db)

	coinClient, err := cascoin.NewClient(&cfg.Cascoin, logger)
	if err != nil {
		return fmt.Errorf("initialize cascoin client: %w", err)
	}
	defer coinClient.Close()

	ethClient, err := ethereum.NewClient(ctx, &cfg.Ethereum, logger)
	if err != nil {
		return fmt.Errorf("initialize ethereum client: %w", err)
	}
	defer ethClient.Close()

	params, err := fees.ParamsFromConfig(&cfg.Fees)
	if err != nil {
		return fmt.Errorf("load fee parameters: %w", err)
	}

	publisher, closePublisher, err := s.newPublisher(logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	coordinator := executor.NewCoordinator(&cfg.Executor, store, ethClient, coinClient, fees.NewEngine(params), publisher, logger)

	engine := relayer.NewEngine(&cfg.Executor, store, logger)
	engine.Register("coin_observer", observer.NewCoinObserver(&cfg.Cascoin, coinClient, store, publisher, coordinator, logger))
	engine.Register("evm_observer", observer.NewEVMObserver(&cfg.Ethereum, cfg.Fees.NativeDecimals, ethClient, store, publisher, coordinator, logger))
	engine.Register("coordinator", coordinator)
	engine.AddHealthCheck("cascoin", coinClient.Ready)
	engine.AddHealthCheck("ethereum", func(ctx context.Context) error {
		_, err := ethClient.BlockNumber(ctx)
		return err
	})

	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start relayer engine: %w", err)
	}
	defer engine.Stop()

	return apphttp.ServeAndWait(ctx, s.newRouter(engine, logger), logger, &cfg.Server)
}

// newPublisher fans updates out through NATS when configured and logs them otherwise
func (s *Server) newPublisher(logger *zap.Logger) (notify.Publisher, func(), error) {
	if s.cfg.Notify.NATSURL == "" {
		logger.Warn("NATS not configured, live updates are only logged")
		return notify.NewLogPublisher(logger), func() {}, nil
	}

	conn, err := notify.Connect(s.cfg.Notify.NATSURL, s.cfg.Notify.Timeout, logger)
	if err != nil {
		return nil, nil, err
	}
	publisher := notify.MultiPublisher{
		notify.NewNATSPublisher(conn, s.cfg.Notify.SubjectPrefix),
		notify.NewLogPublisher(logger),
	}
	return publisher, func() {
		if err := conn.Drain(); err != nil {
			logger.Warn("Failed to drain NATS connection", zap.Error(err))
		}
	}, nil
}

func (s *Server) newRouter(engine *relayer.Engine, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultHTTPMiddlewareTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := engine.Ready(ctx); err != nil {
			logger.Warn("Readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	return r
}
