// Package api implements app.Runner for the bridge API server process.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/cascoin-bridge/pkg/app/http"
	"github.com/chainsafe/cascoin-bridge/pkg/auth"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge/service"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/cascoin"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
	"github.com/chainsafe/cascoin-bridge/pkg/fees"
	"github.com/chainsafe/cascoin-bridge/pkg/keys"
	"github.com/chainsafe/cascoin-bridge/pkg/notify"
	"github.com/chainsafe/cascoin-bridge/pkg/pgutil"
)

const defaultRequestTimeout = 60

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.APIServerConfig
}

// NewServer initializes new api server.
func NewServer(cfg *config.APIServerConfig) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging, "api-server")
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bridge API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	store := bridgestore.NewStore(db)

	deriver, err := keys.NewDeriverFromHex(cfg.Keys.MasterSeed)
	if err != nil {
		return fmt.Errorf("load master seed: %w", err)
	}

	coinClient, err := cascoin.NewClient(&cfg.Cascoin, logger)
	if err != nil {
		return fmt.Errorf("create cascoin client: %w", err)
	}
	defer coinClient.Close()

	params, err := fees.ParamsFromConfig(&cfg.Fees)
	if err != nil {
		return fmt.Errorf("load fee parameters: %w", err)
	}

	bridgeService := service.NewLog(
		service.NewService(&cfg.Cascoin, &cfg.Ethereum, store, deriver, coinClient, fees.NewEngine(params), logger),
		logger,
	)

	hub := notify.NewHub(logger)
	stopRelay, err := s.startNATSRelay(hub, logger)
	if err != nil {
		return err
	}
	defer stopRelay()

	router := s.setupRouter(bridgeService, store, hub, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

// startNATSRelay forwards relayer updates into the local hub. Without a NATS
// URL only updates published in this process reach websocket clients.
func (s *Server) startNATSRelay(hub *notify.Hub, logger *zap.Logger) (func(), error) {
	if s.cfg.Notify.NATSURL == "" {
		logger.Warn("NATS not configured, live updates from the relayer are disabled")
		return func() {}, nil
	}

	conn, err := notify.Connect(s.cfg.Notify.NATSURL, s.cfg.Notify.Timeout, logger)
	if err != nil {
		return nil, err
	}
	relay := notify.NewNATSRelay(conn, s.cfg.Notify.SubjectPrefix, hub, logger)
	if err := relay.Start(); err != nil {
		conn.Close()
		return nil, err
	}
	return func() {
		if err := relay.Stop(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			logger.Warn("Failed to stop NATS relay", zap.Error(err))
		}
		conn.Close()
	}, nil
}

func (s *Server) setupRouter(
	bridgeService service.Service,
	store bridgestore.Store,
	hub *notify.Hub,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// the websocket route must not sit behind the request timeout
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	r.Handle("/ws/{identity}", notify.NewWSHandler(hub, store, s.cfg.Notify.SendBuffer, s.cfg.Notify.Timeout, logger))

	admin := auth.NewJWTValidator(s.cfg.Admin.JWTSecret, s.cfg.Admin.JWTIssuer)
	if !admin.IsConfigured() {
		logger.Warn("Admin JWT secret not set, operator endpoints will reject every request")
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(time.Second * defaultRequestTimeout))
		service.RegisterRoutes(r, bridgeService, admin.Middleware, logger)
	})

	return r
}
