package server

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
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/stagelink/api/internal/admin/application"
	"github.com/sngm3741/stagelink/api/internal/config"
	"github.com/sngm3741/stagelink/api/internal/infrastructure/auth"
	"github.com/sngm3741/stagelink/api/internal/infrastructure/cache"
	"github.com/sngm3741/stagelink/api/internal/infrastructure/messenger"
	mongodoc "github.com/sngm3741/stagelink/api/internal/infrastructure/mongo"
	"github.com/sngm3741/stagelink/api/internal/infrastructure/payment"
	"github.com/sngm3741/stagelink/api/internal/infrastructure/storage"
	adminhttp "github.com/sngm3741/stagelink/api/internal/interfaces/http/admin"
	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/stagelink/api/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// Server owns the HTTP listener and every long-lived client the handlers use.
// It is the composition root: repositories, adapters and services are built here.
type Server struct {
	addr     string
	logger   *zap.Logger
	client   *mongo.Client
	redis    *redis.Client
	notifier *messenger.Notifier
	handler  http.Handler
}

// New builds the full dependency graph. The caller owns client until New
// returns an error; afterwards Run disconnects it on shutdown.
func New(ctx context.Context, cfg config.Config, client *mongo.Client, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("failed to load timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	srv := &Server{addr: cfg.Addr, logger: logger, client: client}
	db := client.Database(cfg.Mongo.Database)
	colls := cfg.Mongo.Collections

	var (
		blacklist cache.TokenBlacklist
		limiter   cache.RateLimiter
	)
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		srv.redis = rdb
		blacklist = cache.NewRedisTokenBlacklist(rdb)
		limiter = cache.NewRedisRateLimiter(rdb, cfg.Auth.RateLimitRequests, cfg.Auth.RateLimitWindow)
	} else {
		logger.Info("redis disabled, token revocation and rate limits are per instance")
		blacklist = cache.NewInMemoryTokenBlacklist()
		limiter = cache.NewInMemoryRateLimiter(cfg.Auth.RateLimitRequests, cfg.Auth.RateLimitWindow)
	}

	media, err := storage.NewS3MediaStorage(ctx, storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		UsePathStyle:  cfg.Storage.UsePathStyle,
		PublicBaseURL: cfg.Storage.MediaBaseURL,
	}, storage.WithLogger(logger.Named("storage")), storage.WithPresignTTL(cfg.Storage.PresignTTL))
	if err != nil {
		srv.closeRedis()
		return nil, fmt.Errorf("media storage: %w", err)
	}

	gateway, err := newGateway(cfg.Payment, logger)
	if err != nil {
		srv.closeRedis()
		return nil, fmt.Errorf("payment gateway: %w", err)
	}

	rules, err := domain.DefaultClassificationRules()
	if err != nil {
		srv.closeRedis()
		return nil, fmt.Errorf("classification rules: %w", err)
	}

	users := mongodoc.NewUserRepository(db, colls.Users)
	slots := mongodoc.NewSlotRepository(db, colls.Slots)
	bookings := mongodoc.NewBookingRepository(db, colls.Bookings)
	services := mongodoc.NewServiceRepository(db, colls.Services)
	payments := mongodoc.NewPaymentRepository(db, colls.Payments)
	failures := mongodoc.NewFailedNotificationRepository(db, colls.FailedNotifications)

	srv.notifier = messenger.NewNotifier(messenger.Config{
		Endpoint:    cfg.Messenger.Endpoint,
		Destination: cfg.Messenger.Destination,
		HTTPClient:  &http.Client{Timeout: cfg.Messenger.Timeout},
		RetryDelay:  cfg.Messenger.RetryDelay,
		Failures:    failures,
		Logger:      logger.Named("messenger"),
	})

	tokens := auth.NewJWTService(auth.Config{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TokenTTL,
	})

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:        logger.Named("public"),
		Auth:          publicapp.NewAuthService(users, tokens, blacklist, nil),
		Profiles:      publicapp.NewProfileService(users, nil),
		Uploads:       publicapp.NewUploadService(media),
		Questionnaire: publicapp.NewQuestionnaireService(rules, mongodoc.NewQuestionnaireRepository(db, colls.Questionnaires), users, nil),
		Messages:      publicapp.NewMessageService(mongodoc.NewMessageRepository(db, colls.Messages), users, srv.notifier, nil),
		Bookings: publicapp.NewBookingService(publicapp.BookingConfig{
			Slots:    slots,
			Bookings: bookings,
			Users:    users,
			Notifier: srv.notifier,
			Location: loc,
		}),
		Catalog: publicapp.NewCatalogService(services, users, nil),
		Payments: publicapp.NewPaymentService(publicapp.PaymentConfig{
			Payments: payments,
			Services: services,
			Users:    users,
			Gateway:  gateway,
			Policy:   cfg.Payment.Commission,
			Notifier: srv.notifier,
		}),
		Location: loc,
	})

	adminUsers := mongodoc.NewAdminUserRepository(db, colls.Users)
	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:    logger.Named("admin"),
		Members:   adminapp.NewMemberService(adminUsers, blacklist, tokens.TTL()),
		Dashboard: adminapp.NewDashboardService(adminUsers, bookings, payments),
		Ledger:    adminapp.NewLedgerService(payments, failures),
	})

	authenticate := authMiddleware(tokens, blacklist, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(accessLog(logger.Named("http")))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(cfg.AllowedOrigins))

	router.Get("/healthz", srv.healthHandler())
	publicHandler.Register(router, authenticate, rateLimit(limiter, logger))
	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(requireRole(domain.RoleAdmin, logger))
		adminHandler.Register(r)
	})
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		common.WriteMessage(logger, w, http.StatusNotFound, "not found")
	})

	srv.handler = router
	return srv, nil
}

func newGateway(cfg config.PaymentConfig, logger *zap.Logger) (publicapp.PaymentGateway, error) {
	switch cfg.Provider {
	case "stripe":
		gateway, err := payment.NewStripeGateway(payment.StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
		}, nil, logger.Named("stripe"))
		if err != nil {
			return nil, err
		}
		return gateway, nil
	case "sandbox":
		return payment.NewSandboxGateway(cfg.SandboxSecret), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves HTTP until SIGINT/SIGTERM or a listener failure, then drains
// in-flight requests and releases every client.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	err := waitForShutdown(httpServer, errChan, s.logger)
	s.shutdown(context.Background())
	return err
}

// healthHandler reports infrastructure reachability only.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			common.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		if s.redis != nil {
			if err := s.redis.Ping(ctx).Err(); err != nil {
				common.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}

		common.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// shutdown flushes queued notifications before the stores they fall back to go away.
func (s *Server) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.notifier != nil {
		if err := s.notifier.Close(ctx); err != nil {
			s.logger.Warn("notifier did not drain", zap.Error(err))
		}
	}
	s.closeRedis()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Error("mongo disconnect failed", zap.Error(err))
	}
}

func (s *Server) closeRedis() {
	if s.redis == nil {
		return
	}
	if err := s.redis.Close(); err != nil {
		s.logger.Warn("redis close failed", zap.Error(err))
	}
	s.redis = nil
}

func waitForShutdown(httpServer *http.Server, errChan <-chan error, logger *zap.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("http server shutdown failed", zap.Error(err))
		}
	}
	return nil
}
