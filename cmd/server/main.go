package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/serenify-engagement/internal/auth"
	"github.com/AnshRaj112/serenify-engagement/internal/config"
	"github.com/AnshRaj112/serenify-engagement/internal/database"
	"github.com/AnshRaj112/serenify-engagement/internal/handlers"
	"github.com/AnshRaj112/serenify-engagement/internal/metrics"
	"github.com/AnshRaj112/serenify-engagement/internal/middleware"
	"github.com/AnshRaj112/serenify-engagement/internal/routes"
	"github.com/AnshRaj112/serenify-engagement/internal/store"
	"github.com/AnshRaj112/serenify-engagement/pkg/utils"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	logger := utils.NewLogger("serenify-engagement", cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		logger.Debug("no .env file found")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.WithError(err).Fatal("invalid streak timezone")
	}

	ctx := context.Background()
	engagementStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("failed to open engagement store")
	}
	defer closeStore()

	var provider auth.IdentityProvider
	if cfg.AuthJWTSecret != "" {
		jwtProvider, err := auth.NewJWTProvider(cfg.AuthJWTSecret, cfg.AuthIssuer, cfg.AuthAudience)
		if err != nil {
			logger.WithError(err).Fatal("failed to configure identity provider")
		}
		provider = jwtProvider
	} else {
		logger.Warn("AUTH_JWT_SECRET not set, every engagement request will be rejected as unauthenticated")
	}
	verifier := auth.NewVerifier(provider, logger)

	engagement := handlers.NewEngagementHandler(engagementStore,
		handlers.WithLocation(loc),
		handlers.WithLogger(logger),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(logger))
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → per-IP limit
	// Non-production: Redis-based rate limit when REDIS_URI is set
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		logger.Info("production security enabled (security headers, host check, per-IP rate limiting)")
	} else if cfg.RedisURI != "" {
		redisClient, err := database.ConnectRedis(ctx, cfg.RedisURI, logger)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		} else {
			defer redisClient.Close()
			limiter := middleware.NewRedisRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax, logger)
			r.Use(limiter.Middleware)
		}
	}

	routes.SetupRoutes(r, routes.Deps{Engagement: engagement, Verifier: verifier})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithFields(logrus.Fields{
			"port":  cfg.Port,
			"store": cfg.StoreDriver,
			"tz":    loc.String(),
		}).Info("serenify engagement service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}

// openStore connects the backend selected by STORE_DRIVER and returns a
// func releasing its connections.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (store.EngagementStore, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(nil), func() {}, nil

	case "postgres":
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI, logger)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(db), func() { db.Close() }, nil

	case "mongo", "":
		client, db, err := database.Connect(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, nil, err
		}
		s := store.NewMongoStore(db, nil)
		if err := s.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("failed to ensure MongoDB journal indexes")
		}
		return s, func() {
			if err := database.Disconnect(client); err != nil {
				logger.WithError(err).Warn("MongoDB disconnect failed")
			}
		}, nil

	default:
		return nil, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}
