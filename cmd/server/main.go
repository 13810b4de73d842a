package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/gym-checkin/config"
	"github.com/ErlanBelekov/gym-checkin/internal/clock"
	"github.com/ErlanBelekov/gym-checkin/internal/email"
	"github.com/ErlanBelekov/gym-checkin/internal/health"
	"github.com/ErlanBelekov/gym-checkin/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/gym-checkin/internal/infrastructure/sqlite"
	ctxlog "github.com/ErlanBelekov/gym-checkin/internal/log"
	"github.com/ErlanBelekov/gym-checkin/internal/metrics"
	"github.com/ErlanBelekov/gym-checkin/internal/password"
	"github.com/ErlanBelekov/gym-checkin/internal/repository"
	"github.com/ErlanBelekov/gym-checkin/internal/repository/memory"
	"github.com/ErlanBelekov/gym-checkin/internal/token"
	httptransport "github.com/ErlanBelekov/gym-checkin/internal/transport/http"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/handler"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/middleware"
	"github.com/ErlanBelekov/gym-checkin/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

// stores is the storage backend selected by STORAGE_DRIVER.
type stores struct {
	users    repository.UserRepository
	gyms     repository.GymRepository
	checkIns repository.CheckInRepository
	pinger   health.Pinger
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		stop()
		log.Fatalf("storage: %v", err)
	}
	defer st.close()

	tokens := token.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	mailer := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// Users
	userUsecase := usecase.NewUserUsecase(st.users, hasher, clock.Real{})
	userHandler := handler.NewUserHandler(userUsecase, tokens, mailer, logger)

	// Gyms
	gymUsecase := usecase.NewGymUsecase(st.gyms)
	gymHandler := handler.NewGymHandler(gymUsecase, logger)

	// Check-ins
	checkInUsecase := usecase.NewCheckInUsecase(st.checkIns, st.gyms, clock.Real{}, cfg.Location())
	checkInHandler := handler.NewCheckInHandler(checkInUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(cfg.StorageDriver, st.pinger, logger, prometheus.DefaultRegisterer)

	sessionLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, logger)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, httptransport.Handlers{
			Users:    userHandler,
			Gyms:     gymHandler,
			CheckIns: checkInHandler,
		}, tokens, sessionLimiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "storage", cfg.StorageDriver, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StorageDriver {
	case "postgres":
		if cfg.MigrateOnStart {
			if err := postgres.NewMigrator(cfg.DatabaseURL, logger).Up(ctx); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		return &stores{
			users:    postgres.NewUserRepository(pool),
			gyms:     postgres.NewGymRepository(pool),
			checkIns: postgres.NewCheckInRepository(pool),
			pinger:   pool,
			close:    pool.Close,
		}, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Init(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			users:    sqlite.NewUserRepository(db),
			gyms:     sqlite.NewGymRepository(db),
			checkIns: sqlite.NewCheckInRepository(db),
			pinger:   health.PingFunc(db.PingContext),
			close:    closeDB(db, logger),
		}, nil

	default:
		logger.Warn("using in-memory storage; data is lost on restart")
		return &stores{
			users:    memory.NewUserRepository(),
			gyms:     memory.NewGymRepository(),
			checkIns: memory.NewCheckInRepository(),
			pinger:   health.PingFunc(func(context.Context) error { return nil }),
			close:    func() {},
		}, nil
	}
}

func closeDB(db *sql.DB, logger *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("close sqlite", "error", err)
		}
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
