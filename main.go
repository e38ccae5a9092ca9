package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"meal-delivery-api/config"
	"meal-delivery-api/handlers"
	"meal-delivery-api/logger"
	"meal-delivery-api/metrics"
	"meal-delivery-api/middleware"
	"meal-delivery-api/repository"
	"meal-delivery-api/routes"
	"meal-delivery-api/service"
	"meal-delivery-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			ProvideLogger,
			ProvideDB,
			repository.NewAccountRepository,
			repository.NewMealRepository,
			repository.NewDeliveryRepository,
			storage.New,
			service.NewProfileService,
			ProvideCatalogService,
			ProvideOrderService,
			handlers.New,
			ProvideOrderLimiter,
			ProvideRouter,
		),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideLogger(cfg config.Config) zerolog.Logger {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

func ProvideDB(lc fx.Lifecycle, cfg config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := config.OpenDB(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("database connected and migrated")
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return config.CloseDB(db)
		},
	})
	return db, nil
}

func ProvideCatalogService(
	cfg config.Config,
	meals repository.MealRepository,
	accounts repository.AccountRepository,
	store storage.ObjectStore,
	log zerolog.Logger,
) *service.CatalogService {
	return service.NewCatalogService(meals, accounts, store, cfg.MaxImageBytes, log)
}

func ProvideOrderService(
	cfg config.Config,
	accounts repository.AccountRepository,
	meals repository.MealRepository,
	deliveries repository.DeliveryRepository,
	log zerolog.Logger,
) *service.OrderService {
	return service.NewOrderService(accounts, meals, deliveries, cfg.DefaultEstimatedTime, log)
}

func ProvideOrderLimiter(lc fx.Lifecycle, cfg config.Config, log zerolog.Logger) *middleware.RateLimiter {
	limiter := middleware.NewRateLimiter(cfg.OrderRatePerSec, cfg.OrderRateBurst, logger.NewPackageLogger(log, "ratelimit"))
	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			limiter.StartSweeper(10*time.Minute, stop)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			return nil
		},
	})
	return limiter
}

func ProvideRouter(
	cfg config.Config,
	log zerolog.Logger,
	h *handlers.Handler,
	store storage.ObjectStore,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.NewPackageLogger(log, "http")))
	r.Use(metrics.Middleware())
	r.Use(routes.CORS())

	routes.SetupRoutes(r, h, cfg, store, limiter)
	return r
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg config.Config, engine *gin.Engine, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("HTTP server stopped")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
