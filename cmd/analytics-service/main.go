package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"tavolo/internal/pkg/bootstrap"
	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/redis"
	"tavolo/internal/service/analytics/application"
	"tavolo/internal/service/analytics/infrastructure"
	"tavolo/internal/service/analytics/interfaces"
	"tavolo/internal/service/order/infrastructure/persistence"
)

const (
	serviceName = "analytics-service"
	servicePort = 8085
)

func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	ctx := context.Background()

	var redisClient *redis.Client

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			db, err := persistence.NewMySQL(cfg.Infra.Mysql.DSN)
			if err != nil {
				logger.Ctx(ctx).Fatal().Err(err).Msg("mysql init failed")
			}

			redisClient = redis.NewClient(cfg.Infra.Redis.Addr)
			cache := infrastructure.NewRedisSummaryCache(redisClient)

			svc := application.NewAnalyticsService(
				persistence.NewGormOrderRepository(db),
				persistence.NewGormVendorRepository(db),
				cache,
				tracer,
			)
			interfaces.NewAnalyticsHandler(svc).Register(appCtx.Mux)
		},
		OnShutdown: func(shutdownCtx context.Context) {
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					logger.Ctx(shutdownCtx).Error().Err(err).Msg("redis close failed")
				}
			}
		},
	})
}
