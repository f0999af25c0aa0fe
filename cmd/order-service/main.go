package main

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"tavolo/internal/pkg/bootstrap"
	"tavolo/internal/pkg/httpclient"
	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/mq"
	"tavolo/internal/pkg/zookeeper"
	"tavolo/internal/service/order/application"
	"tavolo/internal/service/order/application/pipeline"
	"tavolo/internal/service/order/infrastructure/adapter"
	"tavolo/internal/service/order/infrastructure/persistence"
	"tavolo/internal/service/order/interfaces"
)

const (
	serviceName = "order-service"
	servicePort = 8081
)

func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	ctx := context.Background()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)

			db, err := persistence.NewMySQL(cfg.Infra.Mysql.DSN)
			if err != nil {
				logger.Ctx(ctx).Fatal().Err(err).Msg("mysql init failed")
			}
			orderRepo := persistence.NewGormOrderRepository(db)
			vendorRepo := persistence.NewGormVendorRepository(db)

			identity, err := adapter.NewSQLIdentityOracle(cfg.Infra.Mysql.DSN)
			if err != nil {
				logger.Ctx(ctx).Fatal().Err(err).Msg("identity db init failed")
			}

			zkConn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers, 5*time.Second)
			if err != nil {
				logger.Ctx(ctx).Fatal().Err(err).Msg("zookeeper connect failed")
			}
			completionLock := adapter.NewZKCompletionLock(zkConn)

			authorizer, err := adapter.NewCELPaymentAuthorizer(cfg.App.PaymentRule)
			if err != nil {
				logger.Ctx(ctx).Fatal().Err(err).Msg("payment rule compile failed")
			}

			brokers := cfg.Infra.Kafka.Brokers
			noticeWriter := mq.NewKafkaWriter(brokers, cfg.App.VendorNoticeTopic)
			statusWriter := mq.NewKafkaWriter(brokers, cfg.App.OrderStatusTopic)
			completionWriter := mq.NewKafkaWriter(brokers, cfg.App.CompletionRequestTopic)
			dltWriter := mq.NewKafkaWriter(brokers, cfg.App.DeadLetterTopic)

			notifier := adapter.NewKafkaVendorNotifier(noticeWriter)
			statusProducer := adapter.NewKafkaStatusProducer(statusWriter)
			failures := mq.NewFailureHandler(dltWriter)

			// 配送系统地址：有 Nacos 走服务发现，否则用配置里的直连地址
			client := httpclient.NewClient(tracer)
			deliveryBaseURL := cfg.App.DeliveryBaseURL
			if appCtx.Nacos != nil {
				client = client.WithRegistry(appCtx.Nacos)
				if resolved, err := client.ServiceURL(cfg.App.DeliveryServiceName); err == nil {
					deliveryBaseURL = resolved
				} else {
					logger.Ctx(ctx).Warn().Err(err).Msg("配送服务发现失败，回退配置地址")
				}
			}
			dispatcher := adapter.NewHTTPDeliveryDispatcher(client, deliveryBaseURL)

			p := pipeline.New(tracer, authorizer, notifier, dispatcher)
			svc := application.NewOrderApplicationService(
				orderRepo, vendorRepo, p, completionLock, identity, statusProducer, tracer,
			)

			interfaces.NewOrderHandler(svc, completionWriter).Register(appCtx.Mux)

			reader := mq.NewKafkaReader(brokers, cfg.App.CompletionRequestTopic, serviceName)
			consumer := interfaces.NewCompletionConsumer(reader, svc, failures)
			go consumer.Start(ctx)
		},
		OnShutdown: func(shutdownCtx context.Context) {
			logger.Ctx(shutdownCtx).Info().Msg("order-service shutting down")
		},
	})
}
