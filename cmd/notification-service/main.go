package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tavolo/internal/pkg/bootstrap"
	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/mq"
	"tavolo/internal/service/order/domain"
)

const (
	serviceName = "notification-service"
	servicePort = 8083
)

var noticesDelivered = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tavolo_vendor_notices_delivered_total",
	Help: "成功送达商家的备餐通知数。",
})

func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	ctx := context.Background()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			appCtx.Mux.Handle("GET /metrics", promhttp.Handler())

			reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.App.VendorNoticeTopic, serviceName)
			go func() {
				for {
					msg, err := reader.FetchMessage(ctx)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						logger.Ctx(ctx).Error().Err(err).Msg("拉取备餐通知失败")
						continue
					}
					msgCtx := mq.ExtractTraceContext(ctx, msg.Headers)

					var notice domain.VendorNotice
					if err := json.Unmarshal(msg.Value, &notice); err != nil {
						logger.Ctx(msgCtx).Error().Err(err).Msg("备餐通知格式非法，丢弃")
					} else {
						// 实际投递渠道（短信/推送）在商家侧系统里，这里落日志并计数
						logger.Ctx(msgCtx).Info().
							Int64("vendor_id", notice.VendorID).
							Int64("order_id", notice.OrderID).
							Strs("dishes", notice.Dishes).
							Str("special_requirements", notice.SpecialRequirements).
							Msg("商家备餐通知")
						noticesDelivered.Inc()
					}

					if err := reader.CommitMessages(ctx, msg); err != nil {
						logger.Ctx(msgCtx).Error().Err(err).Msg("提交位点失败")
					}
				}
			}()
		},
	})
}
