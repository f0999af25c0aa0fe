package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tavolo_order_completion_total",
		Help: "订单完成流水线的执行次数，按最终状态分组。",
	}, []string{"status"})

	completionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tavolo_order_completion_duration_seconds",
		Help:    "完成流水线单次执行耗时。",
		Buckets: prometheus.DefBuckets,
	})

	ordersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tavolo_orders_placed_total",
		Help: "成功下单的订单数。",
	})
)
