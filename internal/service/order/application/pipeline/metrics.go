package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var stageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tavolo_pipeline_stage_failures_total",
	Help: "完成流水线各阶段的失败次数。",
}, []string{"stage"})
