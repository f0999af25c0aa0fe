// Package pipeline 实现订单完成流水线。
//
// 旧式写法是责任链：每个处理器持有 next 指针，流转规则散落在各处理器内部。
// 这里改为平铺的有序阶段列表 + 集中式流转表：执行顺序看 stages 切片一眼即知，
// 状态流转规则全部收敛在 Transitions 表中，增删阶段不必改动其余阶段。
package pipeline

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

const (
	StagePayment      = "payment"
	StageNotification = "notification"
	StageDelivery     = "delivery"
)

// Result 是单个阶段的裁决：订单接下来处于什么状态，以及流水线要不要就此打住。
// Failed 是硬失败（订单被判为不可继续）；Stalled 是软失败：本轮到此为止，
// 订单保持返回的状态，等下一轮完成请求续跑，不计入阶段失败。
type Result struct {
	Status  domain.Status
	Failed  bool
	Stalled bool
}

// Stage 是流水线中的一个阶段。
// Applies 决定当前状态下该阶段是否参与（不参与则静默跳过，支持断点续跑）；
// Execute 做实际工作并给出裁决。Execute 不直接修改订单状态，由流水线统一落笔。
type Stage interface {
	Name() string
	Applies(status domain.Status) bool
	Execute(ctx context.Context, order *domain.Order) Result
}

// Transition 描述一个阶段的状态流转：前置状态、成功去向、失败去向。
type Transition struct {
	Precondition domain.Status
	OnSuccess    domain.Status
	OnFailure    domain.Status
}

// Transitions 是集中式流转表。支付与通知是严格前置条件驱动的阶段；
// 配送阶段的出口状态由外部配送系统裁决，不在表内。
var Transitions = map[string]Transition{
	StagePayment: {
		Precondition: domain.StatusPending,
		OnSuccess:    domain.StatusAccepted,
		OnFailure:    domain.StatusRejected,
	},
	StageNotification: {
		Precondition: domain.StatusAccepted,
		OnSuccess:    domain.StatusPreparing,
		OnFailure:    domain.StatusRejected,
	},
}

// Pipeline 按固定顺序驱动各阶段，直到全部走完或某阶段判定失败。
type Pipeline struct {
	tracer trace.Tracer
	stages []Stage
}

// New 组装标准的三段式完成流水线：支付 → 通知 → 配送。
func New(tracer trace.Tracer, authorizer port.PaymentAuthorizer, notifier port.VendorNotifier, dispatcher port.DeliveryDispatcher) *Pipeline {
	return &Pipeline{
		tracer: tracer,
		stages: []Stage{
			NewPaymentStage(authorizer),
			NewNotificationStage(notifier),
			NewDeliveryStage(dispatcher),
		},
	}
}

// Run 在 order 上执行流水线并返回最终状态。
// 不满足 Applies 的阶段被跳过，因此对一个已走到中途的订单重跑流水线
// 只会执行剩余阶段；已 rejected 的订单整条流水线都是空操作。
func (p *Pipeline) Run(ctx context.Context, order *domain.Order) domain.Status {
	ctx, span := p.tracer.Start(ctx, "pipeline.Run")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", order.ID))

	for _, stage := range p.stages {
		if !stage.Applies(order.Status) {
			logger.Ctx(ctx).Debug().
				Str("stage", stage.Name()).
				Str("status", string(order.Status)).
				Msg("阶段前置条件不满足，跳过")
			continue
		}

		stageCtx, stageSpan := p.tracer.Start(ctx, "pipeline.stage."+stage.Name())
		res := stage.Execute(stageCtx, order)
		stageSpan.SetAttributes(
			attribute.String("stage.result", string(res.Status)),
			attribute.Bool("stage.failed", res.Failed),
			attribute.Bool("stage.stalled", res.Stalled),
		)
		stageSpan.End()

		order.SetStatus(res.Status)

		if res.Failed {
			stageFailures.WithLabelValues(stage.Name()).Inc()
			logger.Ctx(ctx).Warn().
				Str("stage", stage.Name()).
				Str("status", string(res.Status)).
				Int64("order_id", order.ID).
				Msg("阶段失败，流水线中止")
			return order.Status
		}
		if res.Stalled {
			logger.Ctx(ctx).Info().
				Str("stage", stage.Name()).
				Str("status", string(res.Status)).
				Int64("order_id", order.ID).
				Msg("阶段暂缓，等下一轮完成请求续跑")
			return order.Status
		}
	}

	return order.Status
}
