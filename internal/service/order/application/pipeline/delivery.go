package pipeline

import (
	"context"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

// DeliveryStage 把订单交给外部配送系统，然后查询一次当前配送状态。
// 与前两个阶段不同，它对任何未拒绝的订单都适用：它既是派单步骤，
// 也是状态轮询步骤，订单走到中间态后重跑流水线就落到这里续查。
type DeliveryStage struct {
	dispatcher port.DeliveryDispatcher
}

func NewDeliveryStage(dispatcher port.DeliveryDispatcher) *DeliveryStage {
	return &DeliveryStage{dispatcher: dispatcher}
}

func (s *DeliveryStage) Name() string { return StageDelivery }

func (s *DeliveryStage) Applies(status domain.Status) bool {
	return status != domain.StatusRejected
}

// Execute 派单失败是硬失败，订单直接拒绝；派单成功后的状态查询失败
// 是软失败，订单保持当前状态，等下一轮完成请求再查。
func (s *DeliveryStage) Execute(ctx context.Context, order *domain.Order) Result {
	req := port.DeliveryRequest{
		CustomerID:  order.CustomerID,
		VendorID:    order.VendorID,
		OrderID:     order.ID,
		Destination: order.Destination,
	}
	if err := s.dispatcher.Dispatch(ctx, req); err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("order_id", order.ID).Msg("配送派单失败")
		return Result{Status: domain.StatusRejected, Failed: true}
	}

	status, err := s.dispatcher.FetchStatus(ctx, order.ID, order.CustomerID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("order_id", order.ID).
			Str("status", string(order.Status)).
			Msg("配送状态查询失败，订单保持当前状态")
		return Result{Status: order.Status, Stalled: true}
	}
	return Result{Status: status}
}
