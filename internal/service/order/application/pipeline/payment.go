package pipeline

import (
	"context"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

// PaymentStage 尝试对订单扣款。授权通过订单生效，否则直接拒绝。
type PaymentStage struct {
	authorizer port.PaymentAuthorizer
}

func NewPaymentStage(authorizer port.PaymentAuthorizer) *PaymentStage {
	return &PaymentStage{authorizer: authorizer}
}

func (s *PaymentStage) Name() string { return StagePayment }

func (s *PaymentStage) Applies(status domain.Status) bool {
	return status == Transitions[StagePayment].Precondition
}

func (s *PaymentStage) Execute(ctx context.Context, order *domain.Order) Result {
	t := Transitions[StagePayment]
	if err := s.authorizer.Authorize(ctx, order.CustomerID, order.Price); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("order_id", order.ID).Msg("支付授权失败")
		return Result{Status: t.OnFailure, Failed: true}
	}
	return Result{Status: t.OnSuccess}
}
