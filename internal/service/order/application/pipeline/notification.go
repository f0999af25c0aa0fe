package pipeline

import (
	"context"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

// NotificationStage 通知商家开始备餐。通知发不出去说明订单缺少可达的
// 商家，继续往下走没有意义，按失败处理。
type NotificationStage struct {
	notifier port.VendorNotifier
}

func NewNotificationStage(notifier port.VendorNotifier) *NotificationStage {
	return &NotificationStage{notifier: notifier}
}

func (s *NotificationStage) Name() string { return StageNotification }

func (s *NotificationStage) Applies(status domain.Status) bool {
	return status == Transitions[StageNotification].Precondition
}

func (s *NotificationStage) Execute(ctx context.Context, order *domain.Order) Result {
	t := Transitions[StageNotification]
	if err := s.notifier.NotifyOrderAccepted(ctx, order); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Int64("order_id", order.ID).Msg("商家通知失败")
		return Result{Status: t.OnFailure, Failed: true}
	}
	return Result{Status: t.OnSuccess}
}
