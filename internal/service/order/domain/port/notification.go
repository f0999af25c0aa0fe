package port

import (
	"context"
	"errors"

	"tavolo/internal/service/order/domain"
)

// ErrMissingRecipient 表示通知缺少必要的收件方标识，无法投递。
var ErrMissingRecipient = errors.New("vendor notice is missing recipient identifiers")

// VendorNotifier 是商家通知的出站端口。
type VendorNotifier interface {
	// NotifyOrderAccepted 通知商家订单已扣款生效，可以开始备餐。
	NotifyOrderAccepted(ctx context.Context, order *domain.Order) error
}
