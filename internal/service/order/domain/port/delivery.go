package port

import (
	"context"

	"tavolo/internal/service/order/domain"
)

// DeliveryRequest 是发给外部配送系统的派单载荷。
type DeliveryRequest struct {
	CustomerID  int64
	VendorID    int64
	OrderID     int64
	Destination domain.Location
}

// DeliveryDispatcher 是外部配送系统的出站端口。
type DeliveryDispatcher interface {
	// Dispatch 向配送系统派单。返回 error 即派单失败。
	Dispatch(ctx context.Context, req DeliveryRequest) error

	// FetchStatus 轮询配送单的当前状态，返回值已翻译为内部状态词汇。
	// 返回 error 表示本次轮询不可用（软失败），不代表订单有问题。
	FetchStatus(ctx context.Context, orderID, customerID int64) (domain.Status, error)
}
