package port

import (
	"context"
	"errors"
)

// ErrPaymentDeclined 表示扣款授权被拒绝。
var ErrPaymentDeclined = errors.New("payment authorization declined")

// PaymentAuthorizer 是支付授权的出站端口。
// 授权通过返回 nil；无法授权返回 ErrPaymentDeclined 或底层错误。
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, customerID int64, amount float64) error
}
