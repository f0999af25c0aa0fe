package domain

import "time"

// OrderCompletionRequested 是请求对某个订单执行完成流程的消息载体。
// 由 HTTP 接口或运营工具投递到 kafka，订单服务消费后驱动流水线。
type OrderCompletionRequested struct {
	OrderID   int64  `json:"orderId"`
	RequestID string `json:"requestId"`
}

// OrderStatusChanged 在每次完成流程落库后发布，推送网关消费后
// 把最新状态实时推给在线的顾客。
type OrderStatusChanged struct {
	OrderID    int64     `json:"orderId"`
	CustomerID int64     `json:"customerId"`
	VendorID   int64     `json:"vendorId"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

// VendorNotice 是发给商家的开工通知：扣款成功后提醒商家开始备餐。
type VendorNotice struct {
	VendorID            int64    `json:"vendorId"`
	OrderID             int64    `json:"orderId"`
	Dishes              []string `json:"dishes"`
	SpecialRequirements string   `json:"specialRequirements,omitempty"`
}
