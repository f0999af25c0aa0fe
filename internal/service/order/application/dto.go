package application

import "tavolo/internal/service/order/domain"

// PlaceOrderCommand 是下单入参。DishIDs 按顾客期望的出餐顺序排列。
type PlaceOrderCommand struct {
	CustomerID          int64           `json:"customer_id"`
	VendorID            int64           `json:"vendor_id"`
	DishIDs             []int64         `json:"dish_ids"`
	Destination         domain.Location `json:"destination"`
	SpecialRequirements string          `json:"special_requirements"`
}

// RateOrderCommand 是评价入参。
type RateOrderCommand struct {
	OrderID int64  `json:"order_id"`
	Grade   int    `json:"grade"`
	Comment string `json:"comment"`
}
