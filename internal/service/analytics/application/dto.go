package application

import (
	"time"

	order "tavolo/internal/service/order/domain"
)

// VendorSummary 是单个商家的经营快照。
// 统计口径里 "没有数据" 和 "值为 0" 是两回事，缺数据的指标序列化为 null。
type VendorSummary struct {
	VendorID            int64       `json:"vendor_id"`
	TotalOrders         int         `json:"total_orders"`
	AverageDishPrice    *float64    `json:"average_dish_price"`
	AverageRating       *float64    `json:"average_rating"`
	PopularDish         *order.Dish `json:"popular_dish"`
	AverageOrdersPerDay *float64    `json:"average_orders_per_day"`
	GeneratedAt         time.Time   `json:"generated_at"`
}
