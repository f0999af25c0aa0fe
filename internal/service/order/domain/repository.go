package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，由基础设施层实现。
type OrderRepository interface {
	// Save 保存一个订单聚合（用于创建或更新）。
	Save(ctx context.Context, order *Order) error

	// FindByID 根据 ID 查找一个订单聚合。
	FindByID(ctx context.Context, id int64) (*Order, error)

	// FindByVendor 返回某商家的全部历史订单，供分析侧读取。
	FindByVendor(ctx context.Context, vendorID int64) ([]*Order, error)

	// UpdateStatus 只更新状态字段，完成流程落库走这里。
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// VendorRepository 定义了商家聚合的持久化接口。
type VendorRepository interface {
	Save(ctx context.Context, vendor *Vendor) error
	FindByID(ctx context.Context, id int64) (*Vendor, error)

	// Catalog 返回商家的有序菜单。
	Catalog(ctx context.Context, vendorID int64) ([]Dish, error)
}

// StatusEventProducer 发布订单状态变更事件。
type StatusEventProducer interface {
	PublishStatusChanged(ctx context.Context, order *Order) error
}
