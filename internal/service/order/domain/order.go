package domain

import (
	"errors"
	"time"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrVendorNotFound = errors.New("vendor not found")
	ErrEmptyOrder     = errors.New("order must contain at least one dish")
)

// Location 是一个经纬度值对象。
type Location struct {
	Lat  float64
	Long float64
}

// Dish 表示一道菜。出现在商家菜单中，也以值拷贝的形式嵌入订单。
type Dish struct {
	ID        int64
	Name      string
	Allergens []string // 过敏原标签，集合语义，顺序无关
	Price     float64
}

// Rating 是顾客送达后对订单的评价，每单至多一条。
type Rating struct {
	ID      int64
	Grade   int
	Comment string
}

// Vendor 是商家聚合：档案信息加一份有序菜单。
type Vendor struct {
	ID           int64
	Name         string
	Location     Location
	OpeningHours string
	Catalog      []Dish // 有序菜单
}

// Order 是订单聚合的根实体。
// Dishes 是下单时刻对商家菜单的快照（顺序即出餐顺序），下单后不再引用商家菜单。
type Order struct {
	ID                  int64
	CustomerID          int64
	VendorID            int64
	Price               float64
	Dishes              []Dish
	Destination         Location
	Rating              *Rating
	SpecialRequirements string
	Status              Status
	CreatedAt           time.Time
}

// NewOrder 创建一个新订单：拷贝菜品快照、汇总价格，初始状态为 pending。
func NewOrder(customerID, vendorID int64, dishes []Dish, destination Location, specialRequirements string) (*Order, error) {
	if len(dishes) == 0 {
		return nil, ErrEmptyOrder
	}

	snapshot := make([]Dish, len(dishes))
	for i, d := range dishes {
		snapshot[i] = d
		// 过敏原切片也要深拷贝，订单不得共享商家菜单的内存
		snapshot[i].Allergens = append([]string(nil), d.Allergens...)
	}

	var total float64
	for _, d := range snapshot {
		total += d.Price
	}

	return &Order{
		CustomerID:          customerID,
		VendorID:            vendorID,
		Price:               total,
		Dishes:              snapshot,
		Destination:         destination,
		SpecialRequirements: specialRequirements,
		Status:              StatusPending,
		CreatedAt:           time.Now(),
	}, nil
}

// SetStatus 直接覆盖状态。完成流程内部的状态流转由各阶段裁决，
// 这里不做合法性校验，校验入口见 CanTransitionTo。
func (o *Order) SetStatus(s Status) {
	o.Status = s
}

// Reject 将订单置为拒绝态。
func (o *Order) Reject() {
	o.Status = StatusRejected
}

// Rejected 判断订单是否已被拒绝。
func (o *Order) Rejected() bool {
	return o.Status == StatusRejected
}

// Rate 记录顾客评价。重复评价会覆盖旧值，由上层决定是否允许。
func (o *Order) Rate(grade int, comment string) {
	o.Rating = &Rating{Grade: grade, Comment: comment}
}
