package persistence

import (
	"database/sql"
	"time"
)

// OrderModel 是订单聚合的存储模型。菜品快照存在子表中，
// Position 保序（出餐顺序）。评价直接平铺成两个可空列。
type OrderModel struct {
	ID                  int64 `gorm:"primaryKey;autoIncrement"`
	CustomerID          int64 `gorm:"index"`
	VendorID            int64 `gorm:"index"`
	Price               float64
	DestLat             float64
	DestLong            float64
	SpecialRequirements string
	Status              string `gorm:"size:32;index"`
	RatingGrade         sql.NullInt64
	RatingComment       sql.NullString
	Dishes              []OrderDishModel `gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time
}

func (OrderModel) TableName() string { return "orders" }

type OrderDishModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	OrderID   int64 `gorm:"index"`
	Position  int
	DishID    int64
	Name      string
	Allergens []string `gorm:"serializer:json"`
	Price     float64
}

func (OrderDishModel) TableName() string { return "order_dishes" }

type VendorModel struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	Name         string
	Lat          float64
	Long         float64
	OpeningHours string
	Catalog      []VendorDishModel `gorm:"foreignKey:VendorID"`
}

func (VendorModel) TableName() string { return "vendors" }

type VendorDishModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	VendorID  int64 `gorm:"index"`
	Position  int
	Name      string
	Allergens []string `gorm:"serializer:json"`
	Price     float64
}

func (VendorDishModel) TableName() string { return "vendor_dishes" }
