package persistence

import (
	"context"

	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tavolo/internal/service/order/domain"
)

// NewMySQL 建立 gorm 连接并迁移订单服务的表结构。
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	if err := db.AutoMigrate(&OrderModel{}, &OrderDishModel{}, &VendorModel{}, &VendorDishModel{}); err != nil {
		return nil, errors.Wrap(err, "auto migrate")
	}
	return db, nil
}

// GormOrderRepository 实现了 domain.OrderRepository 接口。
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	m := toOrderModel(order)
	err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(m).Error
	if err != nil {
		return errors.Wrap(err, "save order")
	}
	order.ID = m.ID
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m OrderModel
	err := r.db.WithContext(ctx).
		Preload("Dishes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	return fromOrderModel(&m), nil
}

func (r *GormOrderRepository) FindByVendor(ctx context.Context, vendorID int64) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Preload("Dishes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find orders by vendor")
	}
	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		orders = append(orders, fromOrderModel(&models[i]))
	}
	return orders, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return errors.Wrap(res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// GormVendorRepository 实现了 domain.VendorRepository 接口。
type GormVendorRepository struct {
	db *gorm.DB
}

func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

func (r *GormVendorRepository) Save(ctx context.Context, vendor *domain.Vendor) error {
	m := toVendorModel(vendor)
	err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(m).Error
	if err != nil {
		return errors.Wrap(err, "save vendor")
	}
	vendor.ID = m.ID
	return nil
}

func (r *GormVendorRepository) FindByID(ctx context.Context, id int64) (*domain.Vendor, error) {
	var m VendorModel
	err := r.db.WithContext(ctx).
		Preload("Catalog", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrVendorNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find vendor")
	}
	return fromVendorModel(&m), nil
}

func (r *GormVendorRepository) Catalog(ctx context.Context, vendorID int64) ([]domain.Dish, error) {
	vendor, err := r.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return vendor.Catalog, nil
}
