package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"tavolo/internal/pkg/logger"
	analytics "tavolo/internal/service/analytics/domain"
	order "tavolo/internal/service/order/domain"
)

// SummaryCache 缓存商家经营快照。miss 不是错误。
type SummaryCache interface {
	Get(ctx context.Context, vendorID int64) (*VendorSummary, bool, error)
	Set(ctx context.Context, summary *VendorSummary) error
}

// AnalyticsService 负责拉取原始数据、驱动纯计算核心并缓存结果。
type AnalyticsService struct {
	orders  order.OrderRepository
	vendors order.VendorRepository
	cache   SummaryCache
	tracer  trace.Tracer
}

func NewAnalyticsService(orders order.OrderRepository, vendors order.VendorRepository, cache SummaryCache, tracer trace.Tracer) *AnalyticsService {
	return &AnalyticsService{orders: orders, vendors: vendors, cache: cache, tracer: tracer}
}

// VendorSummary 生成商家经营快照。缓存命中直接返回；
// miss 时菜单和订单两路并发拉取，算完回填缓存。
func (s *AnalyticsService) VendorSummary(ctx context.Context, vendorID int64) (*VendorSummary, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.VendorSummary")
	defer span.End()
	span.SetAttributes(attribute.Int64("vendor.id", vendorID))

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, vendorID)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("vendor_id", vendorID).Msg("快照缓存读取失败，回退实时计算")
		} else if hit {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	var catalog []order.Dish
	var vendorOrders []*order.Order
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.vendors.Catalog(gctx, vendorID)
		return err
	})
	g.Go(func() error {
		var err error
		vendorOrders, err = s.orders.FindByVendor(gctx, vendorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "load analytics inputs")
	}

	summary := &VendorSummary{
		VendorID:    vendorID,
		TotalOrders: len(vendorOrders),
		GeneratedAt: time.Now(),
	}
	if avg, ok := analytics.AverageDishPrice(catalog); ok {
		summary.AverageDishPrice = &avg
	}
	if avg, ok := analytics.AverageRating(vendorOrders); ok {
		summary.AverageRating = &avg
	}
	if dish, ok := analytics.PopularDish(vendorOrders); ok {
		summary.PopularDish = &dish
	}
	if avg, ok := analytics.AverageOrdersPerDay(vendorOrders); ok {
		summary.AverageOrdersPerDay = &avg
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("vendor_id", vendorID).Msg("快照缓存写入失败")
		}
	}
	return summary, nil
}
