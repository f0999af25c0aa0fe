package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/service/order/application/pipeline"
	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

var ErrNotACustomer = errors.New("requester is not a registered customer")

// OrderApplicationService 是订单服务的应用层门面：
// 下单、查询、评价，以及驱动完成流水线。
type OrderApplicationService struct {
	orders   domain.OrderRepository
	vendors  domain.VendorRepository
	pipeline *pipeline.Pipeline
	lock     port.CompletionLock
	identity port.IdentityOracle
	events   domain.StatusEventProducer
	tracer   trace.Tracer
}

func NewOrderApplicationService(
	orders domain.OrderRepository,
	vendors domain.VendorRepository,
	p *pipeline.Pipeline,
	lock port.CompletionLock,
	identity port.IdentityOracle,
	events domain.StatusEventProducer,
	tracer trace.Tracer,
) *OrderApplicationService {
	return &OrderApplicationService{
		orders:   orders,
		vendors:  vendors,
		pipeline: p,
		lock:     lock,
		identity: identity,
		events:   events,
		tracer:   tracer,
	}
}

// PlaceOrder 下单：校验顾客身份，按商家菜单快照菜品，落库并广播初始状态。
func (s *OrderApplicationService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.PlaceOrder")
	defer span.End()

	ok, err := s.identity.IsCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "verify customer identity")
	}
	if !ok {
		return nil, ErrNotACustomer
	}

	catalog, err := s.vendors.Catalog(ctx, cmd.VendorID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Dish, len(catalog))
	for _, d := range catalog {
		byID[d.ID] = d
	}
	dishes := make([]domain.Dish, 0, len(cmd.DishIDs))
	for _, id := range cmd.DishIDs {
		dish, found := byID[id]
		if !found {
			return nil, errors.Errorf("dish %d is not on vendor %d's menu", id, cmd.VendorID)
		}
		dishes = append(dishes, dish)
	}

	order, err := domain.NewOrder(cmd.CustomerID, cmd.VendorID, dishes, cmd.Destination, cmd.SpecialRequirements)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	ordersPlacedTotal.Inc()
	span.SetAttributes(attribute.Int64("order.id", order.ID))

	s.publishStatus(ctx, order)
	return order, nil
}

// CompleteOrder 驱动订单的完成流水线。
// 同一订单的并发完成请求通过分布式锁串行化，锁内重读订单状态，
// 第二个请求看到的是第一个请求留下的状态，已到终态则直接返回。
func (s *OrderApplicationService) CompleteOrder(ctx context.Context, orderID int64) (domain.Status, error) {
	ctx, span := s.tracer.Start(ctx, "order.CompleteOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", orderID))

	release, err := s.lock.Acquire(ctx, orderID)
	if err != nil {
		return "", errors.Wrap(err, "acquire completion lock")
	}
	defer release()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.Status.Terminal() {
		logger.Ctx(ctx).Info().Int64("order_id", orderID).
			Str("status", string(order.Status)).
			Msg("订单已处于终态，完成请求为空操作")
		return order.Status, nil
	}

	start := time.Now()
	final := s.pipeline.Run(ctx, order)
	completionDuration.Observe(time.Since(start).Seconds())
	completionTotal.WithLabelValues(string(final)).Inc()

	if err := s.orders.UpdateStatus(ctx, orderID, final); err != nil {
		return "", errors.Wrap(err, "persist final status")
	}

	s.publishStatus(ctx, order)
	return final, nil
}

// GetOrder 按 id 查询订单。
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// RateOrder 记录顾客对已送达订单的评价。
func (s *OrderApplicationService) RateOrder(ctx context.Context, cmd RateOrderCommand) error {
	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusDelivered {
		return errors.Errorf("order %d is %s, only delivered orders can be rated", cmd.OrderID, order.Status)
	}
	order.Rate(cmd.Grade, cmd.Comment)
	return s.orders.Save(ctx, order)
}

// CreateVendor 登记新商家及其菜单。
func (s *OrderApplicationService) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	return s.vendors.Save(ctx, vendor)
}

// GetVendor 按 id 查询商家。
func (s *OrderApplicationService) GetVendor(ctx context.Context, vendorID int64) (*domain.Vendor, error) {
	return s.vendors.FindByID(ctx, vendorID)
}

// publishStatus 广播状态变更事件。广播失败只记日志，不影响主流程。
func (s *OrderApplicationService) publishStatus(ctx context.Context, order *domain.Order) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishStatusChanged(ctx, order); err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("order_id", order.ID).Msg("状态变更事件发送失败")
	}
}
