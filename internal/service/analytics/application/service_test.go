package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	order "tavolo/internal/service/order/domain"
)

type fakeOrderRepo struct {
	orders []*order.Order
	calls  int
}

func (f *fakeOrderRepo) Save(context.Context, *order.Order) error { return nil }
func (f *fakeOrderRepo) FindByID(context.Context, int64) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}
func (f *fakeOrderRepo) UpdateStatus(context.Context, int64, order.Status) error { return nil }
func (f *fakeOrderRepo) FindByVendor(context.Context, int64) ([]*order.Order, error) {
	f.calls++
	return f.orders, nil
}

type fakeVendorRepo struct {
	catalog []order.Dish
}

func (f *fakeVendorRepo) Save(context.Context, *order.Vendor) error { return nil }
func (f *fakeVendorRepo) FindByID(context.Context, int64) (*order.Vendor, error) {
	return nil, order.ErrVendorNotFound
}
func (f *fakeVendorRepo) Catalog(context.Context, int64) ([]order.Dish, error) {
	return f.catalog, nil
}

type memoryCache struct {
	entries map[int64]*VendorSummary
}

func (c *memoryCache) Get(_ context.Context, vendorID int64) (*VendorSummary, bool, error) {
	s, ok := c.entries[vendorID]
	return s, ok, nil
}

func (c *memoryCache) Set(_ context.Context, s *VendorSummary) error {
	c.entries[s.VendorID] = s
	return nil
}

func ratedOrder(t *testing.T, grade int, createdAt time.Time, dishes ...order.Dish) *order.Order {
	t.Helper()
	o, err := order.NewOrder(7, 3, dishes, order.Location{}, "")
	require.NoError(t, err)
	o.CreatedAt = createdAt
	o.Rate(grade, "")
	return o
}

func TestVendorSummary(t *testing.T) {
	day := time.Date(2026, 8, 10, 13, 0, 0, 0, time.UTC)
	espresso := order.Dish{ID: 1, Name: "espresso", Price: 2}
	cornetto := order.Dish{ID: 2, Name: "cornetto", Price: 3}
	repo := &fakeOrderRepo{orders: []*order.Order{
		ratedOrder(t, 5, day, espresso, cornetto),
		ratedOrder(t, 3, day.AddDate(0, 0, 1), espresso),
	}}
	vendors := &fakeVendorRepo{catalog: []order.Dish{espresso, cornetto}}
	cache := &memoryCache{entries: map[int64]*VendorSummary{}}

	svc := NewAnalyticsService(repo, vendors, cache, noop.NewTracerProvider().Tracer("test"))
	summary, err := svc.VendorSummary(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalOrders)
	require.NotNil(t, summary.AverageDishPrice)
	assert.InDelta(t, 2.5, *summary.AverageDishPrice, 1e-9)
	require.NotNil(t, summary.AverageRating)
	assert.InDelta(t, 4.0, *summary.AverageRating, 1e-9)
	require.NotNil(t, summary.PopularDish)
	assert.Equal(t, "espresso", summary.PopularDish.Name)
	require.NotNil(t, summary.AverageOrdersPerDay)
	assert.InDelta(t, 1.0, *summary.AverageOrdersPerDay, 1e-9)

	// 第二次请求走缓存，不再触库
	_, err = svc.VendorSummary(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestVendorSummary_NoData(t *testing.T) {
	svc := NewAnalyticsService(&fakeOrderRepo{}, &fakeVendorRepo{}, nil, noop.NewTracerProvider().Tracer("test"))
	summary, err := svc.VendorSummary(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalOrders)
	assert.Nil(t, summary.AverageDishPrice)
	assert.Nil(t, summary.AverageRating)
	assert.Nil(t, summary.PopularDish)
	assert.Nil(t, summary.AverageOrdersPerDay)
}
