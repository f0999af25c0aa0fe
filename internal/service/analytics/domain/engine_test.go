package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	order "tavolo/internal/service/order/domain"
)

func orderWith(t *testing.T, createdAt time.Time, rating *order.Rating, dishes ...order.Dish) *order.Order {
	t.Helper()
	o, err := order.NewOrder(7, 3, dishes, order.Location{}, "")
	require.NoError(t, err)
	o.CreatedAt = createdAt
	o.Rating = rating
	return o
}

func TestAverageDishPrice(t *testing.T) {
	avg, ok := AverageDishPrice([]order.Dish{
		{Name: "margherita", Price: 8},
		{Name: "diavola", Price: 10},
		{Name: "tiramisu", Price: 6},
	})
	require.True(t, ok)
	assert.InDelta(t, 8.0, avg, 1e-9)

	_, ok = AverageDishPrice(nil)
	assert.False(t, ok)
}

func TestAverageRating(t *testing.T) {
	now := time.Now()
	orders := []*order.Order{
		orderWith(t, now, &order.Rating{Grade: 5}, order.Dish{Name: "ramen", Price: 9}),
		orderWith(t, now, &order.Rating{Grade: 2}, order.Dish{Name: "gyoza", Price: 5}),
		orderWith(t, now, nil, order.Dish{Name: "ramen", Price: 9}), // 未评价，不计入
	}
	avg, ok := AverageRating(orders)
	require.True(t, ok)
	assert.InDelta(t, 3.5, avg, 1e-9)

	_, ok = AverageRating([]*order.Order{orderWith(t, now, nil, order.Dish{Name: "ramen", Price: 9})})
	assert.False(t, ok)
}

func TestPopularDish(t *testing.T) {
	now := time.Now()
	donut := order.Dish{ID: 1, Name: "donut", Price: 2}
	coffee := order.Dish{ID: 2, Name: "coffee", Price: 3}
	orders := []*order.Order{
		orderWith(t, now, nil, donut, coffee),
		orderWith(t, now, nil, donut),
		orderWith(t, now, nil, donut, coffee),
	}
	dish, ok := PopularDish(orders)
	require.True(t, ok)
	assert.Equal(t, "donut", dish.Name)

	_, ok = PopularDish(nil)
	assert.False(t, ok)
}

func TestPopularDish_CountsByIdentity(t *testing.T) {
	// 订单里存的是快照：同一道菜（同 id）在商家改名前后的订单中名字不同，
	// 计数必须按 id 归并，不能按名字分裂
	now := time.Now()
	soup := order.Dish{ID: 3, Name: "soup", Price: 4}
	phoOld := order.Dish{ID: 9, Name: "pho bo", Price: 10}
	phoNew := order.Dish{ID: 9, Name: "pho", Price: 10}
	orders := []*order.Order{
		orderWith(t, now, nil, phoOld, soup),
		orderWith(t, now, nil, phoNew, soup),
		orderWith(t, now, nil, phoNew),
	}
	dish, ok := PopularDish(orders)
	require.True(t, ok)
	// id 9 共 3 次，soup 2 次
	assert.Equal(t, int64(9), dish.ID)
}

func TestPopularDish_TieKeepsFirstSeen(t *testing.T) {
	now := time.Now()
	orders := []*order.Order{
		orderWith(t, now, nil,
			order.Dish{ID: 1, Name: "soup", Price: 4},
			order.Dish{ID: 2, Name: "salad", Price: 5},
		),
	}
	dish, ok := PopularDish(orders)
	require.True(t, ok)
	// 并列计数时保留先遇到的菜，后来者必须严格超出才能上位
	assert.Equal(t, "soup", dish.Name)
}

func TestPopularDish_TieBreaksOnFirstEncounter(t *testing.T) {
	now := time.Now()
	burger := order.Dish{ID: 1, Name: "burger", Price: 7}
	arancini := order.Dish{ID: 2, Name: "arancini", Price: 6}
	// 出现序列 burger, arancini, arancini, burger：2:2 平手，
	// arancini 先到达 2，但 burger 先被遇到，裁决归 burger
	orders := []*order.Order{
		orderWith(t, now, nil, burger, arancini),
		orderWith(t, now, nil, arancini, burger),
	}
	dish, ok := PopularDish(orders)
	require.True(t, ok)
	assert.Equal(t, "burger", dish.Name)
}

func TestAverageOrdersPerDay(t *testing.T) {
	d1 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)
	d3 := time.Date(2026, 8, 5, 20, 15, 0, 0, time.UTC)
	dish := order.Dish{Name: "pad thai", Price: 11}
	orders := []*order.Order{
		orderWith(t, d1, nil, dish),
		orderWith(t, d1.Add(3*time.Hour), nil, dish), // 同一天
		orderWith(t, d2, nil, dish),
		orderWith(t, d3, nil, dish),
	}
	avg, ok := AverageOrdersPerDay(orders)
	require.True(t, ok)
	assert.InDelta(t, 4.0/3.0, avg, 1e-9)

	_, ok = AverageOrdersPerDay(nil)
	assert.False(t, ok)
}
