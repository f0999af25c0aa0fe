package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	dishes := []Dish{
		{ID: 1, Name: "pho", Allergens: []string{"gluten"}, Price: 10},
		{ID: 2, Name: "spring rolls", Price: 5.5},
	}
	order, err := NewOrder(7, 3, dishes, Location{Lat: 10.8, Long: 106.7}, "no cilantro")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.InDelta(t, 15.5, order.Price, 1e-9)
	assert.Equal(t, "no cilantro", order.SpecialRequirements)
	require.Len(t, order.Dishes, 2)
	assert.Equal(t, "pho", order.Dishes[0].Name)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestNewOrder_Empty(t *testing.T) {
	_, err := NewOrder(7, 3, nil, Location{}, "")
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestNewOrder_SnapshotIsDeepCopy(t *testing.T) {
	menu := []Dish{{ID: 1, Name: "pho", Allergens: []string{"gluten"}, Price: 10}}
	order, err := NewOrder(7, 3, menu, Location{}, "")
	require.NoError(t, err)

	// 商家改菜单不能影响已下的订单
	menu[0].Price = 99
	menu[0].Allergens[0] = "peanuts"

	assert.InDelta(t, 10.0, order.Dishes[0].Price, 1e-9)
	assert.Equal(t, []string{"gluten"}, order.Dishes[0].Allergens)
}

func TestOrderRejectAndRate(t *testing.T) {
	order, err := NewOrder(7, 3, []Dish{{Name: "pho", Price: 10}}, Location{}, "")
	require.NoError(t, err)

	assert.False(t, order.Rejected())
	order.Reject()
	assert.True(t, order.Rejected())

	order.Rate(4, "arrived warm")
	require.NotNil(t, order.Rating)
	assert.Equal(t, 4, order.Rating.Grade)
}
