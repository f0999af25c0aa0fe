package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

func TestKafkaVendorNotifier_MissingRecipient(t *testing.T) {
	// 收件方校验发生在任何网络动作之前，writer 为 nil 也不会被触碰
	notifier := NewKafkaVendorNotifier(nil)

	order, err := domain.NewOrder(7, 3, []domain.Dish{{Name: "ramen", Price: 9}}, domain.Location{}, "")
	require.NoError(t, err)

	// 未持久化的订单没有 id
	assert.ErrorIs(t, notifier.NotifyOrderAccepted(context.Background(), order), port.ErrMissingRecipient)

	order.ID = 100
	order.VendorID = 0
	assert.ErrorIs(t, notifier.NotifyOrderAccepted(context.Background(), order), port.ErrMissingRecipient)
}
