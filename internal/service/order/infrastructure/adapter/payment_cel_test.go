package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavolo/internal/service/order/domain/port"
)

func TestCELPaymentAuthorizer(t *testing.T) {
	authorizer, err := NewCELPaymentAuthorizer("customer_id > 0 && price > 0.0")
	require.NoError(t, err)

	ctx := context.Background()

	assert.NoError(t, authorizer.Authorize(ctx, 7, 12.5))

	// 匿名顾客、零元单、负价单都必须拒绝
	assert.ErrorIs(t, authorizer.Authorize(ctx, 0, 12.5), port.ErrPaymentDeclined)
	assert.ErrorIs(t, authorizer.Authorize(ctx, 7, 0), port.ErrPaymentDeclined)
	assert.ErrorIs(t, authorizer.Authorize(ctx, 7, -3.2), port.ErrPaymentDeclined)
	assert.ErrorIs(t, authorizer.Authorize(ctx, -1, -1), port.ErrPaymentDeclined)
}

func TestNewCELPaymentAuthorizer_BadRule(t *testing.T) {
	_, err := NewCELPaymentAuthorizer("customer_id >>> banana")
	assert.Error(t, err)
}
