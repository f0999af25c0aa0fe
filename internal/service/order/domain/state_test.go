package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.Valid(), "%q", s)
	}
	assert.False(t, Status("cancelled").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusRejected.Terminal())
	for _, s := range []Status{StatusPending, StatusAccepted, StatusPreparing, StatusGivenToCourier, StatusOnTransit} {
		assert.False(t, s.Terminal(), "%q", s)
	}
}

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusAccepted))
	// 配送轮询可能一次跨越多个中间态
	assert.True(t, StatusPreparing.CanTransitionTo(StatusOnTransit))
	assert.True(t, StatusPending.CanTransitionTo(StatusDelivered))

	// 只许前进
	assert.False(t, StatusAccepted.CanTransitionTo(StatusPending))
	assert.False(t, StatusOnTransit.CanTransitionTo(StatusPreparing))

	// 非终态都能被拒绝，终态不再流转
	assert.True(t, StatusOnTransit.CanTransitionTo(StatusRejected))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusRejected))
	assert.False(t, StatusRejected.CanTransitionTo(StatusPending))
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusGivenToCourier, ParseStatus("given to courier"))
	assert.Equal(t, StatusOnTransit, ParseStatus("on-transit"))
	// 未知词一律折叠为 rejected
	assert.Equal(t, StatusRejected, ParseStatus("on transit"))
	assert.Equal(t, StatusRejected, ParseStatus("whatever"))
}
