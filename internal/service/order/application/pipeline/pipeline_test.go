package pipeline

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

type fakeAuthorizer struct {
	err   error
	calls int
}

func (f *fakeAuthorizer) Authorize(_ context.Context, _ int64, _ float64) error {
	f.calls++
	return f.err
}

type fakeNotifier struct {
	err   error
	calls int
}

func (f *fakeNotifier) NotifyOrderAccepted(_ context.Context, _ *domain.Order) error {
	f.calls++
	return f.err
}

type fakeDispatcher struct {
	dispatchErr   error
	status        domain.Status
	fetchErr      error
	dispatchCalls int
	fetchCalls    int
}

func (f *fakeDispatcher) Dispatch(_ context.Context, _ port.DeliveryRequest) error {
	f.dispatchCalls++
	return f.dispatchErr
}

func (f *fakeDispatcher) FetchStatus(_ context.Context, _, _ int64) (domain.Status, error) {
	f.fetchCalls++
	return f.status, f.fetchErr
}

func newTestPipeline(a *fakeAuthorizer, n *fakeNotifier, d *fakeDispatcher) *Pipeline {
	return New(noop.NewTracerProvider().Tracer("test"), a, n, d)
}

func pendingOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(7, 3, []domain.Dish{{ID: 1, Name: "carbonara", Price: 12.5}}, domain.Location{Lat: 41.9, Long: 12.5}, "")
	require.NoError(t, err)
	order.ID = 100
	return order
}

func TestRun_FullSuccess(t *testing.T) {
	a, n := &fakeAuthorizer{}, &fakeNotifier{}
	d := &fakeDispatcher{status: domain.StatusDelivered}
	order := pendingOrder(t)

	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	assert.Equal(t, domain.StatusDelivered, final)
	assert.Equal(t, domain.StatusDelivered, order.Status)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, n.calls)
	assert.Equal(t, 1, d.dispatchCalls)
	assert.Equal(t, 1, d.fetchCalls)
}

func TestRun_IntermediateDeliveryStatus(t *testing.T) {
	a, n := &fakeAuthorizer{}, &fakeNotifier{}
	d := &fakeDispatcher{status: domain.StatusGivenToCourier}
	order := pendingOrder(t)

	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	// 单次查询只推进到配送系统报告的状态，后续进度靠重跑流水线续查
	assert.Equal(t, domain.StatusGivenToCourier, final)
}

func TestRun_PaymentDeclined(t *testing.T) {
	a := &fakeAuthorizer{err: port.ErrPaymentDeclined}
	n, d := &fakeNotifier{}, &fakeDispatcher{}
	order := pendingOrder(t)

	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	assert.Equal(t, domain.StatusRejected, final)
	// 支付失败后，后续阶段一个都不能碰
	assert.Equal(t, 0, n.calls)
	assert.Equal(t, 0, d.dispatchCalls)
}

func TestRun_NotificationFailure(t *testing.T) {
	a := &fakeAuthorizer{}
	n := &fakeNotifier{err: port.ErrMissingRecipient}
	d := &fakeDispatcher{}
	order := pendingOrder(t)

	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	assert.Equal(t, domain.StatusRejected, final)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 0, d.dispatchCalls)
}

func TestRun_RejectedOrderIsNoop(t *testing.T) {
	a, n, d := &fakeAuthorizer{}, &fakeNotifier{}, &fakeDispatcher{}
	order := pendingOrder(t)
	order.Reject()

	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	assert.Equal(t, domain.StatusRejected, final)
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 0, n.calls)
	assert.Equal(t, 0, d.dispatchCalls)
}

func TestRun_ResumesFromAccepted(t *testing.T) {
	a, n := &fakeAuthorizer{}, &fakeNotifier{}
	d := &fakeDispatcher{status: domain.StatusDelivered}
	order := pendingOrder(t)
	order.SetStatus(domain.StatusAccepted)

	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	assert.Equal(t, domain.StatusDelivered, final)
	// 已扣款的订单续跑时不得二次扣款
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 1, n.calls)
}

func TestRun_ResumesFromOnTransit(t *testing.T) {
	a, n := &fakeAuthorizer{}, &fakeNotifier{}
	d := &fakeDispatcher{status: domain.StatusDelivered}
	order := pendingOrder(t)
	order.SetStatus(domain.StatusOnTransit)

	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	// 中间态的订单直接落到配送阶段续查
	assert.Equal(t, domain.StatusDelivered, final)
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 0, n.calls)
	assert.Equal(t, 1, d.fetchCalls)
}

func TestRun_DispatchFailureRejects(t *testing.T) {
	a, n := &fakeAuthorizer{}, &fakeNotifier{}
	d := &fakeDispatcher{dispatchErr: errors.New("courier fleet unavailable")}
	order := pendingOrder(t)

	before := testutil.ToFloat64(stageFailures.WithLabelValues(StageDelivery))
	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	assert.Equal(t, domain.StatusRejected, final)
	assert.Equal(t, 1, d.dispatchCalls)
	assert.Equal(t, 0, d.fetchCalls)
	// 派单失败是硬失败，计入阶段失败
	assert.Equal(t, before+1, testutil.ToFloat64(stageFailures.WithLabelValues(StageDelivery)))
}

func TestRun_PollFailureKeepsCurrentStatus(t *testing.T) {
	a, n := &fakeAuthorizer{}, &fakeNotifier{}
	d := &fakeDispatcher{fetchErr: errors.New("delivery service timeout")}
	order := pendingOrder(t)

	before := testutil.ToFloat64(stageFailures.WithLabelValues(StageDelivery))
	final := newTestPipeline(a, n, d).Run(context.Background(), order)

	// 查询失败是软失败：订单停在进配送阶段时的状态，不是 rejected
	assert.Equal(t, domain.StatusPreparing, final)
	assert.Equal(t, domain.StatusPreparing, order.Status)
	assert.Equal(t, 1, d.fetchCalls)
	// 软失败不计入阶段失败
	assert.Equal(t, before, testutil.ToFloat64(stageFailures.WithLabelValues(StageDelivery)))
}
