package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"tavolo/internal/pkg/httpclient"
	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

func newDispatcher(t *testing.T, handler http.Handler) *HTTPDeliveryDispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := httpclient.NewClient(noop.NewTracerProvider().Tracer("test"))
	return NewHTTPDeliveryDispatcher(client, srv.URL)
}

func TestDispatch(t *testing.T) {
	var got dispatchPayload
	var auth string
	d := newDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/delivery", r.URL.Path)
		auth = r.URL.Query().Get("auth")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))

	err := d.Dispatch(context.Background(), port.DeliveryRequest{
		CustomerID:  7,
		VendorID:    3,
		OrderID:     100,
		Destination: domain.Location{Lat: 41.9, Long: 12.5},
	})
	require.NoError(t, err)
	assert.Equal(t, "7", auth)
	assert.Equal(t, int64(100), got.OrderID)
	assert.Equal(t, 41.9, got.DestLat)
}

func TestDispatch_Refused(t *testing.T) {
	d := newDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no couriers in area", http.StatusConflict)
	}))

	err := d.Dispatch(context.Background(), port.DeliveryRequest{CustomerID: 7, OrderID: 100})
	assert.Error(t, err)
}

func TestFetchStatus(t *testing.T) {
	d := newDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/delivery/order/100/status", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("auth"))
		w.Write([]byte("On_Transit\n"))
	}))

	status, err := d.FetchStatus(context.Background(), 100, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnTransit, status)
}

func TestFetchStatus_Unavailable(t *testing.T) {
	d := newDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := d.FetchStatus(context.Background(), 100, 7)
	assert.Error(t, err)
}

func TestFetchStatus_UnknownVocabularyFailsClosed(t *testing.T) {
	d := newDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Lost_In_Space"))
	}))

	status, err := d.FetchStatus(context.Background(), 100, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, status)
}
