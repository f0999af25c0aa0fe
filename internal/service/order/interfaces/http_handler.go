package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/mq"
	"tavolo/internal/service/order/application"
	"tavolo/internal/service/order/domain"
)

// OrderHandler 是订单服务的 HTTP 入站适配器。
type OrderHandler struct {
	svc              *application.OrderApplicationService
	completionWriter *kafka.Writer // 异步完成请求的投递通道
}

func NewOrderHandler(svc *application.OrderApplicationService, completionWriter *kafka.Writer) *OrderHandler {
	return &OrderHandler{svc: svc, completionWriter: completionWriter}
}

func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.placeOrder)
	mux.HandleFunc("GET /orders", h.getOrder)
	mux.HandleFunc("POST /orders/complete", h.completeOrder)
	mux.HandleFunc("POST /orders/complete/async", h.completeOrderAsync)
	mux.HandleFunc("POST /orders/rate", h.rateOrder)
	mux.HandleFunc("POST /vendors", h.createVendor)
	mux.HandleFunc("GET /vendors", h.getVendor)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (h *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var cmd application.PlaceOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	order, err := h.svc.PlaceOrder(ctx, cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	order, err := h.svc.GetOrder(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) completeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	status, err := h.svc.CompleteOrder(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// completeOrderAsync 把完成请求丢进 Kafka 就返回，由消费端驱动流水线。
func (h *OrderHandler) completeOrderAsync(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	event := domain.OrderCompletionRequested{OrderID: id, RequestID: uuid.NewString()}
	payload, _ := json.Marshal(event)
	key := []byte(strconv.FormatInt(id, 10))
	if err := mq.ProduceMessage(ctx, h.completionWriter, key, payload); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, event)
}

func (h *OrderHandler) rateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var cmd application.RateOrderCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.svc.RateOrder(ctx, cmd); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) createVendor(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var vendor domain.Vendor
	if err := json.NewDecoder(r.Body).Decode(&vendor); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.svc.CreateVendor(ctx, &vendor); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (h *OrderHandler) getVendor(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid vendor id", http.StatusBadRequest)
		return
	}
	vendor, err := h.svc.GetVendor(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func extract(r *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrVendorNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, application.ErrNotACustomer):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrEmptyOrder):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("请求处理失败")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
