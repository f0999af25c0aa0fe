package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/service/analytics/application"
	order "tavolo/internal/service/order/domain"
)

// AnalyticsHandler 是分析服务的 HTTP 入站适配器。
type AnalyticsHandler struct {
	svc *application.AnalyticsService
}

func NewAnalyticsHandler(svc *application.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /analytics/vendor", h.vendorSummary)
	mux.HandleFunc("GET /analytics/vendor/price", h.metric(func(s *application.VendorSummary) interface{} {
		return s.AverageDishPrice
	}))
	mux.HandleFunc("GET /analytics/vendor/rating", h.metric(func(s *application.VendorSummary) interface{} {
		return s.AverageRating
	}))
	mux.HandleFunc("GET /analytics/vendor/popular-dish", h.metric(func(s *application.VendorSummary) interface{} {
		return s.PopularDish
	}))
	mux.HandleFunc("GET /analytics/vendor/orders-per-day", h.metric(func(s *application.VendorSummary) interface{} {
		return s.AverageOrdersPerDay
	}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (h *AnalyticsHandler) vendorSummary(w http.ResponseWriter, r *http.Request) {
	summary, done := h.load(w, r)
	if done {
		return
	}
	writeJSON(w, summary)
}

// metric 把快照投影成单个指标的只读端点。缺数据时响应体为 null。
func (h *AnalyticsHandler) metric(project func(*application.VendorSummary) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, done := h.load(w, r)
		if done {
			return
		}
		writeJSON(w, project(summary))
	}
}

func (h *AnalyticsHandler) load(w http.ResponseWriter, r *http.Request) (*application.VendorSummary, bool) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	vendorID, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid vendor id", http.StatusBadRequest)
		return nil, true
	}

	summary, err := h.svc.VendorSummary(ctx, vendorID)
	if err != nil {
		if errors.Is(err, order.ErrVendorNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil, true
		}
		logger.Ctx(ctx).Error().Err(err).Int64("vendor_id", vendorID).Msg("生成经营快照失败")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, true
	}
	return summary, false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
