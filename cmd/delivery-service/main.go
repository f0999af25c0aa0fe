// delivery-service 模拟外部配送系统，供本地联调使用。
// 它讲配送系统自己的状态词汇（Pascal_Case），每次状态查询
// 推进一步配送进度，模拟骑手取餐、在途、送达的过程。
package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"tavolo/internal/pkg/bootstrap"
	"tavolo/internal/pkg/logger"
)

const (
	serviceName = "delivery-service"
	servicePort = 8086
)

// 配送单在外部系统内的生命周期，按轮询次数推进
var courierProgression = []string{"Given_To_Courier", "On_Transit", "Delivered"}

type deliveryStore struct {
	mu     sync.Mutex
	stages map[int64]int // orderID -> progression 下标
}

func (s *deliveryStore) dispatch(orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.stages[orderID]; !exists {
		s.stages[orderID] = 0
	}
}

// advance 返回当前状态并把进度往前拨一格，送达后不再变化。
func (s *deliveryStore) advance(orderID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, exists := s.stages[orderID]
	if !exists {
		return "", false
	}
	status := courierProgression[idx]
	if idx < len(courierProgression)-1 {
		s.stages[orderID] = idx + 1
	}
	return status, true
}

func main() {
	bootstrap.Init()
	store := &deliveryStore{stages: make(map[int64]int)}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("POST /delivery", func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("auth") == "" {
					http.Error(w, "missing auth", http.StatusUnauthorized)
					return
				}
				var payload struct {
					OrderID int64 `json:"order_id"`
				}
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.OrderID == 0 {
					http.Error(w, "invalid dispatch payload", http.StatusBadRequest)
					return
				}
				store.dispatch(payload.OrderID)
				logger.Ctx(r.Context()).Info().Int64("order_id", payload.OrderID).Msg("配送单已受理")
				w.WriteHeader(http.StatusAccepted)
			})

			appCtx.Mux.HandleFunc("GET /delivery/order/", func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("auth") == "" {
					http.Error(w, "missing auth", http.StatusUnauthorized)
					return
				}
				// 路径形如 /delivery/order/{id}/status
				parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
				if len(parts) != 4 || parts[3] != "status" {
					http.NotFound(w, r)
					return
				}
				orderID, err := strconv.ParseInt(parts[2], 10, 64)
				if err != nil {
					http.Error(w, "invalid order id", http.StatusBadRequest)
					return
				}
				status, found := store.advance(orderID)
				if !found {
					http.Error(w, "unknown delivery order", http.StatusNotFound)
					return
				}
				w.Write([]byte(status))
			})

			appCtx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		},
	})
}
