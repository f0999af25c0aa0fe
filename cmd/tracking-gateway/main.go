// tracking-gateway 是订单追踪的 WebSocket 网关。
// 顾客端与任意一个网关实例建立长连接，网关把连接归属记入 Redis
// 会话表；订单状态事件从 Kafka 进来后，推给本实例持有的连接。
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tavolo/internal/pkg/bootstrap"
	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/mq"
	"tavolo/internal/pkg/redis"
	"tavolo/internal/pkg/session"
	"tavolo/internal/service/order/domain"
)

const (
	serviceName = "tracking-gateway"
	servicePort = 8084
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// hub 维护本实例持有的顾客长连接。
type hub struct {
	mu    sync.RWMutex
	conns map[int64]*websocket.Conn
}

func newHub() *hub {
	return &hub{conns: make(map[int64]*websocket.Conn)}
}

func (h *hub) add(customerID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// 同一顾客的新连接顶掉旧连接
	if old, exists := h.conns[customerID]; exists {
		old.Close()
	}
	h.conns[customerID] = conn
}

func (h *hub) remove(customerID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[customerID] == conn {
		delete(h.conns, customerID)
	}
}

func (h *hub) push(customerID int64, payload []byte) bool {
	h.mu.RLock()
	conn, exists := h.conns[customerID]
	h.mu.RUnlock()
	if !exists {
		return false
	}
	return conn.WriteMessage(websocket.TextMessage, payload) == nil
}

func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	ctx := context.Background()

	nodeID := uuid.NewString()
	h := newHub()

	var redisClient *redis.Client

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			redisClient = redis.NewClient(cfg.Infra.Redis.Addr)
			sessions := session.NewManager(redisClient)

			appCtx.Mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
				customerID, err := strconv.ParseInt(r.URL.Query().Get("customer_id"), 10, 64)
				if err != nil {
					http.Error(w, "invalid customer id", http.StatusBadRequest)
					return
				}
				conn, err := upgrader.Upgrade(w, r, nil)
				if err != nil {
					logger.Ctx(r.Context()).Error().Err(err).Msg("websocket 升级失败")
					return
				}

				h.add(customerID, conn)
				customerKey := strconv.FormatInt(customerID, 10)
				if err := sessions.SetUserGateway(r.Context(), customerKey, nodeID); err != nil {
					logger.Ctx(r.Context()).Error().Err(err).Int64("customer_id", customerID).Msg("会话登记失败")
				}

				go func() {
					defer func() {
						h.remove(customerID, conn)
						_ = sessions.ClearUserGateway(context.Background(), customerKey)
						conn.Close()
					}()
					for {
						// 只推不收，读循环用于感知断连和处理控制帧
						if _, _, err := conn.ReadMessage(); err != nil {
							return
						}
						_ = sessions.RefreshUserGateway(context.Background(), customerKey)
					}
				}()
			})

			appCtx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.App.OrderStatusTopic, serviceName+"-"+nodeID)
			go func() {
				for {
					msg, err := reader.FetchMessage(ctx)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						logger.Ctx(ctx).Error().Err(err).Msg("拉取状态事件失败")
						continue
					}
					msgCtx := mq.ExtractTraceContext(ctx, msg.Headers)

					var event domain.OrderStatusChanged
					if err := json.Unmarshal(msg.Value, &event); err != nil {
						logger.Ctx(msgCtx).Error().Err(err).Msg("状态事件格式非法，丢弃")
					} else if h.push(event.CustomerID, msg.Value) {
						logger.Ctx(msgCtx).Debug().
							Int64("customer_id", event.CustomerID).
							Int64("order_id", event.OrderID).
							Str("status", event.Status).
							Msg("状态推送成功")
					}

					if err := reader.CommitMessages(ctx, msg); err != nil {
						logger.Ctx(msgCtx).Error().Err(err).Msg("提交位点失败")
					}
				}
			}()
		},
		OnShutdown: func(shutdownCtx context.Context) {
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					logger.Ctx(shutdownCtx).Error().Err(err).Msg("redis close failed")
				}
			}
		},
	})
}
