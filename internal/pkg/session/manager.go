package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"tavolo/internal/pkg/redis"
)

const sessionTTL = 10 * time.Minute

// Manager 记录 "顾客 -> 推送网关节点" 的会话关系。
// 网关水平扩容后，状态事件按这张表路由到持有连接的节点。
type Manager struct {
	redisClient *redis.Client
}

func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{redisClient: redisClient}
}

func sessionKey(customerID string) string {
	return fmt.Sprintf("session:gateway:{%s}", customerID)
}

// SetUserGateway 登记顾客当前连接的网关节点。
func (m *Manager) SetUserGateway(ctx context.Context, customerID, nodeID string) error {
	return m.redisClient.GetClient().Set(ctx, sessionKey(customerID), nodeID, sessionTTL).Err()
}

// GetUserGateway 查询顾客所在的网关节点，未在线时返回空串。
func (m *Manager) GetUserGateway(ctx context.Context, customerID string) (string, error) {
	nodeID, err := m.redisClient.GetClient().Get(ctx, sessionKey(customerID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", err
	}
	return nodeID, nil
}

// ClearUserGateway 在连接断开时清理会话。
func (m *Manager) ClearUserGateway(ctx context.Context, customerID string) error {
	return m.redisClient.GetClient().Del(ctx, sessionKey(customerID)).Err()
}

// RefreshUserGateway 心跳续期。
func (m *Manager) RefreshUserGateway(ctx context.Context, customerID string) error {
	return m.redisClient.GetClient().Expire(ctx, sessionKey(customerID), sessionTTL).Err()
}
