package adapter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/pkg/zookeeper"
)

// ZKCompletionLock 实现了 port.CompletionLock 接口。
// 每个订单一把 ZooKeeper 分布式锁，保证同一订单的完成流程跨实例互斥。
type ZKCompletionLock struct {
	conn *zookeeper.Conn
}

func NewZKCompletionLock(conn *zookeeper.Conn) *ZKCompletionLock {
	return &ZKCompletionLock{conn: conn}
}

func (l *ZKCompletionLock) Acquire(ctx context.Context, orderID int64) (func(), error) {
	lock, err := zookeeper.NewDistributedLock(l.conn, fmt.Sprintf("order-%d", orderID))
	if err != nil {
		return nil, errors.Wrap(err, "create completion lock")
	}
	if err := lock.Lock(ctx); err != nil {
		return nil, errors.Wrap(err, "acquire completion lock")
	}
	release := func() {
		if err := lock.Unlock(); err != nil {
			logger.Ctx(ctx).Error().Err(err).Int64("order_id", orderID).Msg("完成锁释放失败")
		}
	}
	return release, nil
}
