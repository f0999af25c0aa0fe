package zookeeper

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-zookeeper/zk"
)

const lockRoot = "/tavolo_locks" // 所有分布式锁的根节点

// DistributedLock 基于临时顺序节点实现的分布式互斥锁。
// 经典的 "最小节点持锁、其余节点 watch 前驱" 方案，避免惊群。
type DistributedLock struct {
	conn     *Conn
	path     string // 锁的父路径，例如 /tavolo_locks/order-42
	lockNode string // 成功获取锁后，自己创建的节点路径
}

// NewDistributedLock 创建一个针对 resourceID 的锁实例。
func NewDistributedLock(conn *Conn, resourceID string) (*DistributedLock, error) {
	if err := ensureNode(conn, lockRoot); err != nil {
		return nil, err
	}

	lockPath := lockRoot + "/" + resourceID
	if err := ensureNode(conn, lockPath); err != nil {
		return nil, err
	}

	return &DistributedLock{
		conn: conn,
		path: lockPath,
	}, nil
}

func ensureNode(conn *Conn, path string) error {
	exists, _, err := conn.Exists(path)
	if err != nil {
		return fmt.Errorf("failed to check node %s: %w", path, err)
	}
	if exists {
		return nil
	}
	_, err = conn.Create(path, []byte(""), 0, zk.WorldACL(zk.PermAll))
	if err != nil && err != zk.ErrNodeExists {
		return fmt.Errorf("failed to create node %s: %w", path, err)
	}
	return nil
}

// Lock 尝试获取锁，获取不到则阻塞等待，直到拿到锁或 ctx 结束。
func (l *DistributedLock) Lock(ctx context.Context) error {
	// 1. 创建临时顺序节点，会话断开后自动清理
	nodePath, err := l.conn.CreateProtectedEphemeralSequential(l.path+"/lock-", []byte(""), zk.WorldACL(zk.PermAll))
	if err != nil {
		return fmt.Errorf("failed to create sequential node: %w", err)
	}
	l.lockNode = nodePath

	for {
		// 2. 列出全部竞争者并排序
		children, _, err := l.conn.Children(l.path)
		if err != nil {
			return fmt.Errorf("failed to get children nodes: %w", err)
		}
		sort.Strings(children)

		// 3. 自己是最小节点则持锁
		myNodeName := strings.TrimPrefix(l.lockNode, l.path+"/")
		if myNodeName == children[0] {
			return nil
		}

		// 4. 否则 watch 前一个节点
		prevNodeIndex := -1
		for i, child := range children {
			if child == myNodeName {
				prevNodeIndex = i - 1
				break
			}
		}
		if prevNodeIndex < 0 {
			return fmt.Errorf("own lock node %s disappeared from %s", myNodeName, l.path)
		}
		prevNodePath := l.path + "/" + children[prevNodeIndex]

		exists, _, eventChan, err := l.conn.ExistsW(prevNodePath)
		if err != nil {
			if err == zk.ErrNoNode {
				continue // 前驱刚好释放，重新竞争
			}
			return fmt.Errorf("failed to watch previous node: %w", err)
		}
		if !exists {
			continue
		}

		select {
		case event := <-eventChan:
			if event.Type == zk.EventNodeDeleted {
				continue
			}
		case <-ctx.Done():
			_ = l.Unlock()
			return ctx.Err()
		}
	}
}

// Unlock 删除自己的节点以释放锁。
func (l *DistributedLock) Unlock() error {
	if l.lockNode == "" {
		return nil
	}
	err := l.conn.Delete(l.lockNode, -1)
	l.lockNode = ""
	if err != nil && err != zk.ErrNoNode {
		return fmt.Errorf("failed to delete lock node: %w", err)
	}
	return nil
}
