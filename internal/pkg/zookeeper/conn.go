package zookeeper

import (
	"time"

	"github.com/go-zookeeper/zk"
)

// Conn 封装 ZooKeeper 连接，统一建连参数。
type Conn struct {
	*zk.Conn
}

// Connect 建立到 ZooKeeper 集群的连接。
func Connect(servers []string, sessionTimeout time.Duration) (*Conn, error) {
	conn, _, err := zk.Connect(servers, sessionTimeout, zk.WithLogInfo(false))
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn}, nil
}
