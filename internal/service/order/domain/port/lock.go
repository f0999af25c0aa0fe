package port

import "context"

// CompletionLock 保证同一订单同一时刻至多有一个完成流程在跑。
// 流水线本身不持有共享状态，互斥语义全部收敛在这个端口后面。
type CompletionLock interface {
	// Acquire 获取 orderID 的独占锁，返回释放函数。
	Acquire(ctx context.Context, orderID int64) (release func(), err error)
}
