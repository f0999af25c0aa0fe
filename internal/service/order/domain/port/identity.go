package port

import "context"

// IdentityOracle 回答 "这个 id 是不是顾客/商家/管理员"。
// 鉴权体系在别的系统里，这里只需要布尔答案。
type IdentityOracle interface {
	IsCustomer(ctx context.Context, id int64) (bool, error)
	IsVendor(ctx context.Context, id int64) (bool, error)
	IsAdmin(ctx context.Context, id int64) (bool, error)
}
