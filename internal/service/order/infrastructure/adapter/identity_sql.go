package adapter

import (
	"context"
	"database/sql"

	// 身份表走原生 database/sql，注册 mysql 驱动
	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// SQLIdentityOracle 实现了 port.IdentityOracle 接口。
// 身份表由账号系统维护，这里只做只读的存在性查询，
// 不值得为三张表引入完整的 ORM 映射。
type SQLIdentityOracle struct {
	db *sql.DB
}

func NewSQLIdentityOracle(dsn string) (*SQLIdentityOracle, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open identity db")
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	return &SQLIdentityOracle{db: db}, nil
}

func (o *SQLIdentityOracle) IsCustomer(ctx context.Context, id int64) (bool, error) {
	return o.exists(ctx, "SELECT 1 FROM customers WHERE id = ?", id)
}

func (o *SQLIdentityOracle) IsVendor(ctx context.Context, id int64) (bool, error) {
	return o.exists(ctx, "SELECT 1 FROM vendors WHERE id = ?", id)
}

func (o *SQLIdentityOracle) IsAdmin(ctx context.Context, id int64) (bool, error) {
	return o.exists(ctx, "SELECT 1 FROM admins WHERE id = ?", id)
}

func (o *SQLIdentityOracle) exists(ctx context.Context, query string, id int64) (bool, error) {
	var one int
	err := o.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "identity lookup")
	}
	return true, nil
}

func (o *SQLIdentityOracle) Close() error {
	return o.db.Close()
}
