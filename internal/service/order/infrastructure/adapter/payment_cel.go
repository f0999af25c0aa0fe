package adapter

import (
	"context"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/pkg/errors"

	"tavolo/internal/pkg/logger"
	"tavolo/internal/service/order/domain/port"
)

// CELPaymentAuthorizer 实现了 port.PaymentAuthorizer 接口。
// 授权规则是一条 CEL 表达式（如 "customer_id > 0 && price > 0.0"），
// 从配置下发，改规则不用改代码。
type CELPaymentAuthorizer struct {
	program cel.Program
	rule    string
}

func NewCELPaymentAuthorizer(rule string) (*CELPaymentAuthorizer, error) {
	env, err := cel.NewEnv(
		cel.Variable("customer_id", cel.IntType),
		cel.Variable("price", cel.DoubleType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "build cel env")
	}
	ast, issues := env.Compile(rule)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "compile payment rule %q", rule)
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "build cel program")
	}
	return &CELPaymentAuthorizer{program: program, rule: rule}, nil
}

func (a *CELPaymentAuthorizer) Authorize(ctx context.Context, customerID int64, amount float64) error {
	out, _, err := a.program.Eval(map[string]interface{}{
		"customer_id": customerID,
		"price":       amount,
	})
	if err != nil {
		return errors.Wrap(err, "evaluate payment rule")
	}
	if out != types.True {
		logger.Ctx(ctx).Warn().
			Int64("customer_id", customerID).
			Float64("price", amount).
			Str("rule", a.rule).
			Msg("支付规则判定不通过")
		return port.ErrPaymentDeclined
	}
	return nil
}
