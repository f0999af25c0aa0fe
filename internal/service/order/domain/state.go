package domain

// Status 定义了订单的生命周期状态。
// 字符串字面量就是状态机的内部词汇表，配送适配器在服务边界上
// 负责与外部配送系统的词汇互译。
type Status string

const (
	StatusPending        Status = "pending"          // 已下单，等待扣款
	StatusAccepted       Status = "accepted"         // 扣款成功，订单生效
	StatusPreparing      Status = "preparing"        // 商家已接到通知，制作中
	StatusGivenToCourier Status = "given to courier" // 已交给骑手
	StatusOnTransit      Status = "on-transit"       // 配送途中
	StatusDelivered      Status = "delivered"        // 已送达（终态）
	StatusRejected       Status = "rejected"         // 已拒绝（吸收态，不再流转）
)

// progression 是正常推进的全序。rejected 不在其中，单独处理。
var progression = []Status{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusGivenToCourier,
	StatusOnTransit,
	StatusDelivered,
}

// AllStatuses 返回完整的状态词汇表。
func AllStatuses() []Status {
	all := make([]Status, 0, len(progression)+1)
	all = append(all, progression...)
	return append(all, StatusRejected)
}

// Valid 判断 s 是否属于定义的状态集合。
func (s Status) Valid() bool {
	if s == StatusRejected {
		return true
	}
	return s.rank() >= 0
}

// Terminal 判断 s 是否为终态：delivered 正常结束，rejected 吸收一切。
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusRejected
}

func (s Status) rank() int {
	for i, st := range progression {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo 判断从 s 到 next 的流转是否合法。
// 允许沿正常推进方向前移任意步（配送侧轮询可能一次跨越多个中间态），
// 非终态都可以被拒绝；rejected 与 delivered 不再流转。
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusRejected {
		return true
	}
	from, to := s.rank(), next.rank()
	if from < 0 || to < 0 {
		return false
	}
	return to > from
}

// ParseStatus 把任意字符串解析为状态。
// 未收录的输入一律视为 rejected（fail-closed），绝不透传未知状态。
func ParseStatus(raw string) Status {
	s := Status(raw)
	if s.Valid() {
		return s
	}
	return StatusRejected
}
