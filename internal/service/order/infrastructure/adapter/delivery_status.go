package adapter

import (
	"strings"

	"tavolo/internal/service/order/domain"
)

// 外部配送系统使用 Pascal_Case 词汇（如 "Given_To_Courier"），
// 内部词汇是小写、空格/连字符分隔。两个方向都是全函数：
// 任何输入都有输出，无法识别的外部词一律折叠成 rejected（失败关闭）。

// ToExternalStatus 把内部状态翻译成配送系统的词汇。
// 规则：空格与连字符替换为下划线，每个词段首字母大写。
func ToExternalStatus(s domain.Status) string {
	raw := string(s)
	var b strings.Builder
	b.Grow(len(raw))
	upper := true
	for _, r := range raw {
		switch r {
		case ' ', '-':
			b.WriteByte('_')
			upper = true
		default:
			if upper {
				b.WriteString(strings.ToUpper(string(r)))
				upper = false
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// FromExternalStatus 把配送系统的词汇翻译回内部状态。
// "On_Transit" 是唯一的特例：内部写法带连字符而不是空格，
// 通用的 下划线→空格 规则覆盖不到它，必须单独映射。
func FromExternalStatus(external string) domain.Status {
	if external == "" {
		return domain.StatusRejected
	}
	if strings.EqualFold(external, "On_Transit") {
		return domain.StatusOnTransit
	}
	candidate := strings.ReplaceAll(strings.ToLower(external), "_", " ")
	status := domain.Status(candidate)
	if status.Valid() {
		return status
	}
	return domain.StatusRejected
}
