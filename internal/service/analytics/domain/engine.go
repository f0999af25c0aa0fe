// Package domain 实现经营分析的纯计算核心。
// 所有函数都是无副作用的纯函数，输入为空集时用第二个返回值表示
// "无数据"，绝不编造 0 之类的假统计值。
package domain

import (
	order "tavolo/internal/service/order/domain"
)

// AverageDishPrice 计算菜单的平均菜价。空菜单没有平均价。
func AverageDishPrice(catalog []order.Dish) (float64, bool) {
	if len(catalog) == 0 {
		return 0, false
	}
	var sum float64
	for _, d := range catalog {
		sum += d.Price
	}
	return sum / float64(len(catalog)), true
}

// AverageRating 计算已评价订单的平均评分。未评价的订单不参与计算。
func AverageRating(orders []*order.Order) (float64, bool) {
	var sum, n int
	for _, o := range orders {
		if o.Rating == nil {
			continue
		}
		sum += o.Rating.Grade
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// PopularDish 找出订单集中出现次数最多的菜。
// 按菜品 id 归并计数：订单里存的是快照，同一道菜在不同订单中
// 名字可能不一样。并列时取先被遇到的那道（遍历顺序即订单顺序 × 出餐顺序）。
func PopularDish(orders []*order.Order) (order.Dish, bool) {
	type tally struct {
		dish  order.Dish
		count int
		seen  int // 首次出现的序号，平手时的裁决依据
	}
	counts := make(map[int64]*tally)
	next := 0
	for _, o := range orders {
		for _, d := range o.Dishes {
			t, exists := counts[d.ID]
			if !exists {
				t = &tally{dish: d, seen: next}
				next++
				counts[d.ID] = t
			}
			t.count++
		}
	}

	var best *tally
	for _, t := range counts {
		if best == nil || t.count > best.count || (t.count == best.count && t.seen < best.seen) {
			best = t
		}
	}
	if best == nil {
		return order.Dish{}, false
	}
	return best.dish, true
}

// AverageOrdersPerDay 计算日均订单量：总单数除以出现过订单的自然日数。
// 按下单时间戳的年月日分组，时间戳按原样取日历日，不做时区归一。
func AverageOrdersPerDay(orders []*order.Order) (float64, bool) {
	if len(orders) == 0 {
		return 0, false
	}
	type day struct {
		year  int
		month int
		dom   int
	}
	days := make(map[day]struct{})
	for _, o := range orders {
		y, m, d := o.CreatedAt.Date()
		days[day{y, int(m), d}] = struct{}{}
	}
	return float64(len(orders)) / float64(len(days)), true
}
