// Package model 定义排班模拟引擎的核心数据模型
package model

import "strings"

// PairHistory 历史协作计数（对称映射：无序姓名对 -> 共班次数）
// 由调用方基于过往排班/预约预先计算，引擎只读，仅用于亲和度评分
type PairHistory struct {
	counts map[string]int
}

// NewPairHistory 创建空的协作历史
func NewPairHistory() *PairHistory {
	return &PairHistory{counts: make(map[string]int)}
}

// PairKey 生成规范化键：两个姓名排序后以 "|" 连接
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Add 累加一次协作
func (p *PairHistory) Add(a, b string, n int) {
	if a == b {
		return
	}
	p.counts[PairKey(a, b)] += n
}

// Count 返回两人的协作次数
func (p *PairHistory) Count(a, b string) int {
	if p == nil {
		return 0
	}
	return p.counts[PairKey(a, b)]
}

// TotalFor 返回某员工在全部历史中的协作总次数
func (p *PairHistory) TotalFor(name string) int {
	if p == nil {
		return 0
	}
	total := 0
	for key, n := range p.counts {
		a, b, _ := strings.Cut(key, "|")
		if a == name || b == name {
			total += n
		}
	}
	return total
}

// Len 返回记录的姓名对数量
func (p *PairHistory) Len() int {
	if p == nil {
		return 0
	}
	return len(p.counts)
}

// BuildPairHistory 从过往排班推导协作历史：同一（日期，班次）内的
// 每一对员工计 1 次
func BuildPairHistory(assignments []StaffAssignment) *PairHistory {
	byShift := make(map[string][]string)
	order := make([]string, 0)
	for _, a := range assignments {
		key := a.Date + "_" + string(a.Shift)
		if _, ok := byShift[key]; !ok {
			order = append(order, key)
		}
		byShift[key] = append(byShift[key], a.StaffName)
	}

	history := NewPairHistory()
	for _, key := range order {
		names := byShift[key]
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				history.Add(names[i], names[j], 1)
			}
		}
	}
	return history
}
