package stats

import (
	"math"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	OverallCoverage float64 `json:"overall_coverage"` // 总体覆盖率 (0-100)
	TotalSlots      int     `json:"total_slots"`      // 总槽位数
	FilledSlots     int     `json:"filled_slots"`     // 已填补槽位数
	UnfilledSlots   int     `json:"unfilled_slots"`   // 缺口槽位数

	ByRole  map[string]*SlotCoverage `json:"by_role"`  // 按职位分解
	ByShift map[string]*SlotCoverage `json:"by_shift"` // 按班次分解

	// 缺口明细, 按时间顺序
	Gaps []CoverageGap `json:"gaps,omitempty"`
}

// SlotCoverage 某一维度的槽位覆盖情况
type SlotCoverage struct {
	Total    int     `json:"total"`
	Filled   int     `json:"filled"`
	Unfilled int     `json:"unfilled"`
	Rate     float64 `json:"rate"` // 0-100
}

// CoverageGap 单个缺口
type CoverageGap struct {
	Date     string `json:"date"`
	Shift    string `json:"shift"`
	Role     string `json:"role"`
	Shortage int    `json:"shortage"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 分析模拟结果的覆盖情况
func (c *CoverageAnalyzer) Analyze(result *model.SimulationResult) *CoverageMetrics {
	metrics := &CoverageMetrics{
		ByRole:  make(map[string]*SlotCoverage),
		ByShift: make(map[string]*SlotCoverage),
	}
	if result == nil {
		metrics.OverallCoverage = 100
		return metrics
	}

	for i := range result.Schedule {
		day := &result.Schedule[i]
		for _, shift := range model.ShiftOrder {
			ss, ok := day.Shifts[shift]
			if !ok {
				continue
			}

			for j := range ss.Assignments {
				a := &ss.Assignments[j]
				metrics.TotalSlots++
				metrics.FilledSlots++
				bump(metrics.ByRole, string(a.Role), true)
				bump(metrics.ByShift, string(shift), true)
			}

			for _, role := range model.RoleOrder {
				n := ss.UnfilledRoles[role]
				if n == 0 {
					continue
				}
				metrics.TotalSlots += n
				metrics.UnfilledSlots += n
				for k := 0; k < n; k++ {
					bump(metrics.ByRole, string(role), false)
					bump(metrics.ByShift, string(shift), false)
				}
				metrics.Gaps = append(metrics.Gaps, CoverageGap{
					Date:     day.Date,
					Shift:    string(shift),
					Role:     string(role),
					Shortage: n,
				})
			}
		}
	}

	metrics.OverallCoverage = rate(metrics.FilledSlots, metrics.TotalSlots)
	for _, sc := range metrics.ByRole {
		sc.Rate = rate(sc.Filled, sc.Total)
	}
	for _, sc := range metrics.ByShift {
		sc.Rate = rate(sc.Filled, sc.Total)
	}

	return metrics
}

// bump 累加某一维度的槽位计数
func bump(m map[string]*SlotCoverage, key string, filled bool) {
	sc, ok := m[key]
	if !ok {
		sc = &SlotCoverage{}
		m[key] = sc
	}
	sc.Total++
	if filled {
		sc.Filled++
	} else {
		sc.Unfilled++
	}
}

// rate 计算百分比覆盖率（无槽位按 100 计）
func rate(filled, total int) float64 {
	if total == 0 {
		return 100
	}
	return math.Round(float64(filled)/float64(total)*10000) / 100
}
