// Package stats 提供模拟结果的统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 工时公平性
	WorkloadGini     float64 `json:"workload_gini"`       // 工时基尼系数 (0=完全公平, 1=完全不公平)
	WorkloadVariance float64 `json:"workload_variance"`   // 工时方差
	WorkloadStdDev   float64 `json:"workload_std_dev"`    // 工时标准差
	AvgHoursPerStaff float64 `json:"avg_hours_per_staff"` // 人均工时
	MaxHours         float64 `json:"max_hours"`           // 最大工时
	MinHours         float64 `json:"min_hours"`           // 最小工时
	HoursRange       float64 `json:"hours_range"`         // 工时极差

	// 员工级别统计
	StaffStats []StaffStat `json:"staff_stats"`

	// 综合评分
	OverallFairnessScore float64 `json:"overall_fairness_score"` // 综合公平性评分 (0-100)
}

// StaffStat 员工统计
type StaffStat struct {
	StaffName       string  `json:"staff_name"`
	Role            string  `json:"role"`
	TotalHours      float64 `json:"total_hours"`
	ShiftCount      int     `json:"shift_count"`
	DoubleShiftDays int     `json:"double_shift_days"` // 同日双班天数
	OvertimeHours   float64 `json:"overtime_hours"`    // 超出个人上限的工时
	Deviation       float64 `json:"deviation"`         // 与平均值的偏差百分比
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析模拟结果中的工时公平性（只统计被排班的员工）
func (f *FairnessAnalyzer) Analyze(result *model.SimulationResult, staff []model.StaffMember) *FairnessMetrics {
	if result == nil {
		return &FairnessMetrics{OverallFairnessScore: 100}
	}

	staffStats := f.calculateStaffStats(result, staff)
	if len(staffStats) == 0 {
		return &FairnessMetrics{OverallFairnessScore: 100}
	}

	hours := make([]float64, len(staffStats))
	for i, stat := range staffStats {
		hours[i] = stat.TotalHours
	}

	avgHours := f.calculateMean(hours)
	variance := f.calculateVariance(hours, avgHours)
	stdDev := math.Sqrt(variance)
	maxHours, minHours := f.calculateRange(hours)

	// 更新员工偏差
	for i := range staffStats {
		if avgHours > 0 {
			staffStats[i].Deviation = (staffStats[i].TotalHours - avgHours) / avgHours * 100
		}
	}

	workloadGini := f.calculateGini(hours)
	overallScore := f.calculateOverallScore(workloadGini, stdDev, avgHours)

	return &FairnessMetrics{
		WorkloadGini:         workloadGini,
		WorkloadVariance:     variance,
		WorkloadStdDev:       stdDev,
		AvgHoursPerStaff:     avgHours,
		MaxHours:             maxHours,
		MinHours:             minHours,
		HoursRange:           maxHours - minHours,
		StaffStats:           staffStats,
		OverallFairnessScore: overallScore,
	}
}

// calculateStaffStats 统计每个被排班员工的数据
func (f *FairnessAnalyzer) calculateStaffStats(result *model.SimulationResult, staff []model.StaffMember) []StaffStat {
	maxHours := make(map[string]int)
	for i := range staff {
		maxHours[staff[i].Name] = staff[i].MaxHours()
	}

	type acc struct {
		role   model.Role
		hours  float64
		shifts int
		perDay map[string]int
	}
	byName := make(map[string]*acc)
	order := make([]string, 0)

	for i := range result.Schedule {
		day := &result.Schedule[i]
		for _, shift := range model.ShiftOrder {
			ss, ok := day.Shifts[shift]
			if !ok {
				continue
			}
			for j := range ss.Assignments {
				a := &ss.Assignments[j]
				entry, exists := byName[a.StaffName]
				if !exists {
					entry = &acc{role: a.Role, perDay: make(map[string]int)}
					byName[a.StaffName] = entry
					order = append(order, a.StaffName)
				}
				entry.hours += model.ShiftHours
				entry.shifts++
				entry.perDay[day.Date]++
			}
		}
	}

	stats := make([]StaffStat, 0, len(order))
	for _, name := range order {
		entry := byName[name]

		doubleDays := 0
		for _, n := range entry.perDay {
			if n > 1 {
				doubleDays++
			}
		}

		overtime := 0.0
		if limit, ok := maxHours[name]; ok && entry.hours > float64(limit) {
			overtime = entry.hours - float64(limit)
		}

		stats = append(stats, StaffStat{
			StaffName:       name,
			Role:            string(entry.role),
			TotalHours:      entry.hours,
			ShiftCount:      entry.shifts,
			DoubleShiftDays: doubleDays,
			OvertimeHours:   overtime,
		})
	}

	return stats
}

// calculateMean 计算平均值
func (f *FairnessAnalyzer) calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateVariance 计算方差
func (f *FairnessAnalyzer) calculateVariance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(values))
}

// calculateRange 计算最大最小值
func (f *FairnessAnalyzer) calculateRange(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	maxV, minV := values[0], values[0]
	for _, v := range values[1:] {
		if v > maxV {
			maxV = v
		}
		if v < minV {
			minV = v
		}
	}
	return maxV, minV
}

// calculateGini 计算基尼系数
func (f *FairnessAnalyzer) calculateGini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	weightedSum := 0.0
	for i, v := range sorted {
		sum += v
		weightedSum += float64(i+1) * v
	}
	if sum == 0 {
		return 0
	}

	return (2*weightedSum)/(float64(n)*sum) - float64(n+1)/float64(n)
}

// calculateOverallScore 计算综合公平性评分
func (f *FairnessAnalyzer) calculateOverallScore(gini, stdDev, avgHours float64) float64 {
	// 基尼系数占大头, 标准差相对平均值的比例作修正
	score := (1 - gini) * 100

	if avgHours > 0 {
		cv := stdDev / avgHours
		score -= cv * 20
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
