// Package validator 提供排班结果验证功能
package validator

import (
	"fmt"
	"time"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictDuplicate    ConflictType = "duplicate"    // 同班次重复分配
	ConflictMaxHours     ConflictType = "max_hours"    // 超过工时上限
	ConflictConsecutive  ConflictType = "consecutive"  // 连续天数过多
	ConflictRoleMismatch ConflictType = "role"         // 职位不匹配
	ConflictInactive     ConflictType = "availability" // 非在职员工被排班
)

// Conflict 冲突信息
type Conflict struct {
	Type      ConflictType `json:"type"`
	Severity  string       `json:"severity"` // error/warning
	StaffName string       `json:"staff_name"`
	Date      string       `json:"date,omitempty"`
	Shift     string       `json:"shift,omitempty"`
	Message   string       `json:"message"`
}

// ConflictDetector 冲突检测器
type ConflictDetector struct {
	config *DetectorConfig
}

// DetectorConfig 检测器配置
type DetectorConfig struct {
	MaxConsecutiveDays int  // 最大连续工作天数
	CheckRoles         bool // 是否检查职位匹配
	CheckStatus        bool // 是否检查在职状态
}

// DefaultDetectorConfig 返回默认配置
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		MaxConsecutiveDays: 6,
		CheckRoles:         true,
		CheckStatus:        true,
	}
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(config *DetectorConfig) *ConflictDetector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	return &ConflictDetector{config: config}
}

// DetectAll 检测模拟结果中的全部冲突
//
// 引擎自身保证无重复分配; 这里的检查面向手工替补之后的结果,
// 人工干预可能引入引擎不会产生的冲突
func (d *ConflictDetector) DetectAll(result *model.SimulationResult, staff []model.StaffMember) []Conflict {
	if result == nil {
		return nil
	}

	roster := make(map[string]*model.StaffMember, len(staff))
	for i := range staff {
		roster[staff[i].Name] = &staff[i]
	}

	var conflicts []Conflict
	conflicts = append(conflicts, d.detectDuplicates(result)...)
	conflicts = append(conflicts, d.detectHoursViolations(result, roster)...)
	conflicts = append(conflicts, d.detectConsecutiveViolations(result)...)
	if d.config.CheckRoles || d.config.CheckStatus {
		conflicts = append(conflicts, d.detectRosterViolations(result, roster)...)
	}

	return conflicts
}

// detectDuplicates 检测同一班次内的重复分配
func (d *ConflictDetector) detectDuplicates(result *model.SimulationResult) []Conflict {
	var conflicts []Conflict

	for i := range result.Schedule {
		day := &result.Schedule[i]
		for _, shift := range model.ShiftOrder {
			ss, ok := day.Shifts[shift]
			if !ok {
				continue
			}
			seen := make(map[string]bool)
			for j := range ss.Assignments {
				name := ss.Assignments[j].StaffName
				if seen[name] {
					conflicts = append(conflicts, Conflict{
						Type:      ConflictDuplicate,
						Severity:  "error",
						StaffName: name,
						Date:      day.Date,
						Shift:     string(shift),
						Message:   fmt.Sprintf("%s 在 %s %s 班被重复分配", name, day.Date, shift),
					})
				}
				seen[name] = true
			}
		}
	}

	return conflicts
}

// detectHoursViolations 检测超过个人工时上限的员工
func (d *ConflictDetector) detectHoursViolations(result *model.SimulationResult, roster map[string]*model.StaffMember) []Conflict {
	hours := make(map[string]int)
	order := make([]string, 0)

	for i := range result.Schedule {
		for _, shift := range model.ShiftOrder {
			ss, ok := result.Schedule[i].Shifts[shift]
			if !ok {
				continue
			}
			for j := range ss.Assignments {
				name := ss.Assignments[j].StaffName
				if _, exists := hours[name]; !exists {
					order = append(order, name)
				}
				hours[name] += model.ShiftHours
			}
		}
	}

	var conflicts []Conflict
	for _, name := range order {
		limit := model.DefaultMaxHoursPerWeek
		if s, ok := roster[name]; ok {
			limit = s.MaxHours()
		}
		if hours[name] > limit {
			conflicts = append(conflicts, Conflict{
				Type:      ConflictMaxHours,
				Severity:  "warning",
				StaffName: name,
				Message:   fmt.Sprintf("%s 累计 %d 小时, 超过上限 %d 小时", name, hours[name], limit),
			})
		}
	}

	return conflicts
}

// detectConsecutiveViolations 检测连续工作天数超限的员工
func (d *ConflictDetector) detectConsecutiveViolations(result *model.SimulationResult) []Conflict {
	workDays := make(map[string]map[string]bool)
	order := make([]string, 0)

	for i := range result.Schedule {
		day := &result.Schedule[i]
		for _, shift := range model.ShiftOrder {
			ss, ok := day.Shifts[shift]
			if !ok {
				continue
			}
			for j := range ss.Assignments {
				name := ss.Assignments[j].StaffName
				if _, exists := workDays[name]; !exists {
					workDays[name] = make(map[string]bool)
					order = append(order, name)
				}
				workDays[name][day.Date] = true
			}
		}
	}

	var conflicts []Conflict
	for _, name := range order {
		streak, from := longestStreak(workDays[name])
		if streak > d.config.MaxConsecutiveDays {
			conflicts = append(conflicts, Conflict{
				Type:      ConflictConsecutive,
				Severity:  "warning",
				StaffName: name,
				Date:      from,
				Message:   fmt.Sprintf("%s 自 %s 起连续工作 %d 天, 超过上限 %d 天", name, from, streak, d.config.MaxConsecutiveDays),
			})
		}
	}

	return conflicts
}

// detectRosterViolations 对照花名册检测职位不匹配与非在职分配
func (d *ConflictDetector) detectRosterViolations(result *model.SimulationResult, roster map[string]*model.StaffMember) []Conflict {
	var conflicts []Conflict

	for i := range result.Schedule {
		day := &result.Schedule[i]
		for _, shift := range model.ShiftOrder {
			ss, ok := day.Shifts[shift]
			if !ok {
				continue
			}
			for j := range ss.Assignments {
				a := &ss.Assignments[j]
				s, known := roster[a.StaffName]
				if !known {
					continue // 花名册未提供时不判定
				}

				if d.config.CheckRoles && s.Role != a.Role {
					conflicts = append(conflicts, Conflict{
						Type:      ConflictRoleMismatch,
						Severity:  "error",
						StaffName: a.StaffName,
						Date:      day.Date,
						Shift:     string(shift),
						Message:   fmt.Sprintf("%s 的职位是 %s, 被排到 %s 槽位", a.StaffName, s.Role, a.Role),
					})
				}
				if d.config.CheckStatus && !s.IsActive() {
					conflicts = append(conflicts, Conflict{
						Type:      ConflictInactive,
						Severity:  "error",
						StaffName: a.StaffName,
						Date:      day.Date,
						Shift:     string(shift),
						Message:   fmt.Sprintf("%s 已非在职, 不应被排班", a.StaffName),
					})
				}
			}
		}
	}

	return conflicts
}

// longestStreak 计算最长连续工作天数及其起始日期
func longestStreak(days map[string]bool) (int, string) {
	best, bestFrom := 0, ""

	for date := range days {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		// 仅从连续段的起点开始计数
		prev := d.AddDate(0, 0, -1).Format("2006-01-02")
		if days[prev] {
			continue
		}

		streak := 1
		cur := d
		for {
			next := cur.AddDate(0, 0, 1)
			if !days[next.Format("2006-01-02")] {
				break
			}
			streak++
			cur = next
		}
		if streak > best {
			best = streak
			bestFrom = date
		}
	}

	return best, bestFrom
}
