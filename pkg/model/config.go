// Package model 定义排班模拟引擎的核心数据模型
package model

import (
	"fmt"
	"time"

	"github.com/clinicshift/clinicshift/pkg/errors"
)

// 配置默认值
const (
	DefaultMonopolyThreshold    = 0.4
	DefaultMaxConsecutiveShifts = 3
	DefaultAffinityWeight       = 1.0
)

// SimulationConfig 模拟配置（引擎唯一可由调用方修改的输入）
type SimulationConfig struct {
	StartDate    string `json:"start_date"` // YYYY-MM-DD
	Days         int    `json:"days"`
	ShiftsPerDay int    `json:"shifts_per_day"` // 2 或 3（晚班恒为空班）

	// 规则开关
	UseAffinity      bool `json:"use_affinity"`
	UseMonopoly      bool `json:"use_monopoly"`
	UseWorkloadLimit bool `json:"use_workload_limit"`

	// 数值参数
	AffinityWeight       float64 `json:"affinity_weight"`
	MonopolyThreshold    float64 `json:"monopoly_threshold"`
	MaxConsecutiveShifts int     `json:"max_consecutive_shifts"`

	// 保底人力
	BaselineEnabled bool         `json:"baseline_enabled"`
	BaselineCounts  map[Role]int `json:"baseline_counts,omitempty"`
}

// DefaultSimulationConfig 返回带默认参数的配置
func DefaultSimulationConfig(startDate string, days int) SimulationConfig {
	return SimulationConfig{
		StartDate:            startDate,
		Days:                 days,
		ShiftsPerDay:         2,
		UseAffinity:          true,
		UseMonopoly:          true,
		UseWorkloadLimit:     true,
		AffinityWeight:       DefaultAffinityWeight,
		MonopolyThreshold:    DefaultMonopolyThreshold,
		MaxConsecutiveShifts: DefaultMaxConsecutiveShifts,
	}
}

// Clone 深拷贝配置
func (c SimulationConfig) Clone() SimulationConfig {
	out := c
	if c.BaselineCounts != nil {
		out.BaselineCounts = make(map[Role]int, len(c.BaselineCounts))
		for role, n := range c.BaselineCounts {
			out.BaselineCounts[role] = n
		}
	}
	return out
}

// Validate 校验配置（调用方误用与运行期缺口分开报告）
func (c SimulationConfig) Validate() error {
	ve := &errors.ValidationErrors{}

	if _, err := time.Parse("2006-01-02", c.StartDate); err != nil {
		ve.Add("start_date", fmt.Sprintf("日期格式无效: %q", c.StartDate))
	}
	if c.Days < 1 {
		ve.Add("days", fmt.Sprintf("天数必须 >= 1, 实际 %d", c.Days))
	}
	for role, n := range c.BaselineCounts {
		if n < 0 {
			ve.Add("baseline_counts."+string(role), fmt.Sprintf("保底人数不能为负: %d", n))
		}
	}

	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}
