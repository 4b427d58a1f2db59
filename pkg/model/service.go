// Package model 定义排班模拟引擎的核心数据模型
package model

import "strings"

// ServiceCategory 疗程类别（开放字符串，标准类别见常量）
type ServiceCategory string

const (
	CategoryInject  ServiceCategory = "inject"  // 微整注射
	CategoryRF      ServiceCategory = "rf"      // 电音波
	CategoryLaser   ServiceCategory = "laser"   // 雷射
	CategoryDrip    ServiceCategory = "drip"    // 点滴
	CategoryConsult ServiceCategory = "consult" // 咨询
	CategoryOther   ServiceCategory = "other"   // 其他
)

// Service 疗程目录条目（外部提供，引擎只读）
type Service struct {
	Name       string          `json:"service_name"`
	Category   ServiceCategory `json:"category"`
	Duration   int             `json:"duration"`    // 操作时间（分钟）
	BufferTime int             `json:"buffer_time"` // 缓冲时间（分钟）
}

// OccupiedMinutes 返回疗程占用的总分钟数
func (s *Service) OccupiedMinutes() int {
	return s.Duration + s.BufferTime
}

// AppointmentStatus 预约状态
type AppointmentStatus string

const (
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentRecord 历史预约记录（仅用于需求估算，引擎只读）
type AppointmentRecord struct {
	Date          string            `json:"date"` // YYYY-MM-DD
	Time          string            `json:"time,omitempty"`
	DatetimeStart string            `json:"datetime_start,omitempty"`
	TimeSlot      string            `json:"time_slot,omitempty"` // 预处理班次（AM/PM）
	ServiceItem   string            `json:"service_item"`
	Status        AppointmentStatus `json:"status"`
}

// IsCancelled 检查预约是否已取消（取消的预约不计入需求）
func (a *AppointmentRecord) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// GuessCategory 按关键字推断疗程类别（目录中查不到疗程名时的兜底）
func GuessCategory(itemName string) ServiceCategory {
	lower := strings.ToLower(itemName)
	switch {
	case strings.Contains(lower, "laser") || strings.Contains(lower, "皮秒"):
		return CategoryLaser
	case strings.Contains(lower, "botox") || strings.Contains(lower, "玻尿酸"):
		return CategoryInject
	case strings.Contains(lower, "thermage") || strings.Contains(lower, "電波"):
		return CategoryRF
	case strings.Contains(lower, "consult") || strings.Contains(lower, "諮詢"):
		return CategoryConsult
	default:
		return CategoryOther
	}
}
