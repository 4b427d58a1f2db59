// Package model 定义排班模拟引擎的核心数据模型
package model

// Role 职位类型
type Role string

const (
	RoleDoctor     Role = "doctor"     // 医师
	RoleNurse      Role = "nurse"      // 护理师
	RoleTherapist  Role = "therapist"  // 美疗师
	RoleConsultant Role = "consultant" // 咨询师
	RoleAdmin      Role = "admin"      // 行政
)

// RoleOrder 分配优先顺序：医师优先，因为护理师等后续职位的亲和度
// 评分依赖于班内已就位的医师
var RoleOrder = []Role{RoleDoctor, RoleNurse, RoleTherapist, RoleConsultant, RoleAdmin}

// SkillLevel 技能等级
type SkillLevel string

const (
	SkillSenior SkillLevel = "senior"
	SkillMid    SkillLevel = "mid"
	SkillJunior SkillLevel = "junior"
)

// DefaultMaxHoursPerWeek 默认每周最大工时
const DefaultMaxHoursPerWeek = 44

// StaffMember 员工（花名册由调用方提供，引擎只读）
type StaffMember struct {
	Name            string     `json:"name"`
	Role            Role       `json:"role"`
	SkillLevel      SkillLevel `json:"skill_level,omitempty"`
	Status          string     `json:"status"` // active/inactive/leave
	MaxHoursPerWeek int        `json:"max_hours_per_week,omitempty"`
}

// IsActive 检查员工是否在职
func (s *StaffMember) IsActive() bool {
	return s.Status == "active"
}

// MaxHours 返回每周最大工时（未设置时使用默认值）
func (s *StaffMember) MaxHours() int {
	if s.MaxHoursPerWeek > 0 {
		return s.MaxHoursPerWeek
	}
	return DefaultMaxHoursPerWeek
}
