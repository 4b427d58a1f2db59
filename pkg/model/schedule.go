// Package model 定义排班模拟引擎的核心数据模型
package model

// ShiftType 班次类型
type ShiftType string

const (
	ShiftAM ShiftType = "AM" // 早班
	ShiftPM ShiftType = "PM" // 午班
	ShiftEV ShiftType = "EV" // 晚班（历史数据无晚间时段，需求恒为空）
)

// ShiftOrder 班次处理顺序
var ShiftOrder = []ShiftType{ShiftAM, ShiftPM, ShiftEV}

// ShiftHours 每班工时（小时）
const ShiftHours = 4

// ShiftDemand 单个（日期，班次）的人力需求
type ShiftDemand struct {
	Date         string           `json:"date"`
	Shift        ShiftType        `json:"shift"`
	Requirements map[Role]float64 `json:"requirements"` // 职位 -> 需求人数（保留1位小数）
	IsBaseline   bool             `json:"is_baseline,omitempty"`
}

// ScoreBreakdown 评分明细（负值为惩罚）
type ScoreBreakdown struct {
	Base     float64 `json:"base"`     // 技能等级
	Affinity float64 `json:"affinity"` // 历史协作
	Monopoly float64 `json:"monopoly"` // 垄断惩罚
	Fatigue  float64 `json:"fatigue"`  // 疲劳惩罚
	Leave    float64 `json:"leave"`    // 请假/工时冲突惩罚
}

// Total 返回各项之和
func (b ScoreBreakdown) Total() float64 {
	return b.Base + b.Affinity + b.Monopoly + b.Fatigue + b.Leave
}

// CandidateScore 候选人评分
type CandidateScore struct {
	StaffName  string         `json:"staff_name"`
	TotalScore float64        `json:"total_score"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}

// StaffAssignment 一次排班分配（产生后不可变，情景替换以新对象取代旧对象）
type StaffAssignment struct {
	Date             string          `json:"date"`
	Shift            ShiftType       `json:"shift"`
	Role             Role            `json:"role"`
	StaffName        string          `json:"staff_name"`
	CumulativeHours  int             `json:"cumulative_hours"` // 分配时点的累计工时
	ScoreDetails     *CandidateScore `json:"score_details,omitempty"`
	IsManualOverride bool            `json:"is_manual_override,omitempty"`
}

// ShiftSchedule 单个班次的排班结果
type ShiftSchedule struct {
	Assignments   []StaffAssignment `json:"assignments"`
	UnfilledRoles map[Role]int      `json:"unfilled_roles"` // 缺口
	IsBaseline    bool              `json:"is_baseline,omitempty"`
}

// DailySchedule 单日排班结果
type DailySchedule struct {
	Date   string                       `json:"date"`
	Shifts map[ShiftType]*ShiftSchedule `json:"shifts"`
}

// Metrics 模拟汇总指标
type Metrics struct {
	Coverage          int     `json:"coverage"` // 覆盖率 %
	OverworkedCount   int     `json:"overworked_count"`
	MonopolyRiskCount int     `json:"monopoly_risk_count"`
	AvgAffinityScore  float64 `json:"avg_affinity_score"`
}

// SimulationResult 一次模拟的完整输出
type SimulationResult struct {
	Schedule []DailySchedule  `json:"schedule"`
	Metrics  Metrics          `json:"metrics"`
	Logs     []string         `json:"logs"`
	Config   SimulationConfig `json:"config"` // 产生本结果的配置（情景评分沿用）
}

// Clone 深拷贝模拟结果（情景套用采用写时复制，避免与展示层共享可变状态）
func (r *SimulationResult) Clone() *SimulationResult {
	out := &SimulationResult{
		Schedule: make([]DailySchedule, len(r.Schedule)),
		Metrics:  r.Metrics,
		Logs:     append([]string(nil), r.Logs...),
		Config:   r.Config.Clone(),
	}
	for i, day := range r.Schedule {
		copied := DailySchedule{Date: day.Date, Shifts: make(map[ShiftType]*ShiftSchedule, len(day.Shifts))}
		for shift, ss := range day.Shifts {
			newSS := &ShiftSchedule{
				Assignments:   make([]StaffAssignment, len(ss.Assignments)),
				UnfilledRoles: make(map[Role]int, len(ss.UnfilledRoles)),
				IsBaseline:    ss.IsBaseline,
			}
			for j, a := range ss.Assignments {
				newSS.Assignments[j] = a
				if a.ScoreDetails != nil {
					sc := *a.ScoreDetails
					newSS.Assignments[j].ScoreDetails = &sc
				}
			}
			for role, n := range ss.UnfilledRoles {
				newSS.UnfilledRoles[role] = n
			}
			copied.Shifts[shift] = newSS
		}
		out.Schedule[i] = copied
	}
	return out
}

// FindDay 按日期查找单日排班
func (r *SimulationResult) FindDay(date string) *DailySchedule {
	for i := range r.Schedule {
		if r.Schedule[i].Date == date {
			return &r.Schedule[i]
		}
	}
	return nil
}
