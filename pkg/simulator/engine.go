// Package simulator 提供排班模拟引擎：贪心分配、指标汇总与情景分析
package simulator

import (
	"fmt"
	"math"
	"time"

	"github.com/clinicshift/clinicshift/pkg/logger"
	"github.com/clinicshift/clinicshift/pkg/model"
	"github.com/clinicshift/clinicshift/pkg/simulator/demand"
	"github.com/clinicshift/clinicshift/pkg/simulator/scoring"
)

// Engine 排班模拟引擎
//
// 单线程、同步、无跨调用共享状态：每次 Run 构建全新的工时表与分配历史。
// 输入集合均为调用方所有，引擎只读不改
type Engine struct {
	staff        []model.StaffMember
	appointments []model.AppointmentRecord
	services     []model.Service
	pairs        *model.PairHistory
	estimator    *demand.Estimator
	logger       *logger.SimulatorLogger
}

// NewEngine 创建模拟引擎
func NewEngine(
	staff []model.StaffMember,
	appointments []model.AppointmentRecord,
	services []model.Service,
	pairs *model.PairHistory,
) *Engine {
	if pairs == nil {
		pairs = model.NewPairHistory()
	}
	return &Engine{
		staff:        staff,
		appointments: appointments,
		services:     services,
		pairs:        pairs,
		estimator:    demand.NewEstimator(),
		logger:       logger.NewSimulatorLogger(),
	}
}

// Run 执行一次完整模拟
//
// 配置无效属于调用方误用，作为错误一次性返回；运行期的人力缺口
// 不是错误，以 UnfilledRoles 与日志行的形式体现在结果中
func (e *Engine) Run(cfg model.SimulationConfig) (*model.SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	e.logger.StartSimulation(cfg.StartDate, cfg.Days, len(e.staff))

	logs := []string{"Starting Simulation..."}

	// 1. 估算需求
	demands := e.estimator.Estimate(e.appointments, e.services, cfg)
	logs = append(logs, fmt.Sprintf("Demand estimated for %d shifts.", len(demands)))

	// 2. 按日期分组（估算器按日期升序产出，这里保序收集）
	type dayDemand struct {
		date   string
		shifts map[model.ShiftType]*model.ShiftDemand
	}
	days := make([]*dayDemand, 0, cfg.Days)
	dayIndex := make(map[string]*dayDemand)
	for i := range demands {
		d := &demands[i]
		day, ok := dayIndex[d.Date]
		if !ok {
			day = &dayDemand{date: d.Date, shifts: make(map[model.ShiftType]*model.ShiftDemand)}
			dayIndex[d.Date] = day
			days = append(days, day)
		}
		day.shifts[d.Shift] = d
	}

	// 3. 模拟主循环
	schedule := make([]model.DailySchedule, 0, len(days))
	staffHours := make(map[string]int)
	history := make([]model.StaffAssignment, 0)
	totalAssignments := 0

	for _, day := range days {
		daySchedule := model.DailySchedule{
			Date:   day.date,
			Shifts: make(map[model.ShiftType]*model.ShiftSchedule),
		}

		for _, shift := range model.ShiftOrder {
			shiftDemand, ok := day.shifts[shift]
			if !ok {
				continue // 晚班无需求时跳过
			}

			shiftSchedule := &model.ShiftSchedule{
				Assignments:   make([]model.StaffAssignment, 0),
				UnfilledRoles: make(map[model.Role]int),
				IsBaseline:    shiftDemand.IsBaseline,
			}

			for _, role := range model.RoleOrder {
				needed := int(math.Ceil(shiftDemand.Requirements[role]))

				for slot := 0; slot < needed; slot++ {
					chosen := e.selectBestCandidate(role, day.date, shift, cfg, staffHours, shiftSchedule.Assignments, history)
					if chosen == nil {
						shiftSchedule.UnfilledRoles[role]++
						logs = append(logs, fmt.Sprintf("[Shortage] Could not fill %s on %s %s", role, day.date, shift))
						e.logger.Shortage(day.date, string(shift), string(role))
						continue
					}

					shiftSchedule.Assignments = append(shiftSchedule.Assignments, *chosen)
					history = append(history, *chosen)
					staffHours[chosen.StaffName] += model.ShiftHours
					totalAssignments++
				}
			}

			daySchedule.Shifts[shift] = shiftSchedule
		}

		schedule = append(schedule, daySchedule)
	}

	// 4. 指标汇总
	metrics := e.calculateMetrics(schedule, staffHours, cfg)

	result := &model.SimulationResult{
		Schedule: schedule,
		Metrics:  metrics,
		Logs:     logs,
		Config:   cfg.Clone(),
	}

	e.logger.SimulationComplete(time.Since(startTime), metrics.Coverage, totalAssignments)
	return result, nil
}

// selectBestCandidate 为一个（职位，日期，班次）槽位挑选最佳候选人
//
// 并列分数按花名册原始顺序取先出现者，保证相同输入下结果可复现
func (e *Engine) selectBestCandidate(
	role model.Role,
	date string,
	shift model.ShiftType,
	cfg model.SimulationConfig,
	staffHours map[string]int,
	shiftAssignments []model.StaffAssignment,
	history []model.StaffAssignment,
) *model.StaffAssignment {
	var best *model.StaffAssignment
	bestScore := math.Inf(-1)

	for i := range e.staff {
		s := &e.staff[i]
		if s.Role != role || !s.IsActive() {
			continue
		}
		if containsStaff(shiftAssignments, s.Name) {
			continue
		}
		if cfg.UseWorkloadLimit && staffHours[s.Name] >= s.MaxHours() {
			continue
		}

		score := scoring.Calculate(s, role, date, shift, shiftAssignments, history, cfg, e.pairs)
		if score.TotalScore > bestScore {
			bestScore = score.TotalScore
			sc := score
			best = &model.StaffAssignment{
				Date:            date,
				Shift:           shift,
				Role:            role,
				StaffName:       s.Name,
				CumulativeHours: staffHours[s.Name] + model.ShiftHours,
				ScoreDetails:    &sc,
			}
		}
	}

	return best
}

// calculateMetrics 汇总模拟指标
func (e *Engine) calculateMetrics(schedule []model.DailySchedule, staffHours map[string]int, cfg model.SimulationConfig) model.Metrics {
	totalSlots := 0
	unfilledSlots := 0
	affinitySum := 0.0
	affinityN := 0
	assignedStaff := make(map[string]model.Role)

	for i := range schedule {
		for _, shift := range model.ShiftOrder {
			ss, ok := schedule[i].Shifts[shift]
			if !ok {
				continue
			}
			shortage := 0
			for _, n := range ss.UnfilledRoles {
				shortage += n
			}
			totalSlots += len(ss.Assignments) + shortage
			unfilledSlots += shortage

			for j := range ss.Assignments {
				a := &ss.Assignments[j]
				assignedStaff[a.StaffName] = a.Role
				if a.ScoreDetails != nil {
					affinitySum += a.ScoreDetails.Breakdown.Affinity
					affinityN++
				}
			}
		}
	}

	coverage := 100
	if totalSlots > 0 {
		coverage = int(math.Round(float64(totalSlots-unfilledSlots) / float64(totalSlots) * 100))
	}

	overworked := 0
	for name, hours := range staffHours {
		if hours > e.maxHoursFor(name) {
			overworked++
		}
	}

	avgAffinity := 0.0
	if affinityN > 0 {
		avgAffinity = affinitySum / float64(affinityN)
	}

	return model.Metrics{
		Coverage:          coverage,
		OverworkedCount:   overworked,
		MonopolyRiskCount: e.monopolyRiskCount(assignedStaff, cfg),
		AvgAffinityScore:  avgAffinity,
	}
}

// monopolyRiskCount 统计协作历史过度集中于单一医师的已排班员工数
func (e *Engine) monopolyRiskCount(assignedStaff map[string]model.Role, cfg model.SimulationConfig) int {
	if !cfg.UseMonopoly {
		return 0
	}
	threshold := cfg.MonopolyThreshold
	if threshold <= 0 {
		threshold = model.DefaultMonopolyThreshold
	}

	doctors := make([]string, 0)
	for i := range e.staff {
		if e.staff[i].Role == model.RoleDoctor {
			doctors = append(doctors, e.staff[i].Name)
		}
	}

	risk := 0
	for name, role := range assignedStaff {
		if role == model.RoleDoctor {
			continue
		}
		total := e.pairs.TotalFor(name)
		if total == 0 {
			continue
		}
		for _, doc := range doctors {
			if float64(e.pairs.Count(name, doc))/float64(total) >= threshold {
				risk++
				break
			}
		}
	}
	return risk
}

// maxHoursFor 按姓名查询工时上限（查不到按默认值）
func (e *Engine) maxHoursFor(name string) int {
	for i := range e.staff {
		if e.staff[i].Name == name {
			return e.staff[i].MaxHours()
		}
	}
	return model.DefaultMaxHoursPerWeek
}

// containsStaff 检查分配列表中是否已有该员工
func containsStaff(assignments []model.StaffAssignment, name string) bool {
	for i := range assignments {
		if assignments[i].StaffName == name {
			return true
		}
	}
	return false
}
