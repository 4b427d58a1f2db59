// Package simulator 提供排班模拟引擎：贪心分配、指标汇总与情景分析
package simulator

import (
	"fmt"
	"sort"

	"github.com/clinicshift/clinicshift/pkg/errors"
	"github.com/clinicshift/clinicshift/pkg/model"
	"github.com/clinicshift/clinicshift/pkg/simulator/scoring"
)

// DefaultSubstituteCount 替补推荐的默认数量
const DefaultSubstituteCount = 5

// RecommendSubstitutes 为"某员工请假"的情景推荐替补人选（纯读，不改动 result）
//
// 评分沿用产生 result 的配置，但关闭工时上限过滤：达到上限的候选人
// 仍会列出并在 breakdown.leave 上承受重罚，由操作者自行权衡。
// 情景评分只看班内同事，不回放完整分配历史，保证即席查询足够快。
// 日期/班次/员工查不到时返回空列表，不报错
func (e *Engine) RecommendSubstitutes(
	result *model.SimulationResult,
	date string,
	shift model.ShiftType,
	leavingStaffName string,
	topN int,
) []model.StaffAssignment {
	if result == nil {
		return nil
	}
	if topN <= 0 {
		topN = DefaultSubstituteCount
	}

	// 1. 定位班次与请假者的分配，确定需要补位的职位
	day := result.FindDay(date)
	if day == nil {
		return []model.StaffAssignment{}
	}
	shiftSchedule, ok := day.Shifts[shift]
	if !ok {
		return []model.StaffAssignment{}
	}

	var role model.Role
	found := false
	for i := range shiftSchedule.Assignments {
		if shiftSchedule.Assignments[i].StaffName == leavingStaffName {
			role = shiftSchedule.Assignments[i].Role
			found = true
			break
		}
	}
	if !found {
		return []model.StaffAssignment{}
	}

	// 2. 从完整排班重建工时表，剔除请假者在被空出班次上的工时
	staffHours := rebuildHours(result, date, shift, leavingStaffName)

	// 3. 班内其余同事作为评分对象
	peers := make([]model.StaffAssignment, 0, len(shiftSchedule.Assignments))
	for i := range shiftSchedule.Assignments {
		if shiftSchedule.Assignments[i].StaffName != leavingStaffName {
			peers = append(peers, shiftSchedule.Assignments[i])
		}
	}

	scenarioCfg := result.Config.Clone()
	scenarioCfg.UseWorkloadLimit = false

	// 4. 组建候选池并逐一评分
	candidates := make([]model.StaffAssignment, 0)
	for i := range e.staff {
		s := &e.staff[i]
		if s.Role != role || !s.IsActive() || s.Name == leavingStaffName {
			continue
		}
		if containsStaff(peers, s.Name) {
			continue
		}

		score := scoring.Calculate(s, role, date, shift, peers, nil, scenarioCfg, e.pairs)

		// 5. 工时已达上限的候选人重罚但仍列出
		hours := staffHours[s.Name]
		if hours >= s.MaxHours() {
			score.Breakdown.Leave = scoring.LeavePenalty
			score.TotalScore = score.Breakdown.Total()
		}

		candidates = append(candidates, model.StaffAssignment{
			Date:            date,
			Shift:           shift,
			Role:            role,
			StaffName:       s.Name,
			CumulativeHours: hours,
			ScoreDetails:    &score,
		})
	}

	// 6. 按总分降序排序（稳定排序保证并列分数下顺序可复现）
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ScoreDetails.TotalScore > candidates[j].ScoreDetails.TotalScore
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}

// ApplySubstitution 套用一次替补：返回替换后的新结果（写时复制）
//
// 输入的 result 不被改动，调用方保留旧结果即可实现单步撤销
func (e *Engine) ApplySubstitution(
	result *model.SimulationResult,
	date string,
	shift model.ShiftType,
	leavingStaffName string,
	substitute model.StaffAssignment,
) (*model.SimulationResult, error) {
	if result == nil {
		return nil, errors.ErrInvalidInput
	}

	next := result.Clone()

	day := next.FindDay(date)
	if day == nil {
		return nil, errors.NotFound("日期", date)
	}
	shiftSchedule, ok := day.Shifts[shift]
	if !ok {
		return nil, errors.New(errors.CodeShiftNotFound, fmt.Sprintf("%s 无 %s 班次", date, shift))
	}

	replaced := false
	for i := range shiftSchedule.Assignments {
		if shiftSchedule.Assignments[i].StaffName == leavingStaffName {
			substitute.Date = date
			substitute.Shift = shift
			substitute.IsManualOverride = true
			shiftSchedule.Assignments[i] = substitute
			replaced = true
			break
		}
	}
	if !replaced {
		return nil, errors.StaffNotFound(leavingStaffName, date, string(shift))
	}

	// 重算受工时变化影响的指标，覆盖率不受替换影响
	staffHours := rebuildHours(next, "", "", "")
	overworked := 0
	for name, hours := range staffHours {
		if hours > e.maxHoursFor(name) {
			overworked++
		}
	}
	next.Metrics.OverworkedCount = overworked

	next.Logs = append(next.Logs, fmt.Sprintf("[Scenario] Replaced %s with %s on %s %s", leavingStaffName, substitute.StaffName, date, shift))
	return next, nil
}

// rebuildHours 从完整排班重建工时表；(skipDate, skipShift, skipName)
// 指定要剔除的单次分配（全部为空时不剔除）
func rebuildHours(result *model.SimulationResult, skipDate string, skipShift model.ShiftType, skipName string) map[string]int {
	hours := make(map[string]int)
	for i := range result.Schedule {
		day := &result.Schedule[i]
		for _, shift := range model.ShiftOrder {
			ss, ok := day.Shifts[shift]
			if !ok {
				continue
			}
			for j := range ss.Assignments {
				a := &ss.Assignments[j]
				if a.StaffName == skipName && day.Date == skipDate && shift == skipShift {
					continue
				}
				hours[a.StaffName] += model.ShiftHours
			}
		}
	}
	return hours
}
