package stats

import (
	"math"
	"testing"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// buildResult 构造一份手工排班结果
func buildResult(days []model.DailySchedule) *model.SimulationResult {
	return &model.SimulationResult{Schedule: days}
}

func assignment(date string, shift model.ShiftType, role model.Role, name string) model.StaffAssignment {
	return model.StaffAssignment{Date: date, Shift: shift, Role: role, StaffName: name}
}

func TestFairnessAnalyzer_EmptyResult(t *testing.T) {
	f := NewFairnessAnalyzer()

	m := f.Analyze(nil, nil)
	if m.OverallFairnessScore != 100 {
		t.Errorf("空结果评分 = %v, 期望 100", m.OverallFairnessScore)
	}

	m = f.Analyze(buildResult(nil), nil)
	if m.OverallFairnessScore != 100 {
		t.Errorf("无排班评分 = %v, 期望 100", m.OverallFairnessScore)
	}
}

func TestFairnessAnalyzer_EvenWorkload(t *testing.T) {
	f := NewFairnessAnalyzer()
	result := buildResult([]model.DailySchedule{
		{
			Date: "2026-03-02",
			Shifts: map[model.ShiftType]*model.ShiftSchedule{
				model.ShiftAM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-02", model.ShiftAM, model.RoleNurse, "A"),
				}},
				model.ShiftPM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-02", model.ShiftPM, model.RoleNurse, "B"),
				}},
			},
		},
	})

	m := f.Analyze(result, nil)

	if m.WorkloadGini != 0 {
		t.Errorf("均匀工时的基尼系数 = %v, 期望 0", m.WorkloadGini)
	}
	if m.AvgHoursPerStaff != 4 {
		t.Errorf("人均工时 = %v, 期望 4", m.AvgHoursPerStaff)
	}
	if m.HoursRange != 0 {
		t.Errorf("工时极差 = %v, 期望 0", m.HoursRange)
	}
	if m.OverallFairnessScore != 100 {
		t.Errorf("评分 = %v, 期望 100", m.OverallFairnessScore)
	}
}

func TestFairnessAnalyzer_SkewedWorkload(t *testing.T) {
	f := NewFairnessAnalyzer()
	// A 上 3 个班, B 上 1 个班
	result := buildResult([]model.DailySchedule{
		{
			Date: "2026-03-02",
			Shifts: map[model.ShiftType]*model.ShiftSchedule{
				model.ShiftAM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-02", model.ShiftAM, model.RoleNurse, "A"),
					assignment("2026-03-02", model.ShiftAM, model.RoleDoctor, "B"),
				}},
				model.ShiftPM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-02", model.ShiftPM, model.RoleNurse, "A"),
				}},
			},
		},
		{
			Date: "2026-03-03",
			Shifts: map[model.ShiftType]*model.ShiftSchedule{
				model.ShiftAM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-03", model.ShiftAM, model.RoleNurse, "A"),
				}},
			},
		},
	})

	m := f.Analyze(result, nil)

	// 工时 12 与 4: 基尼系数 = (2*(1*4+2*12))/(2*16) - 3/2 = 0.25
	if math.Abs(m.WorkloadGini-0.25) > 1e-9 {
		t.Errorf("基尼系数 = %v, 期望 0.25", m.WorkloadGini)
	}
	if m.MaxHours != 12 || m.MinHours != 4 {
		t.Errorf("极值 = (%v, %v), 期望 (12, 4)", m.MaxHours, m.MinHours)
	}
	if m.OverallFairnessScore >= 100 {
		t.Errorf("倾斜工时的评分应低于 100, 实际 %v", m.OverallFairnessScore)
	}

	// 员工明细
	if len(m.StaffStats) != 2 {
		t.Fatalf("员工统计条数 = %d, 期望 2", len(m.StaffStats))
	}
	a := m.StaffStats[0]
	if a.StaffName != "A" || a.ShiftCount != 3 || a.TotalHours != 12 {
		t.Errorf("A 的统计 = %+v", a)
	}
	if a.DoubleShiftDays != 1 {
		t.Errorf("A 同日双班天数 = %d, 期望 1", a.DoubleShiftDays)
	}
	if a.Deviation <= 0 {
		t.Errorf("A 的偏差应为正, 实际 %v", a.Deviation)
	}
}

func TestFairnessAnalyzer_OvertimeAgainstRoster(t *testing.T) {
	f := NewFairnessAnalyzer()
	staff := []model.StaffMember{
		{Name: "A", Role: model.RoleNurse, MaxHoursPerWeek: 8},
	}
	result := buildResult([]model.DailySchedule{
		{
			Date: "2026-03-02",
			Shifts: map[model.ShiftType]*model.ShiftSchedule{
				model.ShiftAM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-02", model.ShiftAM, model.RoleNurse, "A"),
				}},
				model.ShiftPM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-02", model.ShiftPM, model.RoleNurse, "A"),
				}},
			},
		},
		{
			Date: "2026-03-03",
			Shifts: map[model.ShiftType]*model.ShiftSchedule{
				model.ShiftAM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-03", model.ShiftAM, model.RoleNurse, "A"),
				}},
			},
		},
	})

	m := f.Analyze(result, staff)

	if len(m.StaffStats) != 1 {
		t.Fatalf("员工统计条数 = %d, 期望 1", len(m.StaffStats))
	}
	// 12 小时, 上限 8: 超时 4
	if m.StaffStats[0].OvertimeHours != 4 {
		t.Errorf("超时工时 = %v, 期望 4", m.StaffStats[0].OvertimeHours)
	}
}
