package stats

import (
	"testing"

	"github.com/clinicshift/clinicshift/pkg/model"
)

func TestCoverageAnalyzer_EmptyResult(t *testing.T) {
	c := NewCoverageAnalyzer()

	m := c.Analyze(nil)
	if m.OverallCoverage != 100 {
		t.Errorf("空结果覆盖率 = %v, 期望 100", m.OverallCoverage)
	}
	if m.TotalSlots != 0 {
		t.Errorf("空结果槽位数 = %d, 期望 0", m.TotalSlots)
	}
}

func TestCoverageAnalyzer_FullCoverage(t *testing.T) {
	c := NewCoverageAnalyzer()
	result := buildResult([]model.DailySchedule{
		{
			Date: "2026-03-02",
			Shifts: map[model.ShiftType]*model.ShiftSchedule{
				model.ShiftAM: {Assignments: []model.StaffAssignment{
					assignment("2026-03-02", model.ShiftAM, model.RoleDoctor, "王医师"),
					assignment("2026-03-02", model.ShiftAM, model.RoleNurse, "林护理师"),
				}},
			},
		},
	})

	m := c.Analyze(result)

	if m.OverallCoverage != 100 {
		t.Errorf("覆盖率 = %v, 期望 100", m.OverallCoverage)
	}
	if m.TotalSlots != 2 || m.FilledSlots != 2 || m.UnfilledSlots != 0 {
		t.Errorf("槽位统计 = (%d, %d, %d)", m.TotalSlots, m.FilledSlots, m.UnfilledSlots)
	}
	if len(m.Gaps) != 0 {
		t.Errorf("不应有缺口, 实际 %v", m.Gaps)
	}
}

func TestCoverageAnalyzer_BreaksDownByRoleAndShift(t *testing.T) {
	c := NewCoverageAnalyzer()
	result := buildResult([]model.DailySchedule{
		{
			Date: "2026-03-02",
			Shifts: map[model.ShiftType]*model.ShiftSchedule{
				model.ShiftAM: {
					Assignments: []model.StaffAssignment{
						assignment("2026-03-02", model.ShiftAM, model.RoleDoctor, "王医师"),
					},
					UnfilledRoles: map[model.Role]int{model.RoleNurse: 1},
				},
				model.ShiftPM: {
					UnfilledRoles: map[model.Role]int{model.RoleNurse: 2},
				},
			},
		},
	})

	m := c.Analyze(result)

	// 1 已填 + 3 缺口
	if m.TotalSlots != 4 || m.UnfilledSlots != 3 {
		t.Errorf("槽位统计 = (%d, %d)", m.TotalSlots, m.UnfilledSlots)
	}
	if m.OverallCoverage != 25 {
		t.Errorf("覆盖率 = %v, 期望 25", m.OverallCoverage)
	}

	doctor := m.ByRole[string(model.RoleDoctor)]
	if doctor == nil || doctor.Rate != 100 {
		t.Errorf("医师覆盖率 = %+v, 期望 100", doctor)
	}
	nurse := m.ByRole[string(model.RoleNurse)]
	if nurse == nil || nurse.Total != 3 || nurse.Filled != 0 || nurse.Rate != 0 {
		t.Errorf("护理师覆盖率 = %+v", nurse)
	}

	am := m.ByShift[string(model.ShiftAM)]
	if am == nil || am.Total != 2 || am.Filled != 1 || am.Rate != 50 {
		t.Errorf("AM 覆盖率 = %+v", am)
	}

	// 缺口明细按日期与班次顺序排列
	if len(m.Gaps) != 2 {
		t.Fatalf("缺口条数 = %d, 期望 2", len(m.Gaps))
	}
	if m.Gaps[0].Shift != string(model.ShiftAM) || m.Gaps[0].Shortage != 1 {
		t.Errorf("首个缺口 = %+v", m.Gaps[0])
	}
	if m.Gaps[1].Shift != string(model.ShiftPM) || m.Gaps[1].Shortage != 2 {
		t.Errorf("次个缺口 = %+v", m.Gaps[1])
	}
}
