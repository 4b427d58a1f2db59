package model

import "testing"

func TestScoreBreakdown_Total(t *testing.T) {
	b := ScoreBreakdown{Base: 100, Affinity: 12, Monopoly: -15, Fatigue: -10, Leave: 0}
	if b.Total() != 87 {
		t.Errorf("Total() = %v, 期望 87", b.Total())
	}
}

func TestSimulationResult_Clone(t *testing.T) {
	score := &CandidateScore{StaffName: "A", TotalScore: 100, Breakdown: ScoreBreakdown{Base: 100}}
	original := &SimulationResult{
		Schedule: []DailySchedule{
			{
				Date: "2026-03-02",
				Shifts: map[ShiftType]*ShiftSchedule{
					ShiftAM: {
						Assignments:   []StaffAssignment{{Date: "2026-03-02", Shift: ShiftAM, Role: RoleDoctor, StaffName: "A", ScoreDetails: score}},
						UnfilledRoles: map[Role]int{RoleNurse: 1},
					},
				},
			},
		},
		Metrics: Metrics{Coverage: 50},
		Logs:    []string{"line1"},
		Config:  SimulationConfig{BaselineCounts: map[Role]int{RoleAdmin: 1}},
	}

	clone := original.Clone()

	// 修改副本的各层，原结果不应受影响
	clone.Schedule[0].Shifts[ShiftAM].Assignments[0].StaffName = "B"
	clone.Schedule[0].Shifts[ShiftAM].Assignments[0].ScoreDetails.TotalScore = 1
	clone.Schedule[0].Shifts[ShiftAM].UnfilledRoles[RoleNurse] = 9
	clone.Logs = append(clone.Logs, "line2")
	clone.Config.BaselineCounts[RoleAdmin] = 9

	am := original.Schedule[0].Shifts[ShiftAM]
	if am.Assignments[0].StaffName != "A" {
		t.Error("副本的分配修改泄漏到了原结果")
	}
	if am.Assignments[0].ScoreDetails.TotalScore != 100 {
		t.Error("副本的评分修改泄漏到了原结果")
	}
	if am.UnfilledRoles[RoleNurse] != 1 {
		t.Error("副本的缺口修改泄漏到了原结果")
	}
	if len(original.Logs) != 1 {
		t.Error("副本的日志追加泄漏到了原结果")
	}
	if original.Config.BaselineCounts[RoleAdmin] != 1 {
		t.Error("副本的配置修改泄漏到了原结果")
	}
}

func TestSimulationResult_FindDay(t *testing.T) {
	r := &SimulationResult{Schedule: []DailySchedule{{Date: "2026-03-02"}, {Date: "2026-03-03"}}}

	if day := r.FindDay("2026-03-03"); day == nil || day.Date != "2026-03-03" {
		t.Error("应找到 2026-03-03")
	}
	if r.FindDay("2026-03-09") != nil {
		t.Error("不存在的日期应返回 nil")
	}
}

func TestGuessCategory(t *testing.T) {
	tests := []struct {
		item     string
		expected ServiceCategory
	}{
		{"Pico Laser", CategoryLaser},
		{"全脸皮秒", CategoryLaser},
		{"Botox 注射", CategoryInject},
		{"玻尿酸填充", CategoryInject},
		{"Thermage FLX", CategoryRF},
		{"電波拉提", CategoryRF},
		{"新客 Consult", CategoryConsult},
		{"術前諮詢", CategoryConsult},
		{"美白导入", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			if got := GuessCategory(tt.item); got != tt.expected {
				t.Errorf("GuessCategory(%s) = %s, 期望 %s", tt.item, got, tt.expected)
			}
		})
	}
}
