package demand

import (
	"testing"

	"github.com/clinicshift/clinicshift/pkg/model"
)

func baseConfig(days int) model.SimulationConfig {
	cfg := model.DefaultSimulationConfig("2026-03-02", days)
	cfg.BaselineEnabled = false
	return cfg
}

func TestEstimator_EmptyHistory(t *testing.T) {
	e := NewEstimator()
	demands := e.Estimate(nil, nil, baseConfig(2))

	// 每天 AM/PM 两条
	if len(demands) != 4 {
		t.Fatalf("需求条数 = %d, 期望 4", len(demands))
	}

	for _, d := range demands {
		for _, role := range []model.Role{model.RoleDoctor, model.RoleNurse, model.RoleTherapist, model.RoleConsultant} {
			if d.Requirements[role] != 0 {
				t.Errorf("%s %s 无预约时 %s 需求应为 0, 实际 %v", d.Date, d.Shift, role, d.Requirements[role])
			}
		}
		// 行政每班固定保底 1 人
		if d.Requirements[model.RoleAdmin] != 1 {
			t.Errorf("%s %s 行政需求应为 1, 实际 %v", d.Date, d.Shift, d.Requirements[model.RoleAdmin])
		}
		if d.IsBaseline {
			t.Errorf("%s %s 保底未启用时 IsBaseline 应为 false", d.Date, d.Shift)
		}
	}
}

func TestEstimator_OrganicDemand(t *testing.T) {
	e := NewEstimator()
	services := []model.Service{
		{Name: "Pico Laser", Category: model.CategoryLaser, Duration: 60, BufferTime: 30},
	}
	appointments := []model.AppointmentRecord{
		{Date: "2026-03-02", Time: "10:00", ServiceItem: "Pico Laser", Status: model.StatusCompleted},
	}

	demands := e.Estimate(appointments, services, baseConfig(1))
	am := findDemand(t, demands, "2026-03-02", model.ShiftAM)

	// 90 分钟负荷: 美疗师 90/240=0.375 -> 0.3; 护理师 72/240=0.3; 医师 13.5/240 不足 0.1 保留痕量 0.1
	if am.Requirements[model.RoleTherapist] != 0.3 {
		t.Errorf("美疗师需求 = %v, 期望 0.3", am.Requirements[model.RoleTherapist])
	}
	if am.Requirements[model.RoleNurse] != 0.3 {
		t.Errorf("护理师需求 = %v, 期望 0.3", am.Requirements[model.RoleNurse])
	}
	if am.Requirements[model.RoleDoctor] != 0.1 {
		t.Errorf("医师痕量需求 = %v, 期望 0.1", am.Requirements[model.RoleDoctor])
	}
	if am.Requirements[model.RoleConsultant] != 0 {
		t.Errorf("雷射不涉及咨询师, 实际 %v", am.Requirements[model.RoleConsultant])
	}

	// 预约在上午, 下午应保持 0
	pm := findDemand(t, demands, "2026-03-02", model.ShiftPM)
	if pm.Requirements[model.RoleTherapist] != 0 {
		t.Errorf("下午美疗师需求应为 0, 实际 %v", pm.Requirements[model.RoleTherapist])
	}
}

func TestEstimator_UnknownServiceDefaults(t *testing.T) {
	e := NewEstimator()
	appointments := []model.AppointmentRecord{
		// 目录中无此疗程: 默认 60 分钟, 关键字推断为 laser
		{Date: "2026-03-02", Time: "09:00", ServiceItem: "神秘 Laser 项目", Status: model.StatusCompleted},
	}

	demands := e.Estimate(appointments, nil, baseConfig(1))
	am := findDemand(t, demands, "2026-03-02", model.ShiftAM)

	// laser: 美疗师 60/240 = 0.25 -> 0.2
	if am.Requirements[model.RoleTherapist] != 0.2 {
		t.Errorf("美疗师需求 = %v, 期望 0.2", am.Requirements[model.RoleTherapist])
	}
}

func TestEstimator_ZeroDurationServiceKeepsDefault(t *testing.T) {
	e := NewEstimator()
	// 目录中有此疗程但时长数据缺失: 按默认 60 分钟计, 需求不得清零
	services := []model.Service{
		{Name: "点滴", Category: model.CategoryDrip, Duration: 0, BufferTime: 0},
	}
	appointments := []model.AppointmentRecord{
		{Date: "2026-03-02", Time: "09:00", ServiceItem: "点滴", Status: model.StatusCompleted},
	}

	demands := e.Estimate(appointments, services, baseConfig(1))
	am := findDemand(t, demands, "2026-03-02", model.ShiftAM)

	// drip: 护理师 60/240 = 0.25 -> 0.2; 医师 6/240 不足 0.1 保留痕量
	if am.Requirements[model.RoleNurse] != 0.2 {
		t.Errorf("护理师需求 = %v, 期望 0.2", am.Requirements[model.RoleNurse])
	}
	if am.Requirements[model.RoleDoctor] != 0.1 {
		t.Errorf("医师痕量需求 = %v, 期望 0.1", am.Requirements[model.RoleDoctor])
	}
}

func TestEstimator_SkipsCancelledAndOutOfWindow(t *testing.T) {
	e := NewEstimator()
	services := []model.Service{
		{Name: "点滴", Category: model.CategoryDrip, Duration: 240, BufferTime: 0},
	}
	appointments := []model.AppointmentRecord{
		{Date: "2026-03-02", Time: "09:00", ServiceItem: "点滴", Status: model.StatusCancelled},
		{Date: "2026-04-01", Time: "09:00", ServiceItem: "点滴", Status: model.StatusCompleted}, // 窗口外
	}

	demands := e.Estimate(appointments, services, baseConfig(1))
	am := findDemand(t, demands, "2026-03-02", model.ShiftAM)

	if am.Requirements[model.RoleNurse] != 0 {
		t.Errorf("已取消/窗口外的预约不应产生需求, 实际 %v", am.Requirements[model.RoleNurse])
	}
}

func TestEstimator_TimeSlotInference(t *testing.T) {
	e := NewEstimator()
	services := []model.Service{
		{Name: "点滴", Category: model.CategoryDrip, Duration: 240, BufferTime: 0},
	}

	tests := []struct {
		name     string
		appt     model.AppointmentRecord
		expected model.ShiftType
	}{
		{
			name:     "预处理班次字段优先",
			appt:     model.AppointmentRecord{Date: "2026-03-02", TimeSlot: "PM", Time: "09:00", ServiceItem: "点滴"},
			expected: model.ShiftPM,
		},
		{
			name:     "ISO起始时间",
			appt:     model.AppointmentRecord{Date: "2026-03-02", DatetimeStart: "2026-03-02T14:30:00", ServiceItem: "点滴"},
			expected: model.ShiftPM,
		},
		{
			name:     "空格分隔的起始时间",
			appt:     model.AppointmentRecord{Date: "2026-03-02", DatetimeStart: "2026-03-02 08:30:00", ServiceItem: "点滴"},
			expected: model.ShiftAM,
		},
		{
			name:     "纯时间字段",
			appt:     model.AppointmentRecord{Date: "2026-03-02", Time: "13:15", ServiceItem: "点滴"},
			expected: model.ShiftPM,
		},
		{
			name:     "无任何时间信息默认AM",
			appt:     model.AppointmentRecord{Date: "2026-03-02", ServiceItem: "点滴"},
			expected: model.ShiftAM,
		},
		{
			name:     "时间无法解析默认AM",
			appt:     model.AppointmentRecord{Date: "2026-03-02", Time: "??", ServiceItem: "点滴"},
			expected: model.ShiftAM,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			demands := e.Estimate([]model.AppointmentRecord{tt.appt}, services, baseConfig(1))
			d := findDemand(t, demands, "2026-03-02", tt.expected)
			// 点滴 240 分钟 -> 护理师 1.0
			if d.Requirements[model.RoleNurse] != 1.0 {
				t.Errorf("预约应落在 %s 班, 护理师需求 = %v", tt.expected, d.Requirements[model.RoleNurse])
			}
		})
	}
}

func TestEstimator_BaselineFloor(t *testing.T) {
	e := NewEstimator()
	cfg := baseConfig(1)
	cfg.BaselineEnabled = true
	cfg.BaselineCounts = map[model.Role]int{model.RoleDoctor: 2, model.RoleNurse: 1}

	demands := e.Estimate(nil, nil, cfg)
	am := findDemand(t, demands, "2026-03-02", model.ShiftAM)

	if am.Requirements[model.RoleDoctor] != 2 {
		t.Errorf("医师保底需求 = %v, 期望 2", am.Requirements[model.RoleDoctor])
	}
	if am.Requirements[model.RoleNurse] != 1 {
		t.Errorf("护理师保底需求 = %v, 期望 1", am.Requirements[model.RoleNurse])
	}
	// 全部有机需求为 0 时才标记保底班次
	if !am.IsBaseline {
		t.Error("无有机需求且保底启用时 IsBaseline 应为 true")
	}
}

func TestEstimator_BaselineNeverLowersOrganic(t *testing.T) {
	e := NewEstimator()
	services := []model.Service{
		{Name: "点滴", Category: model.CategoryDrip, Duration: 480, BufferTime: 0},
	}
	appointments := []model.AppointmentRecord{
		{Date: "2026-03-02", Time: "09:00", ServiceItem: "点滴", Status: model.StatusCompleted},
	}
	cfg := baseConfig(1)
	cfg.BaselineEnabled = true
	cfg.BaselineCounts = map[model.Role]int{model.RoleNurse: 1}

	demands := e.Estimate(appointments, services, cfg)
	am := findDemand(t, demands, "2026-03-02", model.ShiftAM)

	// 有机需求 480/240 = 2.0, 保底 1 不应压低
	if am.Requirements[model.RoleNurse] != 2.0 {
		t.Errorf("护理师需求 = %v, 期望保留有机值 2.0", am.Requirements[model.RoleNurse])
	}
	if am.IsBaseline {
		t.Error("存在有机需求的班次不应标记为保底")
	}
}

func findDemand(t *testing.T, demands []model.ShiftDemand, date string, shift model.ShiftType) *model.ShiftDemand {
	t.Helper()
	for i := range demands {
		if demands[i].Date == date && demands[i].Shift == shift {
			return &demands[i]
		}
	}
	t.Fatalf("找不到需求条目 %s %s", date, shift)
	return nil
}
