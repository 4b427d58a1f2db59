package model

import (
	"testing"

	"github.com/clinicshift/clinicshift/pkg/errors"
)

func TestSimulationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SimulationConfig
		wantErr bool
	}{
		{
			name:    "有效配置",
			cfg:     DefaultSimulationConfig("2026-03-02", 7),
			wantErr: false,
		},
		{
			name:    "天数为0",
			cfg:     DefaultSimulationConfig("2026-03-02", 0),
			wantErr: true,
		},
		{
			name:    "天数为负",
			cfg:     DefaultSimulationConfig("2026-03-02", -3),
			wantErr: true,
		},
		{
			name:    "日期格式无效",
			cfg:     DefaultSimulationConfig("03/02/2026", 7),
			wantErr: true,
		},
		{
			name: "保底人数为负",
			cfg: SimulationConfig{
				StartDate:       "2026-03-02",
				Days:            7,
				BaselineEnabled: true,
				BaselineCounts:  map[Role]int{RoleNurse: -1},
			},
			wantErr: true,
		},
		{
			name: "保底人数为0合法",
			cfg: SimulationConfig{
				StartDate:       "2026-03-02",
				Days:            1,
				BaselineEnabled: true,
				BaselineCounts:  map[Role]int{RoleNurse: 0},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && errors.GetCode(err) != errors.CodeValidationFail {
				t.Errorf("期望错误码 %s, 实际 %s", errors.CodeValidationFail, errors.GetCode(err))
			}
		})
	}
}

func TestSimulationConfig_Clone(t *testing.T) {
	cfg := DefaultSimulationConfig("2026-03-02", 7)
	cfg.BaselineCounts = map[Role]int{RoleDoctor: 1}

	clone := cfg.Clone()
	clone.BaselineCounts[RoleDoctor] = 9

	if cfg.BaselineCounts[RoleDoctor] != 1 {
		t.Error("Clone 后修改副本不应影响原配置")
	}
}

func TestStaffMember_MaxHours(t *testing.T) {
	withCap := &StaffMember{Name: "林护理师", MaxHoursPerWeek: 20}
	if withCap.MaxHours() != 20 {
		t.Errorf("MaxHours() = %d, 期望 20", withCap.MaxHours())
	}

	noCap := &StaffMember{Name: "王医师"}
	if noCap.MaxHours() != DefaultMaxHoursPerWeek {
		t.Errorf("MaxHours() = %d, 期望默认 %d", noCap.MaxHours(), DefaultMaxHoursPerWeek)
	}
}
