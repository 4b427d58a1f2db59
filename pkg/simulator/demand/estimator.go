// Package demand 提供基于历史预约的人力需求估算
package demand

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/clinicshift/clinicshift/pkg/model"
)

const (
	// ShiftLengthMinutes 标准班次时长（分钟）
	ShiftLengthMinutes = 240

	// DefaultServiceMinutes 目录查不到疗程时的默认占用时长（分钟）
	DefaultServiceMinutes = 60

	// minTraceDemand 有负荷但极小时的最低可见需求
	minTraceDemand = 0.1
)

// clinicalRoles 参与占比累加与归一化的职位（行政走固定保底）
var clinicalRoles = []model.Role{model.RoleDoctor, model.RoleNurse, model.RoleTherapist, model.RoleConsultant}

// Estimator 人力需求估算器
type Estimator struct{}

// NewEstimator 创建需求估算器
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Estimate 从历史预约估算每个（日期，班次）的人力需求
//
// 每个日期产生 AM/PM 两条需求；晚班无对应历史时段，恒不产生。
// 估算窗口之外的预约被静默丢弃，已取消的预约不计入。
func (e *Estimator) Estimate(
	appointments []model.AppointmentRecord,
	services []model.Service,
	cfg model.SimulationConfig,
) []model.ShiftDemand {
	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return nil
	}

	// 1. 初始化窗口内的需求表，行政每班固定保底 1 人
	demands := make([]model.ShiftDemand, 0, cfg.Days*2)
	index := make(map[string]*model.ShiftDemand)
	for i := 0; i < cfg.Days; i++ {
		dateStr := start.AddDate(0, 0, i).Format("2006-01-02")
		for _, shift := range []model.ShiftType{model.ShiftAM, model.ShiftPM} {
			demands = append(demands, model.ShiftDemand{
				Date:  dateStr,
				Shift: shift,
				Requirements: map[model.Role]float64{
					model.RoleDoctor:     0,
					model.RoleNurse:      0,
					model.RoleTherapist:  0,
					model.RoleConsultant: 0,
					model.RoleAdmin:      1,
				},
			})
			index[dateStr+"_"+string(shift)] = &demands[len(demands)-1]
		}
	}

	catalog := make(map[string]*model.Service, len(services))
	for i := range services {
		catalog[services[i].Name] = &services[i]
	}

	// 2. 按时长累加预约负荷（此阶段 Requirements 暂存的是分钟数）
	for i := range appointments {
		appt := &appointments[i]
		if appt.IsCancelled() {
			continue
		}

		slot := inferTimeSlot(appt)
		d, ok := index[appt.Date+"_"+string(slot)]
		if !ok {
			continue
		}

		minutes := DefaultServiceMinutes
		category := model.CategoryOther
		if svc, found := catalog[appt.ServiceItem]; found {
			// 时长数据缺失的疗程仍按默认时长计, 不得清零需求
			if m := svc.OccupiedMinutes(); m > 0 {
				minutes = m
			}
			category = svc.Category
		} else {
			category = model.GuessCategory(appt.ServiceItem)
		}

		for role, ratio := range RatiosFor(category) {
			if ratio <= 0 || role == model.RoleAdmin {
				continue
			}
			d.Requirements[role] += float64(minutes) * ratio
		}
	}

	// 3. 归一化（分钟 -> 人数）并套用保底
	for i := range demands {
		d := &demands[i]
		hasOrganic := false

		for _, role := range clinicalRoles {
			totalMinutes := d.Requirements[role]
			count := math.Floor(totalMinutes/ShiftLengthMinutes*10) / 10
			if totalMinutes > 0 && count < minTraceDemand {
				count = minTraceDemand
			}
			d.Requirements[role] = count
			if count > 0 {
				hasOrganic = true
			}
		}

		d.IsBaseline = !hasOrganic && cfg.BaselineEnabled

		// 保底只抬高，不压低
		if cfg.BaselineEnabled {
			for role, floor := range cfg.BaselineCounts {
				if float64(floor) > d.Requirements[role] {
					d.Requirements[role] = float64(floor)
				}
			}
		}
	}

	return demands
}

// inferTimeSlot 推断预约所属班次
// 优先顺序：预处理班次字段 > ISO 起始时间 > 纯时间字段 > 默认 AM
func inferTimeSlot(appt *model.AppointmentRecord) model.ShiftType {
	if appt.TimeSlot == string(model.ShiftAM) || appt.TimeSlot == string(model.ShiftPM) {
		return model.ShiftType(appt.TimeSlot)
	}

	if appt.DatetimeStart != "" {
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04", time.RFC3339} {
			if dt, err := time.Parse(layout, appt.DatetimeStart); err == nil {
				if dt.Hour() < 12 {
					return model.ShiftAM
				}
				return model.ShiftPM
			}
		}
	}

	if appt.Time != "" {
		hourStr, _, _ := strings.Cut(appt.Time, ":")
		if hour, err := strconv.Atoi(strings.TrimSpace(hourStr)); err == nil {
			if hour < 12 {
				return model.ShiftAM
			}
			return model.ShiftPM
		}
	}

	return model.ShiftAM
}
