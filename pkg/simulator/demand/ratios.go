// Package demand 提供基于历史预约的人力需求估算
package demand

import "github.com/clinicshift/clinicshift/pkg/model"

// InvolvementRatios 疗程工时占比定义表
//
// 数值意义：
//   - 1.0 = 该职位需全程参与（60分钟疗程 = 60分钟工时）
//   - 0.35 = 该职位需间歇性参与（60分钟疗程 = 21分钟工时）
//
// 行政人力不走占比累加，由每班固定保底 1 人覆盖
var InvolvementRatios = map[model.ServiceCategory]map[model.Role]float64{
	// 微整注射: 医师操作35%时间, 护理师协助
	model.CategoryInject: {model.RoleDoctor: 0.35, model.RoleTherapist: 0.2, model.RoleNurse: 0.6, model.RoleConsultant: 0.1},

	// 电音波: 医师操作35%时间, 美疗师协助
	model.CategoryRF: {model.RoleDoctor: 0.35, model.RoleTherapist: 0.8, model.RoleNurse: 0.4, model.RoleConsultant: 0.1},

	// 雷射: 美疗师全程跟诊, 医师操作15%, 护理师协助
	model.CategoryLaser: {model.RoleDoctor: 0.15, model.RoleTherapist: 1.0, model.RoleNurse: 0.8},

	// 点滴: 护理师全程, 医师仅开单
	model.CategoryDrip: {model.RoleDoctor: 0.10, model.RoleTherapist: 0.1, model.RoleNurse: 1.0},

	// 咨询: 咨询师主导, 医师辅助
	model.CategoryConsult: {model.RoleDoctor: 0.30, model.RoleNurse: 0.1, model.RoleConsultant: 0.70},

	// 其他预设
	model.CategoryOther: {model.RoleTherapist: 1.0, model.RoleNurse: 0.8},
}

// RatiosFor 返回类别对应的职位占比（未知类别按 other 处理）
func RatiosFor(category model.ServiceCategory) map[model.Role]float64 {
	if ratios, ok := InvolvementRatios[category]; ok {
		return ratios
	}
	return InvolvementRatios[model.CategoryOther]
}
