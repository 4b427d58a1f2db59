// Package scoring 提供候选人多因子评分规则
package scoring

import (
	"time"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// 评分常量。惩罚曲线属于产品可调参数，当前取值见 DESIGN.md
const (
	BaseScoreSenior = 100
	BaseScoreMid    = 80
	BaseScoreJunior = 60

	// AffinityPairCap 单对同事的亲和度贡献上限
	AffinityPairCap = 20

	// MonopolyPenalty 与班内医师的历史配对占比达到阈值时的惩罚（每位医师）
	MonopolyPenalty = -15

	// DoubleShiftPenalty 同日连上两班的惩罚
	DoubleShiftPenalty = -10

	// ConsecutivePenalty 连续上班达到上限时的惩罚
	ConsecutivePenalty = -20

	// LeavePenalty 情景替补时累计工时已达上限的惩罚（仍列出供权衡）
	LeavePenalty = -50
)

// Calculate 计算候选人在指定（职位，日期，班次）上的评分
//
// 纯函数，无副作用：
//   - peers 为本班次已就位的分配（亲和度、垄断检查依赖）
//   - past 为本轮模拟至今的全部历史分配（疲劳检查依赖）
func Calculate(
	staff *model.StaffMember,
	role model.Role,
	date string,
	shift model.ShiftType,
	peers []model.StaffAssignment,
	past []model.StaffAssignment,
	cfg model.SimulationConfig,
	pairs *model.PairHistory,
) model.CandidateScore {
	var b model.ScoreBreakdown

	// 1. 基础分（技能等级，未标注按 junior 计）
	switch staff.SkillLevel {
	case model.SkillSenior:
		b.Base = BaseScoreSenior
	case model.SkillMid:
		b.Base = BaseScoreMid
	default:
		b.Base = BaseScoreJunior
	}

	// 2. 亲和度（历史协作）
	if cfg.UseAffinity {
		weight := cfg.AffinityWeight
		if weight <= 0 {
			weight = model.DefaultAffinityWeight
		}
		total := 0.0
		for i := range peers {
			count := pairs.Count(staff.Name, peers[i].StaffName)
			if count > AffinityPairCap {
				count = AffinityPairCap
			}
			total += float64(count)
		}
		b.Affinity = total * weight
	}

	// 3. 垄断惩罚：某员工的历史协作过度集中于班内某位医师时降权
	if cfg.UseMonopoly {
		b.Monopoly = monopolyPenalty(staff, peers, cfg, pairs)
	}

	// 4. 疲劳惩罚（同日双班、连续上班）
	b.Fatigue = fatiguePenalty(staff.Name, date, past, cfg.MaxConsecutiveShifts)

	// 5. Leave 仅由情景替补路径填充，主循环恒为 0

	return model.CandidateScore{
		StaffName:  staff.Name,
		TotalScore: b.Total(),
		Breakdown:  b,
	}
}

// monopolyPenalty 计算反垄断惩罚：对每位班内医师，若该员工与其的历史
// 配对次数占该员工全部协作次数的比例达到阈值，扣一档惩罚
func monopolyPenalty(staff *model.StaffMember, peers []model.StaffAssignment, cfg model.SimulationConfig, pairs *model.PairHistory) float64 {
	threshold := cfg.MonopolyThreshold
	if threshold <= 0 {
		threshold = model.DefaultMonopolyThreshold
	}

	total := pairs.TotalFor(staff.Name)
	if total == 0 {
		return 0
	}

	penalty := 0.0
	for i := range peers {
		if peers[i].Role != model.RoleDoctor {
			continue
		}
		share := float64(pairs.Count(staff.Name, peers[i].StaffName)) / float64(total)
		if share >= threshold {
			penalty += MonopolyPenalty
		}
	}
	return penalty
}

// fatiguePenalty 计算疲劳惩罚
func fatiguePenalty(name, date string, past []model.StaffAssignment, maxConsecutive int) float64 {
	if maxConsecutive <= 0 {
		maxConsecutive = model.DefaultMaxConsecutiveShifts
	}

	penalty := 0.0

	// 同日双班
	for i := range past {
		if past[i].StaffName == name && past[i].Date == date {
			penalty += DoubleShiftPenalty
			break
		}
	}

	// 连续上班：统计紧邻本日之前的连续工作天数，加上本班达到上限即惩罚
	workDays := make(map[string]bool)
	for i := range past {
		if past[i].StaffName == name {
			workDays[past[i].Date] = true
		}
	}
	streak := 0
	day, err := time.Parse("2006-01-02", date)
	if err == nil {
		for {
			prev := day.AddDate(0, 0, -(streak + 1)).Format("2006-01-02")
			if !workDays[prev] {
				break
			}
			streak++
			if streak > 30 {
				break
			}
		}
	}
	if streak+1 >= maxConsecutive {
		penalty += ConsecutivePenalty
	}

	return penalty
}
