// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// PairHistoryRepository 协作历史仓储
//
// 协作次数由过往实际排班（work_history 表, 每行一条"某人某日某班"记录）
// 聚合而来: 同一（日期, 班次）内的每对员工计一次
type PairHistoryRepository struct {
	db DB
}

// NewPairHistoryRepository 创建协作历史仓储
func NewPairHistoryRepository(db DB) *PairHistoryRepository {
	return &PairHistoryRepository{db: db}
}

// Load 载入指定日期（含）之后的协作历史; startDate 为空时载入全部
func (r *PairHistoryRepository) Load(ctx context.Context, startDate string) (*model.PairHistory, error) {
	// 自连接按（日期, 班次）配对; a.staff_name < b.staff_name 去重且排除自配对
	where := "TRUE"
	var args []interface{}
	if startDate != "" {
		where = "a.date >= $1"
		args = append(args, startDate)
	}

	query := fmt.Sprintf(`
		SELECT a.staff_name, b.staff_name, COUNT(*)
		FROM work_history a
		JOIN work_history b
			ON a.date = b.date AND a.shift = b.shift AND a.staff_name < b.staff_name
		WHERE %s
		GROUP BY a.staff_name, b.staff_name
	`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询协作历史失败: %w", err)
	}
	defer rows.Close()

	pairs := model.NewPairHistory()
	for rows.Next() {
		var nameA, nameB string
		var count int
		if err := rows.Scan(&nameA, &nameB, &count); err != nil {
			return nil, fmt.Errorf("扫描协作历史失败: %w", err)
		}
		pairs.Add(nameA, nameB, count)
	}

	return pairs, rows.Err()
}

// LoadRecent 载入最近 windowDays 天的协作历史, 作为亲和度评分的输入
func (r *PairHistoryRepository) LoadRecent(ctx context.Context, windowDays int) (*model.PairHistory, error) {
	if windowDays <= 0 {
		windowDays = 90
	}
	start := time.Now().AddDate(0, 0, -windowDays).Format("2006-01-02")
	return r.Load(ctx, start)
}
