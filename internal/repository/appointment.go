// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// AppointmentRepository 历史预约仓储
type AppointmentRepository struct {
	db DB
}

// NewAppointmentRepository 创建预约仓储
func NewAppointmentRepository(db DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create 写入一条预约记录
func (r *AppointmentRepository) Create(ctx context.Context, a *model.AppointmentRecord) error {
	query := `
		INSERT INTO appointments (id, date, time, datetime_start, time_slot, service_item, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), a.Date, a.Time, a.DatetimeStart, a.TimeSlot, a.ServiceItem, a.Status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("创建预约记录失败: %w", err)
	}

	return nil
}

// ListRange 查询日期区间内的预约（含两端, 取消的记录由需求估算器过滤）
func (r *AppointmentRepository) ListRange(ctx context.Context, startDate, endDate string) ([]model.AppointmentRecord, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if startDate != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIndex))
		args = append(args, startDate)
		argIndex++
	}
	if endDate != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIndex))
		args = append(args, endDate)
		argIndex++
	}

	where := "TRUE"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT date, time, datetime_start, time_slot, service_item, status
		FROM appointments
		WHERE %s
		ORDER BY date ASC, time ASC
	`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询预约记录失败: %w", err)
	}
	defer rows.Close()

	var records []model.AppointmentRecord
	for rows.Next() {
		var a model.AppointmentRecord
		if err := rows.Scan(&a.Date, &a.Time, &a.DatetimeStart, &a.TimeSlot, &a.ServiceItem, &a.Status); err != nil {
			return nil, fmt.Errorf("扫描预约数据失败: %w", err)
		}
		records = append(records, a)
	}

	return records, rows.Err()
}

// ListRecent 查询最近 windowDays 天的预约, 作为需求估算的历史输入
func (r *AppointmentRepository) ListRecent(ctx context.Context, windowDays int) ([]model.AppointmentRecord, error) {
	if windowDays <= 0 {
		windowDays = 90
	}
	start := time.Now().AddDate(0, 0, -windowDays).Format("2006-01-02")
	return r.ListRange(ctx, start, "")
}
