// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// StaffRepository 员工花名册仓储
type StaffRepository struct {
	db DB
}

// NewStaffRepository 创建员工仓储
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create 创建员工
func (r *StaffRepository) Create(ctx context.Context, s *model.StaffMember) error {
	now := time.Now()
	query := `
		INSERT INTO staff (id, name, role, skill_level, status, max_hours_per_week, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), s.Name, s.Role, s.SkillLevel, s.Status, s.MaxHoursPerWeek, now, now,
	)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}

	return nil
}

// GetByName 根据姓名获取员工（花名册内姓名唯一）
func (r *StaffRepository) GetByName(ctx context.Context, name string) (*model.StaffMember, error) {
	query := `
		SELECT name, role, skill_level, status, max_hours_per_week
		FROM staff
		WHERE name = $1 AND deleted_at IS NULL
	`

	return r.scanStaff(r.db.QueryRowContext(ctx, query, name))
}

// Update 更新员工
func (r *StaffRepository) Update(ctx context.Context, s *model.StaffMember) error {
	query := `
		UPDATE staff SET
			role = $2, skill_level = $3, status = $4, max_hours_per_week = $5, updated_at = $6
		WHERE name = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		s.Name, s.Role, s.SkillLevel, s.Status, s.MaxHoursPerWeek, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("更新员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// Delete 软删除员工
func (r *StaffRepository) Delete(ctx context.Context, name string) error {
	query := `UPDATE staff SET deleted_at = $2 WHERE name = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, name, time.Now())
	if err != nil {
		return fmt.Errorf("删除员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// List 查询员工列表（保留插入顺序, 引擎的并列打破依赖该顺序）
func (r *StaffRepository) List(ctx context.Context, filter ListFilter) ([]model.StaffMember, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	conditions = append(conditions, "deleted_at IS NULL")

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT name, role, skill_level, status, max_hours_per_week
		FROM staff
		WHERE %s
		ORDER BY created_at ASC
	`, strings.Join(conditions, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询员工列表失败: %w", err)
	}
	defer rows.Close()

	var staff []model.StaffMember
	for rows.Next() {
		var s model.StaffMember
		if err := rows.Scan(&s.Name, &s.Role, &s.SkillLevel, &s.Status, &s.MaxHoursPerWeek); err != nil {
			return nil, fmt.Errorf("扫描员工数据失败: %w", err)
		}
		staff = append(staff, s)
	}

	return staff, rows.Err()
}

// ListAll 获取完整花名册（模拟引擎自行过滤在职状态）
func (r *StaffRepository) ListAll(ctx context.Context) ([]model.StaffMember, error) {
	return r.List(ctx, ListFilter{})
}

// scanStaff 扫描单行员工数据
func (r *StaffRepository) scanStaff(row *sql.Row) (*model.StaffMember, error) {
	s := &model.StaffMember{}
	err := row.Scan(&s.Name, &s.Role, &s.SkillLevel, &s.Status, &s.MaxHoursPerWeek)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}
	return s, nil
}
