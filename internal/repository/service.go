// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicshift/clinicshift/pkg/model"
)

// ServiceRepository 疗程目录仓储
type ServiceRepository struct {
	db DB
}

// NewServiceRepository 创建疗程仓储
func NewServiceRepository(db DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create 创建疗程
func (r *ServiceRepository) Create(ctx context.Context, s *model.Service) error {
	query := `
		INSERT INTO services (id, name, category, duration, buffer_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), s.Name, s.Category, s.Duration, s.BufferTime, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("创建疗程失败: %w", err)
	}

	return nil
}

// GetByName 根据名称获取疗程
func (r *ServiceRepository) GetByName(ctx context.Context, name string) (*model.Service, error) {
	query := `
		SELECT name, category, duration, buffer_time
		FROM services
		WHERE name = $1 AND deleted_at IS NULL
	`

	s := &model.Service{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&s.Name, &s.Category, &s.Duration, &s.BufferTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描疗程数据失败: %w", err)
	}
	return s, nil
}

// ListAll 获取完整疗程目录
func (r *ServiceRepository) ListAll(ctx context.Context) ([]model.Service, error) {
	query := `
		SELECT name, category, duration, buffer_time
		FROM services
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询疗程目录失败: %w", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.Name, &s.Category, &s.Duration, &s.BufferTime); err != nil {
			return nil, fmt.Errorf("扫描疗程数据失败: %w", err)
		}
		services = append(services, s)
	}

	return services, rows.Err()
}
