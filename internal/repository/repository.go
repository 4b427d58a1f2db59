// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
)

// ListFilter 列表查询过滤器
type ListFilter struct {
	Status string `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
}

// DB 数据库接口
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Scanner 行扫描接口
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Store 聚合全部仓储, 供服务层一次性注入
type Store struct {
	Staff        *StaffRepository
	Appointments *AppointmentRepository
	Services     *ServiceRepository
	PairHistory  *PairHistoryRepository
}

// NewStore 创建仓储聚合
func NewStore(db DB) *Store {
	return &Store{
		Staff:        NewStaffRepository(db),
		Appointments: NewAppointmentRepository(db),
		Services:     NewServiceRepository(db),
		PairHistory:  NewPairHistoryRepository(db),
	}
}
