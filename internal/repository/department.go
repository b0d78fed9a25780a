package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Berner89/hospital-staff-scheduler/internal/department"
)

// DepartmentRepositoryInterface 科室仓储接口
type DepartmentRepositoryInterface interface {
	Create(ctx context.Context, dept *department.Department) error
	GetByCode(ctx context.Context, code string) (*department.Department, error)
	Update(ctx context.Context, dept *department.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]*department.Department, error)
}

// DepartmentRepository 科室仓储
type DepartmentRepository struct {
	db DB
}

// NewDepartmentRepository 创建科室仓储
func NewDepartmentRepository(db DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create 保存科室
func (r *DepartmentRepository) Create(ctx context.Context, dept *department.Department) error {
	if dept.ID == uuid.Nil {
		dept.ID = uuid.New()
	}
	if dept.CreatedAt.IsZero() {
		dept.CreatedAt = time.Now()
	}

	settingsJSON, err := json.Marshal(dept.Settings)
	if err != nil {
		return fmt.Errorf("序列化科室配置失败: %w", err)
	}

	query := `
		INSERT INTO departments (id, code, name, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		dept.ID, dept.Code, dept.Name, dept.Status, settingsJSON, dept.CreatedAt,
	); err != nil {
		return fmt.Errorf("保存科室失败: %w", err)
	}
	return nil
}

// GetByCode 按编码获取科室
func (r *DepartmentRepository) GetByCode(ctx context.Context, code string) (*department.Department, error) {
	query := `
		SELECT id, code, name, status, settings, created_at
		FROM departments
		WHERE code = $1 AND deleted_at IS NULL
	`
	dept, err := scanDepartment(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return dept, err
}

// Update 更新科室
func (r *DepartmentRepository) Update(ctx context.Context, dept *department.Department) error {
	settingsJSON, err := json.Marshal(dept.Settings)
	if err != nil {
		return fmt.Errorf("序列化科室配置失败: %w", err)
	}

	query := `
		UPDATE departments
		SET name = $2, status = $3, settings = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, dept.ID, dept.Name, dept.Status, settingsJSON, time.Now())
	if err != nil {
		return fmt.Errorf("更新科室失败: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete 软删除科室
func (r *DepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE departments SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("删除科室失败: %w", err)
	}
	return nil
}

// ListActive 列出可用科室
func (r *DepartmentRepository) ListActive(ctx context.Context) ([]*department.Department, error) {
	query := `
		SELECT id, code, name, status, settings, created_at
		FROM departments
		WHERE status = 'active' AND deleted_at IS NULL
		ORDER BY code
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询科室失败: %w", err)
	}
	defer rows.Close()

	var depts []*department.Department
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		depts = append(depts, dept)
	}
	return depts, nil
}

func scanDepartment(s Scanner) (*department.Department, error) {
	dept := &department.Department{}
	var settingsJSON []byte

	err := s.Scan(&dept.ID, &dept.Code, &dept.Name, &dept.Status, &settingsJSON, &dept.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("扫描科室失败: %w", err)
	}

	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &dept.Settings); err != nil {
			return nil, fmt.Errorf("解析科室配置失败: %w", err)
		}
	}
	return dept, nil
}
