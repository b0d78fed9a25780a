package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// ShiftCatalogRepositoryInterface 班次目录仓储接口
type ShiftCatalogRepositoryInterface interface {
	Create(ctx context.Context, record *model.ShiftCatalogRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ShiftCatalogRecord, error)
	Update(ctx context.Context, record *model.ShiftCatalogRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.ShiftCatalogRecord, error)
}

// ShiftCatalogRepository 班次目录仓储
type ShiftCatalogRepository struct {
	db DB
}

// NewShiftCatalogRepository 创建班次目录仓储
func NewShiftCatalogRepository(db DB) *ShiftCatalogRepository {
	return &ShiftCatalogRepository{db: db}
}

// Create 保存班次目录
func (r *ShiftCatalogRepository) Create(ctx context.Context, record *model.ShiftCatalogRecord) error {
	if record.ID == uuid.Nil {
		record.BaseModel = model.NewBaseModel()
	}

	shiftsJSON, err := json.Marshal(record.Shifts)
	if err != nil {
		return fmt.Errorf("序列化班次目录失败: %w", err)
	}

	query := `
		INSERT INTO shift_catalogs (id, department_id, name, preset, shifts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.DepartmentID, record.Name, record.Preset, shiftsJSON,
		record.CreatedAt, record.UpdatedAt,
	); err != nil {
		return fmt.Errorf("保存班次目录失败: %w", err)
	}
	return nil
}

// GetByID 按 ID 获取班次目录
func (r *ShiftCatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ShiftCatalogRecord, error) {
	query := `
		SELECT id, department_id, name, preset, shifts, created_at, updated_at
		FROM shift_catalogs
		WHERE id = $1 AND deleted_at IS NULL
	`
	record, err := scanShiftCatalog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

// Update 更新班次目录
func (r *ShiftCatalogRepository) Update(ctx context.Context, record *model.ShiftCatalogRecord) error {
	shiftsJSON, err := json.Marshal(record.Shifts)
	if err != nil {
		return fmt.Errorf("序列化班次目录失败: %w", err)
	}

	query := `
		UPDATE shift_catalogs
		SET name = $2, preset = $3, shifts = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, record.ID, record.Name, record.Preset, shiftsJSON, time.Now())
	if err != nil {
		return fmt.Errorf("更新班次目录失败: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete 软删除班次目录
func (r *ShiftCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE shift_catalogs SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("删除班次目录失败: %w", err)
	}
	return nil
}

// ListByDepartment 列出科室的班次目录
func (r *ShiftCatalogRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.ShiftCatalogRecord, error) {
	query := `
		SELECT id, department_id, name, preset, shifts, created_at, updated_at
		FROM shift_catalogs
		WHERE department_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("查询班次目录失败: %w", err)
	}
	defer rows.Close()

	var records []*model.ShiftCatalogRecord
	for rows.Next() {
		record, err := scanShiftCatalog(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func scanShiftCatalog(s Scanner) (*model.ShiftCatalogRecord, error) {
	record := &model.ShiftCatalogRecord{}
	var shiftsJSON []byte

	err := s.Scan(&record.ID, &record.DepartmentID, &record.Name, &record.Preset, &shiftsJSON,
		&record.CreatedAt, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("扫描班次目录失败: %w", err)
	}

	if err := json.Unmarshal(shiftsJSON, &record.Shifts); err != nil {
		return nil, fmt.Errorf("解析班次目录失败: %w", err)
	}
	return record, nil
}
