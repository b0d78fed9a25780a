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

// RosterRepositoryInterface 花名册仓储接口
type RosterRepositoryInterface interface {
	Create(ctx context.Context, record *model.RosterRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RosterRecord, error)
	Update(ctx context.Context, record *model.RosterRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.RosterRecord, error)
}

// RosterRepository 花名册仓储
type RosterRepository struct {
	db DB
}

// NewRosterRepository 创建花名册仓储
func NewRosterRepository(db DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// Create 保存花名册
func (r *RosterRepository) Create(ctx context.Context, record *model.RosterRecord) error {
	if record.ID == uuid.Nil {
		record.BaseModel = model.NewBaseModel()
	}

	groupsJSON, err := json.Marshal(record.Groups)
	if err != nil {
		return fmt.Errorf("序列化花名册失败: %w", err)
	}

	query := `
		INSERT INTO rosters (id, department_id, name, groups, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.DepartmentID, record.Name, groupsJSON,
		record.CreatedAt, record.UpdatedAt,
	); err != nil {
		return fmt.Errorf("保存花名册失败: %w", err)
	}
	return nil
}

// GetByID 按 ID 获取花名册
func (r *RosterRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RosterRecord, error) {
	query := `
		SELECT id, department_id, name, groups, created_at, updated_at
		FROM rosters
		WHERE id = $1 AND deleted_at IS NULL
	`
	record, err := scanRoster(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

// Update 更新花名册
func (r *RosterRepository) Update(ctx context.Context, record *model.RosterRecord) error {
	groupsJSON, err := json.Marshal(record.Groups)
	if err != nil {
		return fmt.Errorf("序列化花名册失败: %w", err)
	}

	query := `
		UPDATE rosters
		SET name = $2, groups = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, record.ID, record.Name, groupsJSON, time.Now())
	if err != nil {
		return fmt.Errorf("更新花名册失败: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete 软删除花名册
func (r *RosterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE rosters SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("删除花名册失败: %w", err)
	}
	return nil
}

// ListByDepartment 列出科室的花名册
func (r *RosterRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.RosterRecord, error) {
	query := `
		SELECT id, department_id, name, groups, created_at, updated_at
		FROM rosters
		WHERE department_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("查询花名册失败: %w", err)
	}
	defer rows.Close()

	var records []*model.RosterRecord
	for rows.Next() {
		record, err := scanRoster(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func scanRoster(s Scanner) (*model.RosterRecord, error) {
	record := &model.RosterRecord{}
	var groupsJSON []byte

	err := s.Scan(&record.ID, &record.DepartmentID, &record.Name, &groupsJSON,
		&record.CreatedAt, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("扫描花名册失败: %w", err)
	}

	if err := json.Unmarshal(groupsJSON, &record.Groups); err != nil {
		return nil, fmt.Errorf("解析花名册失败: %w", err)
	}
	return record, nil
}
