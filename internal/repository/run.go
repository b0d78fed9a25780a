// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// RunRepositoryInterface 排班记录仓储接口
type RunRepositoryInterface interface {
	Create(ctx context.Context, run *model.ScheduleRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleRun, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]*model.ScheduleRun, int, error)
	GetLatest(ctx context.Context, departmentID uuid.UUID) (*model.ScheduleRun, error)
}

// RunRepository 排班记录仓储
type RunRepository struct {
	db DB
}

// NewRunRepository 创建排班记录仓储
func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, department_id, name, start_date, end_date, preset,
	pattern_code, seed, payload, fill_rate, warning_count, status, created_at, updated_at`

// Create 保存排班记录
func (r *RunRepository) Create(ctx context.Context, run *model.ScheduleRun) error {
	if run.ID == uuid.Nil {
		run.BaseModel = model.NewBaseModel()
	}

	payloadJSON, err := json.Marshal(run.Payload)
	if err != nil {
		return fmt.Errorf("序列化排班内容失败: %w", err)
	}

	query := `
		INSERT INTO schedule_runs (
			id, department_id, name, start_date, end_date, preset,
			pattern_code, seed, payload, fill_rate, warning_count, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.DepartmentID, run.Name, run.StartDate, run.EndDate, run.Preset,
		run.PatternCode, run.Seed, payloadJSON, run.FillRate, run.WarningCount, run.Status,
		run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("保存排班记录失败: %w", err)
	}

	return nil
}

// GetByID 按 ID 获取排班记录
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleRun, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_runs WHERE id = $1 AND deleted_at IS NULL`, runColumns)
	return r.scanRun(r.db.QueryRowContext(ctx, query, id))
}

// UpdateStatus 更新排班记录状态
func (r *RunRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE schedule_runs SET status = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("更新排班状态失败: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete 软删除排班记录
func (r *RunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE schedule_runs SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("删除排班记录失败: %w", err)
	}
	return nil
}

// List 列出排班记录
func (r *RunRepository) List(ctx context.Context, filter ListFilter) ([]*model.ScheduleRun, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	var args []interface{}
	argNum := 1

	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", argNum))
		args = append(args, *filter.DepartmentID)
		argNum++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}
	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d", argNum))
		args = append(args, filter.StartDate)
		argNum++
	}
	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("end_date <= $%d", argNum))
		args = append(args, filter.EndDate)
		argNum++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM schedule_runs %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计排班记录失败: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM schedule_runs %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, runColumns, whereClause, orderColumn(filter.OrderBy), orderDir(filter.OrderDir), argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询排班记录失败: %w", err)
	}
	defer rows.Close()

	var runs []*model.ScheduleRun
	for rows.Next() {
		run, err := r.scanRunRow(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}

	return runs, total, nil
}

// GetLatest 获取科室最近一次排班记录
func (r *RunRepository) GetLatest(ctx context.Context, departmentID uuid.UUID) (*model.ScheduleRun, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM schedule_runs
		WHERE department_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`, runColumns)
	return r.scanRun(r.db.QueryRowContext(ctx, query, departmentID))
}

// scanRun 扫描单行排班记录，无结果返回 nil
func (r *RunRepository) scanRun(row *sql.Row) (*model.ScheduleRun, error) {
	run, err := scanRunFields(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// scanRunRow 从多行结果扫描
func (r *RunRepository) scanRunRow(rows *sql.Rows) (*model.ScheduleRun, error) {
	return scanRunFields(rows)
}

func scanRunFields(s Scanner) (*model.ScheduleRun, error) {
	run := &model.ScheduleRun{}
	var payloadJSON []byte

	err := s.Scan(
		&run.ID, &run.DepartmentID, &run.Name, &run.StartDate, &run.EndDate, &run.Preset,
		&run.PatternCode, &run.Seed, &payloadJSON, &run.FillRate, &run.WarningCount, &run.Status,
		&run.CreatedAt, &run.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("扫描排班记录失败: %w", err)
	}

	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &run.Payload); err != nil {
			return nil, fmt.Errorf("解析排班内容失败: %w", err)
		}
	}

	return run, nil
}

// orderColumn 限制排序列为白名单
func orderColumn(col string) string {
	switch col {
	case "start_date", "updated_at", "fill_rate":
		return col
	default:
		return "created_at"
	}
}

// orderDir 限制排序方向
func orderDir(dir string) string {
	if strings.EqualFold(dir, "asc") {
		return "ASC"
	}
	return "DESC"
}
