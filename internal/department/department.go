// Package department 提供科室注册与隔离
//
// 保存的排班记录按科室归属，科室配额限制花名册规模。
package department

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Berner89/hospital-staff-scheduler/pkg/errors"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

var (
	ErrNotFound = errors.New(errors.CodeNotFound, "科室不存在")
	ErrInvalid  = errors.New(errors.CodeInvalidInput, "无效的科室")
	ErrDisabled = errors.New(errors.CodeDepartmentDisabled, "科室已停用")
)

// Department 科室
type Department struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`   // 科室编码
	Name      string    `json:"name"`   // 科室名称
	Status    string    `json:"status"` // active/disabled
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings 科室配置
type Settings struct {
	MaxEmployees      int      `json:"max_employees"`       // 花名册上限，0 表示不限
	AllowedPresets    []string `json:"allowed_presets"`     // 允许的覆盖模式
	DefaultPattern    string   `json:"default_pattern"`     // 缺省轮换模式代码
	DataRetentionDays int      `json:"data_retention_days"` // 排班记录保留天数
}

// IsActive 检查科室是否可用
func (d *Department) IsActive() bool {
	return d.Status == "active"
}

// AllowsPreset 检查科室是否允许某覆盖模式
func (d *Department) AllowsPreset(preset model.CoveragePreset) bool {
	if len(d.Settings.AllowedPresets) == 0 {
		return true
	}
	for _, p := range d.Settings.AllowedPresets {
		if p == string(preset) || p == "*" {
			return true
		}
	}
	return false
}

// CheckQuota 检查花名册规模是否超出配额
func (d *Department) CheckQuota(rosterSize int) error {
	limit := d.Settings.MaxEmployees
	if limit > 0 && rosterSize > limit {
		return errors.QuotaExceeded(d.Name, limit)
	}
	return nil
}

// Manager 科室管理器
type Manager struct {
	departments map[string]*Department // code -> department
	mu          sync.RWMutex
}

// NewManager 创建科室管理器
func NewManager() *Manager {
	return &Manager{
		departments: make(map[string]*Department),
	}
}

// Register 注册科室
func (m *Manager) Register(d *Department) error {
	if d == nil || d.Code == "" {
		return ErrInvalid
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.departments[d.Code] = d
	return nil
}

// Get 按编码获取科室
func (m *Manager) Get(code string) (*Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, exists := m.departments[code]
	if !exists {
		return nil, ErrNotFound
	}
	if !d.IsActive() {
		return nil, ErrDisabled
	}
	return d, nil
}

// GetByID 按 ID 获取科室
func (m *Manager) GetByID(id uuid.UUID) (*Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.departments {
		if d.ID == id {
			if !d.IsActive() {
				return nil, ErrDisabled
			}
			return d, nil
		}
	}
	return nil, ErrNotFound
}

// List 列出全部科室
func (m *Manager) List() []*Department {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Department, 0, len(m.departments))
	for _, d := range m.departments {
		result = append(result, d)
	}
	return result
}

// Remove 移除科室
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.departments, code)
}

type departmentContextKey struct{}

// WithDepartment 将科室放入上下文
func WithDepartment(ctx context.Context, d *Department) context.Context {
	return context.WithValue(ctx, departmentContextKey{}, d)
}

// FromContext 从上下文取出科室
func FromContext(ctx context.Context) (*Department, bool) {
	d, ok := ctx.Value(departmentContextKey{}).(*Department)
	return d, ok
}

// DefaultSettings 缺省科室配置
func DefaultSettings() Settings {
	return Settings{
		MaxEmployees:      100,
		AllowedPresets:    []string{"*"},
		DefaultPattern:    "5-2",
		DataRetentionDays: 365,
	}
}

// CreateDefault 创建缺省科室（开发测试用）
func CreateDefault() *Department {
	return &Department{
		ID:        uuid.New(),
		Code:      "default",
		Name:      "默认科室",
		Status:    "active",
		Settings:  DefaultSettings(),
		CreatedAt: time.Now(),
	}
}
