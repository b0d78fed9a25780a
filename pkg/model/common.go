// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout 日期字符串格式（固定宽度，可按字典序比较）
const DateLayout = "2006-01-02"

// ClockLayout 时刻字符串格式
const ClockLayout = "15:04"

// CoveragePreset 覆盖模式
type CoveragePreset string

const (
	Preset247    CoveragePreset = "24_7"   // 全天候三班倒
	Preset8x5    CoveragePreset = "8x5"    // 工作日白班（周末不排）
	Preset12x7   CoveragePreset = "12x7"   // 每天两班十二小时
	PresetCustom CoveragePreset = "custom" // 自定义班次目录
)

// Valid 检查覆盖模式是否合法
func (p CoveragePreset) Valid() bool {
	switch p {
	case Preset247, Preset8x5, Preset12x7, PresetCustom:
		return true
	}
	return false
}

// Period 排班周期配置
// 两种模式：整月（Year+Month），或显式起始日期加天数（StartDate+DurationDays）
type Period struct {
	Year         int    `json:"year,omitempty"`
	Month        int    `json:"month,omitempty"`      // 1-12
	StartDate    string `json:"start_date,omitempty"` // YYYY-MM-DD
	DurationDays int    `json:"duration_days,omitempty"`
}

// IsMonth 检查是否为整月模式
func (p Period) IsMonth() bool {
	return p.StartDate == ""
}

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JSONMap 用于存储 JSONB 数据
type JSONMap map[string]interface{}

// DateRange 日期范围
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Constraints 排班约束配置
type Constraints struct {
	MinRestHours          int `json:"min_rest_hours"`           // 班次间最小休息小时数
	MaxHoursWeek          int `json:"max_hours_week"`           // 每周最大工时（仅审计提示）
	MaxConsecutiveDays    int `json:"max_consecutive_days"`     // 最大连续工作天数
	TargetShiftsPerPerson int `json:"target_shifts_per_person"` // 人均目标班次数
}

// DefaultConstraints 默认约束配置
func DefaultConstraints() Constraints {
	return Constraints{
		MinRestHours:          12,
		MaxHoursWeek:          40,
		MaxConsecutiveDays:    5,
		TargetShiftsPerPerson: 22,
	}
}
