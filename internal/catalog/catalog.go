// Package catalog 提供静态的班次目录与轮换模式库
//
// 预设目录与模式是参考数据，运行时只读。
package catalog

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/errors"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// PresetInfo 预设目录说明
type PresetInfo struct {
	Preset      model.CoveragePreset `json:"preset"`
	DisplayName string               `json:"display_name"`
	Description string               `json:"description"`
	Shifts      model.ShiftCatalog   `json:"shifts"`
}

// Presets 返回全部覆盖预设及其缺省班次目录
func Presets() []PresetInfo {
	return []PresetInfo{
		{
			Preset:      model.Preset247,
			DisplayName: "全天候三班倒",
			Description: "早中夜三个八小时班全周覆盖，外加备班与行政班。适合病房、产线等全天候场景。",
			Shifts:      ShiftsFor(model.Preset247),
		},
		{
			Preset:      model.Preset8x5,
			DisplayName: "工作日白班",
			Description: "周一至周五八小时白班，周末工作班需求归零。适合门诊、行政科室。",
			Shifts:      ShiftsFor(model.Preset8x5),
		},
		{
			Preset:      model.Preset12x7,
			DisplayName: "两班十二小时",
			Description: "昼夜各一个十二小时班全周覆盖。适合急诊、ICU 等长班制场景。",
			Shifts:      ShiftsFor(model.Preset12x7),
		},
		{
			Preset:      model.PresetCustom,
			DisplayName: "自定义",
			Description: "调用方自带班次目录，预设不提供缺省班次。",
		},
	}
}

// ShiftsFor 返回预设的缺省班次目录
// custom 预设返回 nil，班次目录由调用方提供
func ShiftsFor(preset model.CoveragePreset) model.ShiftCatalog {
	switch preset {
	case model.Preset247:
		return model.ShiftCatalog{
			{Code: "N", Name: "夜班", StartTime: "22:00", EndTime: "06:00", Category: model.CategoryWorking, RequiredCoverage: 1, Priority: 30, Color: "#3b4a6b"},
			{Code: "E", Name: "中班", StartTime: "14:00", EndTime: "22:00", Category: model.CategoryWorking, RequiredCoverage: 1, Priority: 20, Color: "#b5651d"},
			{Code: "D", Name: "白班", StartTime: "06:00", EndTime: "14:00", Category: model.CategoryWorking, RequiredCoverage: 2, Priority: 10, Color: "#2e7d32"},
			{Code: "B", Name: "备班", Category: model.CategoryBackup, Priority: 0, Color: "#757575"},
			{Code: "A", Name: "行政班", StartTime: "08:00", EndTime: "16:00", Category: model.CategoryAdmin, Priority: 0, Color: "#9e9e9e"},
		}
	case model.Preset8x5:
		return model.ShiftCatalog{
			{Code: "D", Name: "白班", StartTime: "08:00", EndTime: "16:00", Category: model.CategoryWorking, RequiredCoverage: 2, Priority: 10, Color: "#2e7d32"},
			{Code: "B", Name: "备班", Category: model.CategoryBackup, Priority: 0, Color: "#757575"},
		}
	case model.Preset12x7:
		return model.ShiftCatalog{
			{Code: "N12", Name: "夜十二", StartTime: "19:00", EndTime: "07:00", Category: model.CategoryWorking, RequiredCoverage: 1, Priority: 20, Color: "#3b4a6b"},
			{Code: "D12", Name: "昼十二", StartTime: "07:00", EndTime: "19:00", Category: model.CategoryWorking, RequiredCoverage: 1, Priority: 10, Color: "#2e7d32"},
		}
	}
	return nil
}

// Patterns 返回轮换模式库
// 周期为二进制序列，1 在岗 0 轮休
func Patterns() []model.RotationPattern {
	return []model.RotationPattern{
		{
			Code:        "5-2",
			Name:        "五班二休",
			Cycle:       []int{1, 1, 1, 1, 1, 0, 0},
			Description: "连上五天休两天，与自然周对齐的经典模式。",
		},
		{
			Code:        "4-4",
			Name:        "四班四休",
			Cycle:       []int{1, 1, 1, 1, 0, 0, 0, 0},
			Description: "连上四天休四天，多用于十二小时长班制。",
		},
		{
			Code:        "dupont",
			Name:        "杜邦制",
			Cycle:       []int{1, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0, 0, 0},
			Description: "二十八天周期的四组倒班制，含一段七天连休。",
		},
		{
			Code:        "pitman",
			Name:        "皮特曼制",
			Cycle:       []int{1, 1, 0, 0, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0},
			Description: "十四天周期的 2-2-3 模式，隔周三天连休。",
		},
		{
			Code:        "2-1",
			Name:        "两班一休",
			Cycle:       []int{1, 1, 0},
			Description: "连上两天休一天的短周期模式。",
		},
	}
}

// PatternByCode 按代码查找轮换模式
func PatternByCode(code string) (*model.RotationPattern, error) {
	for _, p := range Patterns() {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, errors.UnknownPattern(code)
}

// PresetByName 按名称查找预设
func PresetByName(name string) (*PresetInfo, error) {
	for _, p := range Presets() {
		if string(p.Preset) == name {
			return &p, nil
		}
	}
	return nil, errors.New(errors.CodeUnknownPreset, "覆盖模式 '"+name+"' 不存在")
}
