// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Berner89/hospital-staff-scheduler/internal/department"
	"github.com/Berner89/hospital-staff-scheduler/internal/metrics"
	"github.com/Berner89/hospital-staff-scheduler/internal/repository"
	"github.com/Berner89/hospital-staff-scheduler/pkg/errors"
	"github.com/Berner89/hospital-staff-scheduler/pkg/logger"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/relief"
	"github.com/Berner89/hospital-staff-scheduler/pkg/report"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/solver"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/trial"
	"github.com/Berner89/hospital-staff-scheduler/pkg/validator"
)

// ScheduleOptions 排班处理器配置
type ScheduleOptions struct {
	Runs            repository.RunRepositoryInterface // 可为空，空则不持久化
	GenerateTimeout time.Duration
	TrialWorkers    int
	MaxTrialSeeds   int
}

// ScheduleHandler 排班处理器
type ScheduleHandler struct {
	validator *validator.InputValidator
	relief    *relief.Engine
	report    *report.Generator
	trials    *trial.Runner
	runs      repository.RunRepositoryInterface
	timeout   time.Duration
	maxSeeds  int
}

// NewScheduleHandler 创建排班处理器
func NewScheduleHandler(opts ScheduleOptions) *ScheduleHandler {
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = 30 * time.Second
	}
	if opts.MaxTrialSeeds <= 0 {
		opts.MaxTrialSeeds = 16
	}
	return &ScheduleHandler{
		validator: validator.NewInputValidator(),
		relief:    relief.NewEngine(),
		report:    report.NewGenerator(),
		trials:    trial.NewRunner(opts.TrialWorkers),
		runs:      opts.Runs,
		timeout:   opts.GenerateTimeout,
		maxSeeds:  opts.MaxTrialSeeds,
	}
}

// GenerateRequest 排班生成请求
type GenerateRequest struct {
	model.GenerateInput
	Name string `json:"name,omitempty"` // 保存时的记录名
	Save bool   `json:"save,omitempty"` // 是否持久化结果
}

// GenerateResponse 排班生成响应
type GenerateResponse struct {
	*solver.Result
	Notes []string `json:"notes,omitempty"` // 校验阶段的非阻断提示
	RunID string   `json:"run_id,omitempty"`
}

// Generate 生成排班
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	input := req.GenerateInput
	if input.Constraints == (model.Constraints{}) {
		input.Constraints = model.DefaultConstraints()
	}

	// 科室配额与模式限制
	if dept, ok := department.FromContext(r.Context()); ok {
		if !dept.AllowsPreset(input.Preset) {
			respondError(w, errors.New(errors.CodeForbidden, "科室不允许该覆盖模式"))
			return
		}
		roster := model.FlattenGroups(input.Groups)
		if err := dept.CheckQuota(len(roster)); err != nil {
			respondAnyError(w, err)
			return
		}
	}

	vr := h.validator.Validate(input)
	if !vr.OK() {
		respondError(w, vr.Errors.ToAppError())
		return
	}

	genCtx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	result, err := solver.Generate(genCtx, &input)
	metrics.RecordGenerate(string(input.Preset), err == nil, time.Since(start))
	if err != nil {
		if genCtx.Err() == context.DeadlineExceeded {
			respondError(w, errors.New(errors.CodeTimeout, "排班计算超时，请缩短周期或减少人数"))
			return
		}
		respondAnyError(w, err)
		return
	}

	resp := GenerateResponse{Result: result, Notes: vr.Notes}

	if req.Save && h.runs != nil {
		runID, err := h.saveRun(r.Context(), &req, result)
		if err != nil {
			logger.Error().Err(err).Msg("保存排班记录失败")
		} else {
			resp.RunID = runID
		}
	}

	if dept, ok := department.FromContext(r.Context()); ok && result.Statistics != nil {
		metrics.SetScheduleQuality(dept.Code, result.Statistics.FillRate, len(result.Warnings))
	}

	respondJSON(w, http.StatusOK, resp)
}

// saveRun 将排班结果写入数据库
func (h *ScheduleHandler) saveRun(ctx context.Context, req *GenerateRequest, result *solver.Result) (string, error) {
	name := req.Name
	if name == "" {
		name = "排班 " + time.Now().Format("2006-01-02 15:04")
	}

	run := &model.ScheduleRun{
		Name:        name,
		Preset:      req.Preset,
		Seed:        result.Seed,
		Status:      "draft",
		PatternCode: patternCode(req.Pattern),
		Payload: model.JSONMap{
			"grid":     result.Grid,
			"counters": result.Counters,
			"warnings": result.Warnings,
			"dates":    result.Dates,
		},
		WarningCount: len(result.Warnings),
	}
	if len(result.Dates) > 0 {
		run.StartDate = result.Dates[0]
		run.EndDate = result.Dates[len(result.Dates)-1]
	}
	if result.Statistics != nil {
		run.FillRate = result.Statistics.FillRate
	}
	if dept, ok := department.FromContext(ctx); ok {
		run.DepartmentID = dept.ID
	}

	if err := h.runs.Create(ctx, run); err != nil {
		return "", err
	}
	return run.ID.String(), nil
}

func patternCode(p *model.RotationPattern) string {
	if p == nil {
		return ""
	}
	return p.Code
}

// ValidateResponse 校验响应
type ValidateResponse struct {
	Valid  bool                     `json:"valid"`
	Errors []errors.ValidationError `json:"errors,omitempty"`
	Notes  []string                 `json:"notes,omitempty"`
}

// Validate 仅校验输入，不生成排班
func (h *ScheduleHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var input model.GenerateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if input.Constraints == (model.Constraints{}) {
		input.Constraints = model.DefaultConstraints()
	}

	vr := h.validator.Validate(input)
	respondJSON(w, http.StatusOK, ValidateResponse{
		Valid:  vr.OK(),
		Errors: vr.Errors.Errors,
		Notes:  vr.Notes,
	})
}

// ReliefRequest 顶班建议请求
// 网格来自一次已完成的生成，处理器只读不改
type ReliefRequest struct {
	Grid        model.AssignmentGrid  `json:"grid"`
	Groups      []model.EmployeeGroup `json:"groups"`
	Shifts      model.ShiftCatalog    `json:"shifts"`
	Constraints model.Constraints     `json:"constraints"`
	Dates       []string              `json:"dates"`
	Preset      model.CoveragePreset  `json:"preset"`
	MaxResults  int                   `json:"max_results,omitempty"`
}

// Relief 为覆盖缺口推荐顶班人选
func (h *ScheduleHandler) Relief(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req ReliefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if len(req.Grid) == 0 || len(req.Dates) == 0 {
		respondError(w, errors.New(errors.CodeInvalidInput, "缺少排班网格或日期序列"))
		return
	}
	if req.Constraints == (model.Constraints{}) {
		req.Constraints = model.DefaultConstraints()
	}

	suggestions := h.relief.SuggestAll(&relief.Request{
		Grid:        req.Grid,
		Roster:      model.FlattenGroups(req.Groups),
		Catalog:     req.Shifts,
		Constraints: req.Constraints,
		Dates:       req.Dates,
		MaxResults:  req.MaxResults,
	}, req.Preset)

	for _, s := range suggestions {
		metrics.RecordReliefSuggestion(s.Feasible)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"gap_count":   len(suggestions),
	})
}

// TrialRequest 种子试跑请求
type TrialRequest struct {
	model.GenerateInput
	Seeds []int64 `json:"seeds"`
}

// TrialSummary 单次试跑摘要
type TrialSummary struct {
	Seed         int64   `json:"seed"`
	WarningCount int     `json:"warning_count"`
	Spread       int     `json:"spread"`
	FillRate     float64 `json:"fill_rate"`
	Error        string  `json:"error,omitempty"`
}

// Trial 对一组种子并行试跑并排名
func (h *ScheduleHandler) Trial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req TrialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if len(req.Seeds) == 0 {
		respondError(w, errors.New(errors.CodeInvalidInput, "种子列表不能为空"))
		return
	}
	if len(req.Seeds) > h.maxSeeds {
		respondError(w, errors.New(errors.CodeInvalidInput, fmt.Sprintf("种子数量超过上限 %d", h.maxSeeds)))
		return
	}

	input := req.GenerateInput
	if input.Constraints == (model.Constraints{}) {
		input.Constraints = model.DefaultConstraints()
	}
	if vr := h.validator.Validate(input); !vr.OK() {
		respondError(w, vr.Errors.ToAppError())
		return
	}

	genCtx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	trials := h.trials.Run(genCtx, input, req.Seeds)

	summaries := make([]TrialSummary, len(trials))
	for i, t := range trials {
		summaries[i] = TrialSummary{
			Seed:         t.Seed,
			WarningCount: t.WarningCount,
			Spread:       t.Spread,
		}
		if t.Err != nil {
			summaries[i].Error = t.Err.Error()
		} else if t.Result != nil && t.Result.Statistics != nil {
			summaries[i].FillRate = t.Result.Statistics.FillRate
		}
		metrics.RecordTrialRun(t.Err == nil)
	}

	resp := map[string]interface{}{"trials": summaries}
	if best := trial.Best(trials); best != nil {
		resp["best_seed"] = best.Seed
		resp["best"] = GenerateResponse{Result: best.Result}
	}

	respondJSON(w, http.StatusOK, resp)
}

// Export 生成排班并导出为报表
// format 查询参数支持 text 与 csv，缺省 text
func (h *ScheduleHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	input := req.GenerateInput
	if input.Constraints == (model.Constraints{}) {
		input.Constraints = model.DefaultConstraints()
	}
	if vr := h.validator.Validate(input); !vr.OK() {
		respondError(w, vr.Errors.ToAppError())
		return
	}

	genCtx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := solver.Generate(genCtx, &input)
	if err != nil {
		respondAnyError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		data, err := h.report.CSV(result)
		if err != nil {
			respondAnyError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="schedule.csv"`)
		w.Write(data)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(h.report.Text(result, req.Name)))
	}
}

// Runs 查询已保存的排班记录
func (h *ScheduleHandler) Runs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.runs == nil {
		respondError(w, errors.New(errors.CodeNotFound, "持久化未启用"))
		return
	}

	if idStr := r.URL.Query().Get("id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的记录ID"))
			return
		}
		run, err := h.runs.GetByID(r.Context(), id)
		if err != nil {
			respondAnyError(w, err)
			return
		}
		if run == nil {
			respondError(w, errors.New(errors.CodeNotFound, "排班记录不存在"))
			return
		}
		respondJSON(w, http.StatusOK, run)
		return
	}

	filter := repository.DefaultListFilter()
	if dept, ok := department.FromContext(r.Context()); ok {
		filter = filter.WithDepartmentID(dept.ID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter = filter.WithStatus(status)
	}

	runs, total, err := h.runs.List(r.Context(), filter)
	if err != nil {
		respondAnyError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"total": total,
	})
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
		"fields":  err.Fields,
	})
}

// respondAnyError 按错误类型选择状态码
func respondAnyError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		respondError(w, appErr)
		return
	}
	respondError(w, errors.Wrap(err, errors.CodeInternal, "内部错误"))
}
