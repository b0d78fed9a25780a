package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Berner89/hospital-staff-scheduler/internal/department"
	"github.com/Berner89/hospital-staff-scheduler/internal/metrics"
	"github.com/Berner89/hospital-staff-scheduler/pkg/errors"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/stats"
)

// StatsHandler 统计分析处理器
type StatsHandler struct {
	fairness *stats.FairnessAnalyzer
	coverage *stats.CoverageAnalyzer
}

// NewStatsHandler 创建统计分析处理器
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{
		fairness: stats.NewFairnessAnalyzer(),
		coverage: stats.NewCoverageAnalyzer(),
	}
}

// StatsRequest 统计分析请求
// 网格与计数来自一次已完成的生成
type StatsRequest struct {
	Grid     model.AssignmentGrid   `json:"grid"`
	Groups   []model.EmployeeGroup  `json:"groups"`
	Shifts   model.ShiftCatalog     `json:"shifts"`
	Counters model.FairnessCounters `json:"counters,omitempty"`
	Dates    []string               `json:"dates"`
	Preset   model.CoveragePreset   `json:"preset"`
}

func decodeStatsRequest(w http.ResponseWriter, r *http.Request) (*StatsRequest, bool) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return nil, false
	}

	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return nil, false
	}
	if len(req.Grid) == 0 || len(req.Dates) == 0 {
		respondError(w, errors.New(errors.CodeInvalidInput, "缺少排班网格或日期序列"))
		return nil, false
	}
	return &req, true
}

// Fairness 公平性分析
func (h *StatsHandler) Fairness(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStatsRequest(w, r)
	if !ok {
		return
	}

	roster := model.FlattenGroups(req.Groups)
	m := h.fairness.Analyze(req.Grid, roster, req.Shifts, req.Counters, req.Dates)

	if dept, deptOK := department.FromContext(r.Context()); deptOK {
		metrics.SetFairnessGini(dept.Code, "workload", m.WorkloadGini)
		metrics.SetFairnessGini(dept.Code, "night", m.NightShiftGini)
		metrics.SetFairnessGini(dept.Code, "weekend", m.WeekendShiftGini)
	}

	respondJSON(w, http.StatusOK, m)
}

// Coverage 覆盖分析
func (h *StatsHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStatsRequest(w, r)
	if !ok {
		return
	}

	m := h.coverage.Analyze(req.Grid, req.Shifts, req.Dates, req.Preset)

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(h.coverage.Report(m)))
		return
	}
	respondJSON(w, http.StatusOK, m)
}
