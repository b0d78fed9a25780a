package handler

import (
	"net/http"

	"github.com/Berner89/hospital-staff-scheduler/internal/catalog"
	"github.com/Berner89/hospital-staff-scheduler/pkg/errors"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// CatalogHandler 预置目录处理器
type CatalogHandler struct{}

// NewCatalogHandler 创建预置目录处理器
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Presets 列出覆盖模式及其缺省班次目录
func (h *CatalogHandler) Presets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	if name := r.URL.Query().Get("name"); name != "" {
		info, err := catalog.PresetByName(name)
		if err != nil {
			respondAnyError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, info)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"presets": catalog.Presets(),
	})
}

// Patterns 列出轮换模式模板
func (h *CatalogHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}

	if code := r.URL.Query().Get("code"); code != "" {
		p, err := catalog.PatternByCode(code)
		if err != nil {
			respondAnyError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, p)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"patterns": catalog.Patterns(),
	})
}

// Constraints 返回缺省约束配置
func (h *CatalogHandler) Constraints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	respondJSON(w, http.StatusOK, model.DefaultConstraints())
}
