// Package constraint 定义槽位约束接口和管理器
package constraint

import (
	"sync"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// Manager 约束管理器
// 按注册顺序依次检查，首个拒绝即短路返回
type Manager struct {
	gates []Gate
	mu    sync.RWMutex
}

// NewManager 创建约束管理器
func NewManager() *Manager {
	return &Manager{
		gates: make([]Gate, 0),
	}
}

// Register 注册约束，同类型约束被替换
func (m *Manager) Register(g Gate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.gates {
		if existing.Type() == g.Type() {
			m.gates[i] = g
			return
		}
	}
	m.gates = append(m.gates, g)
}

// Unregister 注销约束
func (m *Manager) Unregister(t Type) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, g := range m.gates {
		if g.Type() == t {
			m.gates = append(m.gates[:i], m.gates[i+1:]...)
			return
		}
	}
}

// Get 获取指定类型的约束
func (m *Manager) Get(t Type) Gate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, g := range m.gates {
		if g.Type() == t {
			return g
		}
	}
	return nil
}

// GetAll 获取所有约束
func (m *Manager) GetAll() []Gate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Gate, len(m.gates))
	copy(result, m.gates)
	return result
}

// CanAssign 检查员工能否在天序 day 承担班次 shift
// 返回首个拒绝的约束名称
func (m *Manager) CanAssign(ctx *Context, handle, day int, shift *model.ShiftDefinition) (bool, string) {
	m.mu.RLock()
	gates := m.gates
	m.mu.RUnlock()

	for _, g := range gates {
		if !g.Allows(ctx, handle, day, shift) {
			return false, g.Name()
		}
	}
	return true, ""
}

// Clear 清除所有约束
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gates = make([]Gate, 0)
}

// Count 返回约束数量
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.gates)
}

// Summary 返回约束摘要
func (m *Manager) Summary() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.gates))
	for i, g := range m.gates {
		names[i] = g.Name()
	}

	return map[string]interface{}{
		"total": len(m.gates),
		"gates": names,
	}
}
