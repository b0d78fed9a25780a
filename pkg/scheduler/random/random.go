// Package random 提供排班引擎使用的确定性伪随机数发生器
//
// 采用 32 位线性同余算法（Numerical Recipes 参数），
// 同一种子产生完全一致的序列，保证排班结果可逐位复现。
package random

// 线性同余参数
const (
	multiplier = 1664525
	increment  = 1013904223
)

// Source 确定性伪随机数源
// 状态为 32 位整数，每次取数恰好推进一次
type Source struct {
	state uint32
}

// NewSource 以给定种子创建随机数源
// 种子按模 2^32 规约
func NewSource(seed int64) *Source {
	return &Source{state: uint32(seed)}
}

// Uint32 推进状态并返回新状态
func (s *Source) Uint32() uint32 {
	s.state = s.state*multiplier + increment
	return s.state
}

// Float64 推进状态并返回 [0,1) 区间的浮点数
func (s *Source) Float64() float64 {
	return float64(s.Uint32()) / (1 << 32)
}

// Seed 重置状态
func (s *Source) Seed(seed int64) {
	s.state = uint32(seed)
}
