// Package trial 提供多种子并行试排
//
// 同一输入配不同种子各跑一次生成，按告警数与工作量极差挑出最优种子。
// 单次生成完全确定，试排结果只取决于种子列表。
package trial

import (
	"context"
	"sync"

	"github.com/Berner89/hospital-staff-scheduler/pkg/logger"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/solver"
)

// DefaultWorkers 默认并行度
const DefaultWorkers = 4

// Trial 单次试排结果
type Trial struct {
	Index        int            `json:"index"`
	Seed         int64          `json:"seed"`
	Result       *solver.Result `json:"result,omitempty"`
	Err          error          `json:"-"`
	WarningCount int            `json:"warning_count"`
	Spread       int            `json:"spread"` // 班次数极差，越小越均衡
}

// Runner 试排执行器
type Runner struct {
	workers int
}

// NewRunner 创建试排执行器
func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{workers: workers}
}

// Run 对每个种子各跑一次生成
// 结果按种子列表顺序返回，单个种子失败不影响其余
func (r *Runner) Run(ctx context.Context, input model.GenerateInput, seeds []int64) []Trial {
	if len(seeds) == 0 {
		return nil
	}

	log := logger.Get()
	log.Info().Int("seeds", len(seeds)).Int("workers", r.workers).Msg("开始多种子试排")

	jobChan := make(chan int, len(seeds))
	resultChan := make(chan Trial, len(seeds))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				select {
				case <-ctx.Done():
					resultChan <- Trial{Index: idx, Seed: seeds[idx], Err: ctx.Err()}
				default:
					resultChan <- r.runOne(ctx, input, idx, seeds[idx])
				}
			}
		}()
	}

	go func() {
		for i := range seeds {
			jobChan <- i
		}
		close(jobChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	trials := make([]Trial, len(seeds))
	for t := range resultChan {
		trials[t.Index] = t
	}

	if best := Best(trials); best != nil {
		log.Info().
			Int64("seed", best.Seed).
			Int("warnings", best.WarningCount).
			Int("spread", best.Spread).
			Msg("试排完成")
	}

	return trials
}

// runOne 跑单个种子
func (r *Runner) runOne(ctx context.Context, input model.GenerateInput, idx int, seed int64) Trial {
	input.Seed = seed
	result, err := solver.Generate(ctx, &input)
	if err != nil {
		return Trial{Index: idx, Seed: seed, Err: err}
	}
	return Trial{
		Index:        idx,
		Seed:         seed,
		Result:       result,
		WarningCount: len(result.Warnings),
		Spread:       spread(result.Counters),
	}
}

// Best 从试排结果中挑出最优
// 告警少者优先，同告警数比工作量极差，再平手取列表靠前的种子
func Best(trials []Trial) *Trial {
	var best *Trial
	for i := range trials {
		t := &trials[i]
		if t.Err != nil {
			continue
		}
		if best == nil || better(t, best) {
			best = t
		}
	}
	return best
}

// better 检查 a 是否严格优于 b
func better(a, b *Trial) bool {
	if a.WarningCount != b.WarningCount {
		return a.WarningCount < b.WarningCount
	}
	if a.Spread != b.Spread {
		return a.Spread < b.Spread
	}
	return false
}

// spread 计算班次数极差
func spread(counters model.FairnessCounters) int {
	if len(counters) == 0 {
		return 0
	}
	min, max := counters[0].TotalAssigned, counters[0].TotalAssigned
	for _, c := range counters[1:] {
		if c.TotalAssigned < min {
			min = c.TotalAssigned
		}
		if c.TotalAssigned > max {
			max = c.TotalAssigned
		}
	}
	return max - min
}
