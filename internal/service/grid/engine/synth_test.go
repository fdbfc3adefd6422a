package engine

import (
	"math"
	"sort"
	"testing"

	"cluster_backend/internal/model"
	"cluster_backend/internal/repository/grid_stats_repo"
	"cluster_backend/pkg/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededEngine(seed int64) *Engine {
	cfg := newTestConfig()
	stats := grid_stats_repo.NewGridStatsRepository(cfg)
	return New(cfg, stats, rng.NewSeeded(seed))
}

// symbolCounts количества символов на поле
func symbolCounts(grid model.Grid) map[int]int {
	counts := make(map[int]int)
	for c := 0; c < model.GridCols; c++ {
		for r := 0; r < model.GridRows; r++ {
			counts[grid[c][r]]++
		}
	}
	return counts
}

func TestSynthesizeLossAlwaysZero(t *testing.T) {
	e := newSeededEngine(1)
	cfg := newTestConfig()

	for i := 0; i < 300; i++ {
		grid, payout, cells := e.synthesize(100, 0)

		require.Zero(t, payout, "итерация %d", i)
		require.Empty(t, cells)

		// Ни один обычный символ не дотянул до порога, скаттеров меньше трех
		for sym, cnt := range symbolCounts(grid) {
			if sym == 8 || sym == 9 {
				require.Less(t, cnt, 3, "скаттер %d, итерация %d", sym, i)
				continue
			}
			require.Less(t, cnt, cfg.ClusterThreshold(), "символ %d, итерация %d", sym, i)
		}
	}
}

func TestSynthesizeWinAlwaysPositive(t *testing.T) {
	e := newSeededEngine(2)

	targets := []float64{0.1, 0.5, 1.5, 3.0, 6.0, 9.0, 15.0, 30.0, 60.0, 120.0}
	for _, target := range targets {
		grid, payout, cells := e.synthesize(10, target)

		assert.Positive(t, payout, "цель %v", target)
		assert.NotEmpty(t, cells, "цель %v", target)

		// Выплата согласована с полем
		rescored, _ := Score(e.cfg, grid, 10)
		assert.InDelta(t, rescored, payout, 1e-9, "цель %v", target)
	}
}

func TestSynthesizeMediumTargetMedianError(t *testing.T) {
	if testing.Short() {
		t.Skip("статистический тест, пропускаем в коротком режиме")
	}

	e := newSeededEngine(3)
	const target = 5.0

	var errs []float64
	for i := 0; i < 2000; i++ {
		_, payout, _ := e.synthesize(1, target)
		require.Positive(t, payout)
		errs = append(errs, math.Abs(payout-target)/target)
	}

	sort.Float64s(errs)
	median := errs[len(errs)/2]
	assert.Less(t, median, 0.15, "медианная относительная ошибка")
}

func TestConstructWinHitsLargeTargets(t *testing.T) {
	e := newSeededEngine(4)

	for _, target := range []float64{50, 75, 100, 120, 150} {
		for i := 0; i < 20; i++ {
			grid, payout, cells, ok := e.constructWin(1, target)

			require.True(t, ok, "цель %v", target)
			require.NotEmpty(t, cells)

			relErr := math.Abs(payout-target) / target
			assert.Less(t, relErr, 0.5, "цель %v, выплата %v", target, payout)

			rescored, _ := Score(e.cfg, grid, 1)
			assert.InDelta(t, rescored, payout, 1e-9)
		}
	}
}

func TestBandForLadder(t *testing.T) {
	e := newSeededEngine(5)

	tests := []struct {
		target    float64
		trials    int
		tolerance float64
	}{
		{target: 0.5, trials: 300, tolerance: 0.25},
		{target: 2.0, trials: 300, tolerance: 0.25},
		{target: 5.0, trials: 500, tolerance: 0.35},
		{target: 30.0, trials: 800, tolerance: 0.45},
		{target: 120.0, trials: 1200, tolerance: 0.60},
		{target: 5000.0, trials: 1200, tolerance: 0.60},
	}

	for _, tt := range tests {
		band := e.bandFor(tt.target)
		assert.Equal(t, tt.trials, band.Trials, "цель %v", tt.target)
		assert.Equal(t, tt.tolerance, band.Tolerance, "цель %v", tt.target)
	}
}

func TestLayoutPlanExactCounts(t *testing.T) {
	e := newSeededEngine(6)

	plan := []contribution{
		{sym: 5, count: 10, mult: 4.0},
		{sym: 8, count: 3, mult: 2.0},
	}

	grid, ok := e.layoutPlan(plan)
	require.True(t, ok)

	counts := symbolCounts(grid)
	assert.Equal(t, 10, counts[5])
	assert.Equal(t, 3, counts[8])

	// Заполнитель не создает побочных выигрышей
	payout, _ := Score(e.cfg, grid, 1)
	assert.InDelta(t, 6.0, payout, 1e-9)
}

func TestPlanWinNeverEmpty(t *testing.T) {
	e := newSeededEngine(7)

	for _, target := range []float64{0.05, 0.1, 1.0, 10.0, 100.0, 150.0} {
		for i := 0; i < 10; i++ {
			plan := e.planWin(target)
			require.NotEmpty(t, plan, "цель %v", target)

			cells := 0
			usedSyms := make(map[int]bool)
			for _, c := range plan {
				cells += c.count
				require.False(t, usedSyms[c.sym], "символ в плане дважды")
				usedSyms[c.sym] = true
			}
			require.LessOrEqual(t, cells, model.GridCols*model.GridRows)
		}
	}
}

func TestFillerFitsFullGrid(t *testing.T) {
	e := newSeededEngine(8)

	assert.True(t, e.fillerFits(model.GridCols*model.GridRows, map[int]bool{}, 5))
	assert.True(t, e.fillerFits(0, map[int]bool{}, 5))
}

func TestMinScatterTier(t *testing.T) {
	assert.Equal(t, 3, minScatterTier(map[int]float64{3: 2, 4: 5, 5: 20, 6: 100}))
	assert.Equal(t, -1, minScatterTier(nil))
}
