package grid_stats_repo

import (
	"sync"
	"testing"

	"cluster_backend/internal/config"
	"cluster_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тестовая конфигурация движка: игровая математика как в config.yaml,
// параметры дисперсии задаются в каждом тесте
type testConfig struct {
	variance config.VarianceTuning
}

func newTestConfig() *testConfig {
	return &testConfig{
		variance: config.VarianceTuning{
			WindowSize:         500,
			ResetAfterSpins:    10000,
			ClusterStrength:    0.30,
			NudgeUpFraction:    0.60,
			NudgeDownFraction:  0.90,
			DryStreakThreshold: 8,
			DryStreakBonus:     0.06,
			DryStreakDecay:     0.08,
			LossProbFloor:      0.45,
			LossProbCeil:       0.85,
		},
	}
}

func (c *testConfig) TargetRTP() float64 { return 0.96 }

func (c *testConfig) SymbolWeights() map[int]int {
	return map[int]int{0: 18, 1: 16, 2: 14, 3: 12, 4: 8, 5: 6, 6: 4, 7: 2, 8: 2, 9: 2}
}

func (c *testConfig) ClusterThreshold() int { return 8 }

func (c *testConfig) PayoutTable() map[int]map[int]float64 {
	return map[int]map[int]float64{
		0: {8: 0.10, 10: 0.25, 12: 0.50},
		5: {8: 1.50, 10: 4.00, 12: 8.00},
	}
}

func (c *testConfig) ScatterSymbols() []int { return []int{8, 9} }

func (c *testConfig) ScatterTiers() map[int]float64 {
	return map[int]float64{3: 2.0, 4: 5.0, 5: 20.0, 6: 100.0}
}

func (c *testConfig) CategoryProbs() map[model.PayoutCategory]float64 {
	return map[model.PayoutCategory]float64{
		model.CategoryLoss:      0.6900,
		model.CategorySmallWin:  0.2650,
		model.CategoryMediumWin: 0.0370,
		model.CategoryLargeWin:  0.0055,
		model.CategoryJackpot:   0.0025,
	}
}

func (c *testConfig) CategoryRanges() map[model.PayoutCategory]model.MultiplierRange {
	return map[model.PayoutCategory]model.MultiplierRange{
		model.CategoryLoss:      {Min: 0, Max: 0, Avg: 0},
		model.CategorySmallWin:  {Min: 0.1, Max: 2.0, Avg: 1.05},
		model.CategoryMediumWin: {Min: 3.0, Max: 9.0, Avg: 6.0},
		model.CategoryLargeWin:  {Min: 10.0, Max: 50.0, Avg: 30.0},
		model.CategoryJackpot:   {Min: 50.0, Max: 150.0, Avg: 100.0},
	}
}

func (c *testConfig) CascadeChance() map[model.PayoutCategory]float64 {
	return map[model.PayoutCategory]float64{}
}

func (c *testConfig) CascadeBonus() float64 { return 1.5 }

func (c *testConfig) Variance() config.VarianceTuning { return c.variance }

func (c *testConfig) Synthesis() config.SynthesisTuning { return config.SynthesisTuning{} }

func probSum(probs map[model.PayoutCategory]float64) float64 {
	var sum float64
	for _, category := range model.CategoryOrder {
		sum += probs[category]
	}
	return sum
}

func TestFreshRepoReturnsBaseProbabilities(t *testing.T) {
	cfg := newTestConfig()
	repo := NewGridStatsRepository(cfg)

	probs := repo.AdjustedProbabilities()
	for category, base := range cfg.CategoryProbs() {
		assert.InDelta(t, base, probs[category], 1e-9, "категория %s", category)
	}
	assert.InDelta(t, 1.0, probSum(probs), 1e-9)
}

func TestAdjustedReadIsIdempotent(t *testing.T) {
	repo := NewGridStatsRepository(newTestConfig())

	repo.RecordOutcome(true, 1.5)
	repo.RecordOutcome(false, 0)

	first := repo.AdjustedProbabilities()
	second := repo.AdjustedProbabilities()
	assert.Equal(t, first, second)
}

func TestAdjustedAlwaysSumsToOne(t *testing.T) {
	repo := NewGridStatsRepository(newTestConfig())

	outcomes := []struct {
		won  bool
		mult float64
	}{
		{true, 0.5}, {false, 0}, {false, 0}, {true, 6.0}, {false, 0},
		{false, 0}, {false, 0}, {false, 0}, {false, 0}, {false, 0},
		{false, 0}, {false, 0}, {true, 30.0},
	}
	for _, o := range outcomes {
		repo.RecordOutcome(o.won, o.mult)
		assert.InDelta(t, 1.0, probSum(repo.AdjustedProbabilities()), 1e-9)
	}
}

func TestDryStreakBoostsBigCategories(t *testing.T) {
	cfg := newTestConfig()
	repo := NewGridStatsRepository(cfg)
	base := cfg.CategoryProbs()

	for i := 0; i < cfg.Variance().DryStreakThreshold; i++ {
		repo.RecordOutcome(false, 0)
	}

	probs := repo.AdjustedProbabilities()
	assert.Less(t, probs[model.CategoryLoss], base[model.CategoryLoss])
	assert.Greater(t, probs[model.CategoryLargeWin], base[model.CategoryLargeWin])
	assert.Greater(t, probs[model.CategoryJackpot], base[model.CategoryJackpot])
	assert.InDelta(t, 1.0, probSum(probs), 1e-9)

	// Снятое с проигрыша делится 70/30 между largeWin и jackpot
	applied := base[model.CategoryLoss] - probs[model.CategoryLoss]
	assert.InDelta(t, base[model.CategoryLargeWin]+applied*0.7, probs[model.CategoryLargeWin], 1e-9)
	assert.InDelta(t, base[model.CategoryJackpot]+applied*0.3, probs[model.CategoryJackpot], 1e-9)
}

func TestDryStreakBonusDecays(t *testing.T) {
	cfg := newTestConfig()

	lossAt := func(streak int) float64 {
		repo := NewGridStatsRepository(cfg)
		for i := 0; i < streak; i++ {
			repo.RecordOutcome(false, 0)
		}
		return repo.AdjustedProbabilities()[model.CategoryLoss]
	}

	// Чем длиннее серия сверх порога, тем слабее компенсация
	assert.Less(t, lossAt(8), lossAt(12))
	assert.Less(t, lossAt(12), lossAt(30))
}

func TestDryStreakRespectsLossFloor(t *testing.T) {
	cfg := newTestConfig()
	cfg.variance.DryStreakBonus = 0.50

	repo := NewGridStatsRepository(cfg)
	for i := 0; i < cfg.Variance().DryStreakThreshold; i++ {
		repo.RecordOutcome(false, 0)
	}

	probs := repo.AdjustedProbabilities()
	assert.InDelta(t, cfg.Variance().LossProbFloor, probs[model.CategoryLoss], 1e-9)
	assert.InDelta(t, 1.0, probSum(probs), 1e-9)
}

func TestHotWindowRaisesLossProbability(t *testing.T) {
	cfg := newTestConfig()
	cfg.variance.WindowSize = 10

	repo := NewGridStatsRepository(cfg)
	for i := 0; i < 10; i++ {
		repo.RecordOutcome(true, 1.0)
	}

	probs := repo.AdjustedProbabilities()
	base := cfg.CategoryProbs()[model.CategoryLoss]
	assert.Greater(t, probs[model.CategoryLoss], base)
	assert.LessOrEqual(t, probs[model.CategoryLoss], cfg.Variance().LossProbCeil)
	assert.InDelta(t, 1.0, probSum(probs), 1e-9)

	// delta = (1.0 - 0.31) * 0.30, вверх применяется доля 0.60
	want := base + (1.0-0.31)*0.30*0.60
	assert.InDelta(t, want, probs[model.CategoryLoss], 1e-9)
}

func TestColdWindowLowersLossProbability(t *testing.T) {
	cfg := newTestConfig()
	cfg.variance.WindowSize = 10

	repo := NewGridStatsRepository(cfg)

	// Редкие выигрыши держат серию проигрышей ниже порога сухой серии
	pattern := []bool{false, false, false, true, false, false, false, true, false, false}
	for _, won := range pattern {
		mult := 0.0
		if won {
			mult = 1.0
		}
		repo.RecordOutcome(won, mult)
	}
	require.Less(t, repo.Snapshot().LossStreak, cfg.Variance().DryStreakThreshold)

	probs := repo.AdjustedProbabilities()
	base := cfg.CategoryProbs()[model.CategoryLoss]
	assert.Less(t, probs[model.CategoryLoss], base)
	assert.GreaterOrEqual(t, probs[model.CategoryLoss], cfg.Variance().LossProbFloor)

	// delta = (0.2 - 0.31) * 0.30, вниз применяется доля 0.90
	want := base + (0.2-0.31)*0.30*0.90
	assert.InDelta(t, want, probs[model.CategoryLoss], 1e-9)
}

func TestWindowEviction(t *testing.T) {
	cfg := newTestConfig()
	cfg.variance.WindowSize = 5

	repo := NewGridStatsRepository(cfg)

	// Пять проигрышей вытесняются пятью выигрышами
	for i := 0; i < 5; i++ {
		repo.RecordOutcome(false, 0)
	}
	for i := 0; i < 5; i++ {
		repo.RecordOutcome(true, 1.0)
	}

	snap := repo.Snapshot()
	assert.Equal(t, 5, snap.WindowLen)
	assert.InDelta(t, 1.0, snap.RecentWinRate, 1e-9)
	assert.Equal(t, 10, snap.TotalSpins)
}

func TestStreaksMutuallyReset(t *testing.T) {
	repo := NewGridStatsRepository(newTestConfig())

	repo.RecordOutcome(false, 0)
	repo.RecordOutcome(false, 0)
	repo.RecordOutcome(false, 0)
	snap := repo.Snapshot()
	assert.Equal(t, 3, snap.LossStreak)
	assert.Zero(t, snap.WinStreak)

	repo.RecordOutcome(true, 0.5)
	snap = repo.Snapshot()
	assert.Zero(t, snap.LossStreak)
	assert.Equal(t, 1, snap.WinStreak)
}

func TestDeviationTracksExpectedMultiplier(t *testing.T) {
	cfg := newTestConfig()
	repo := NewGridStatsRepository(cfg)

	var expected float64
	for category, p := range cfg.CategoryProbs() {
		expected += p * cfg.CategoryRanges()[category].Avg
	}

	repo.RecordOutcome(true, 2.0)
	assert.InDelta(t, 2.0-expected, repo.Snapshot().Deviation, 1e-9)

	repo.RecordOutcome(false, 0)
	assert.InDelta(t, 2.0-2*expected, repo.Snapshot().Deviation, 1e-9)
}

func TestDeviationResetsPeriodically(t *testing.T) {
	cfg := newTestConfig()
	cfg.variance.ResetAfterSpins = 10

	repo := NewGridStatsRepository(cfg)
	for i := 0; i < 9; i++ {
		repo.RecordOutcome(true, 2.0)
	}
	require.NotZero(t, repo.Snapshot().Deviation)

	repo.RecordOutcome(true, 2.0)
	assert.Zero(t, repo.Snapshot().Deviation)

	// Счетчик спинов сброс не затрагивает
	assert.Equal(t, 10, repo.Snapshot().TotalSpins)
}

func TestConcurrentRecordAndRead(t *testing.T) {
	repo := NewGridStatsRepository(newTestConfig())

	const (
		workers = 8
		records = 100
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < records; i++ {
				repo.RecordOutcome(i%3 == 0, float64(i%5))
				_ = repo.AdjustedProbabilities()
				_ = repo.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*records, repo.Snapshot().TotalSpins)
}
