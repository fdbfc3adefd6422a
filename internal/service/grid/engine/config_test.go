package engine

import (
	"cluster_backend/internal/config"
	"cluster_backend/internal/model"
)

// Тестовая конфигурация движка — зеркало config.yaml
type testConfig struct {
	cascadeChance map[model.PayoutCategory]float64
	variance      config.VarianceTuning
}

func newTestConfig() *testConfig {
	return &testConfig{
		cascadeChance: map[model.PayoutCategory]float64{
			model.CategorySmallWin:  0.10,
			model.CategoryMediumWin: 0.15,
			model.CategoryLargeWin:  0.22,
			model.CategoryJackpot:   0.30,
		},
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
		1: {8: 0.15, 10: 0.40, 12: 0.75},
		2: {8: 0.25, 10: 0.60, 12: 1.20},
		3: {8: 0.40, 10: 1.00, 12: 2.00},
		4: {8: 0.80, 10: 2.00, 12: 4.00},
		5: {8: 1.50, 10: 4.00, 12: 8.00},
		6: {8: 3.00, 10: 8.00, 12: 15.00},
		7: {8: 6.00, 10: 15.00, 12: 30.00},
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

func (c *testConfig) CascadeChance() map[model.PayoutCategory]float64 { return c.cascadeChance }

func (c *testConfig) CascadeBonus() float64 { return 1.5 }

func (c *testConfig) Variance() config.VarianceTuning { return c.variance }

func (c *testConfig) Synthesis() config.SynthesisTuning {
	return config.SynthesisTuning{
		QuickTolerance: 0.10,
		Ladder: []config.SynthesisBand{
			{MaxTarget: 2.0, Trials: 300, Tolerance: 0.25},
			{MaxTarget: 10.0, Trials: 500, Tolerance: 0.35},
			{MaxTarget: 50.0, Trials: 800, Tolerance: 0.45},
			{MaxTarget: 1000.0, Trials: 1200, Tolerance: 0.60},
		},
		ConstructAbove: 10.0,
	}
}
