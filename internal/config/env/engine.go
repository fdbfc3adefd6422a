package env

import (
	"fmt"
	"log"
	"math"
	"os"

	"cluster_backend/internal/config"
	"cluster_backend/internal/model"

	"gopkg.in/yaml.v3"
)

// Допуски рекомендательной валидации конфига.
// Нарушение не фатально: пишем warning и продолжаем работать
const (
	probSumTolerance = 1e-4
	rtpWarnTolerance = 0.1
)

type categoryYAML struct {
	Prob float64 `yaml:"prob"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

type engineYAML struct {
	Grid struct {
		TargetRTP        float64                 `yaml:"target_rtp"`
		ClusterThreshold int                     `yaml:"cluster_threshold"`
		SymbolWeights    map[int]int             `yaml:"symbol_weights"`
		PayoutTable      map[int]map[int]float64 `yaml:"payout_table"`
		ScatterSymbols   []int                   `yaml:"scatter_symbols"`
		ScatterTiers     map[int]float64         `yaml:"scatter_tiers"`
		Categories       map[string]categoryYAML `yaml:"categories"`
		Cascade          struct {
			Bonus  float64            `yaml:"bonus"`
			Chance map[string]float64 `yaml:"chance"`
		} `yaml:"cascade"`
		Variance  config.VarianceTuning  `yaml:"variance"`
		Synthesis config.SynthesisTuning `yaml:"synthesis"`
	} `yaml:"grid"`
}

type engineConfig struct {
	targetRTP        float64
	clusterThreshold int
	symbolWeights    map[int]int
	payoutTable      map[int]map[int]float64
	scatterSymbols   []int
	scatterTiers     map[int]float64
	categoryProbs    map[model.PayoutCategory]float64
	categoryRanges   map[model.PayoutCategory]model.MultiplierRange
	cascadeChance    map[model.PayoutCategory]float64
	cascadeBonus     float64
	variance         config.VarianceTuning
	synthesis        config.SynthesisTuning
}

// NewEngineConfigFromYAML загружает конфигурацию движка из yaml файла.
// Ошибки конфигурации вероятностной модели рекомендательные: логируются, но не валят процесс
func NewEngineConfigFromYAML(path string) (config.EngineConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}

	var parsed engineYAML
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}

	g := parsed.Grid
	cfg := &engineConfig{
		targetRTP:        g.TargetRTP,
		clusterThreshold: g.ClusterThreshold,
		symbolWeights:    g.SymbolWeights,
		payoutTable:      g.PayoutTable,
		scatterSymbols:   g.ScatterSymbols,
		scatterTiers:     g.ScatterTiers,
		categoryProbs:    make(map[model.PayoutCategory]float64, len(g.Categories)),
		categoryRanges:   make(map[model.PayoutCategory]model.MultiplierRange, len(g.Categories)),
		cascadeChance:    make(map[model.PayoutCategory]float64, len(g.Cascade.Chance)),
		cascadeBonus:     g.Cascade.Bonus,
		variance:         g.Variance,
		synthesis:        g.Synthesis,
	}

	for name, c := range g.Categories {
		category := model.PayoutCategory(name)
		cfg.categoryProbs[category] = c.Prob
		// Средний множитель категории — середина диапазона (для учета ожидаемой отдачи)
		cfg.categoryRanges[category] = model.MultiplierRange{
			Min: c.Min,
			Max: c.Max,
			Avg: (c.Min + c.Max) / 2,
		}
	}

	for name, chance := range g.Cascade.Chance {
		cfg.cascadeChance[model.PayoutCategory(name)] = chance
	}

	validateAdvisory(cfg)

	return cfg, nil
}

// validateAdvisory проверяет вероятностную модель.
// Система должна оставаться играбельной даже при кривом конфиге, поэтому только warning
func validateAdvisory(cfg *engineConfig) {
	var probSum, expectedValue float64
	for _, category := range model.CategoryOrder {
		p := cfg.categoryProbs[category]
		probSum += p
		expectedValue += p * cfg.categoryRanges[category].Avg
	}

	if math.Abs(probSum-1.0) > probSumTolerance {
		log.Printf("WARN: category probabilities sum to %.6f, expected 1.0", probSum)
	}

	if math.Abs(expectedValue-cfg.targetRTP) > rtpWarnTolerance {
		log.Printf("WARN: expected base multiplier %.4f deviates from target rtp %.4f", expectedValue, cfg.targetRTP)
	}
}

func (cfg *engineConfig) TargetRTP() float64 {
	return cfg.targetRTP
}

func (cfg *engineConfig) SymbolWeights() map[int]int {
	return cfg.symbolWeights
}

func (cfg *engineConfig) ClusterThreshold() int {
	return cfg.clusterThreshold
}

func (cfg *engineConfig) PayoutTable() map[int]map[int]float64 {
	return cfg.payoutTable
}

func (cfg *engineConfig) ScatterSymbols() []int {
	return cfg.scatterSymbols
}

func (cfg *engineConfig) ScatterTiers() map[int]float64 {
	return cfg.scatterTiers
}

func (cfg *engineConfig) CategoryProbs() map[model.PayoutCategory]float64 {
	return cfg.categoryProbs
}

func (cfg *engineConfig) CategoryRanges() map[model.PayoutCategory]model.MultiplierRange {
	return cfg.categoryRanges
}

func (cfg *engineConfig) CascadeChance() map[model.PayoutCategory]float64 {
	return cfg.cascadeChance
}

func (cfg *engineConfig) CascadeBonus() float64 {
	return cfg.cascadeBonus
}

func (cfg *engineConfig) Variance() config.VarianceTuning {
	return cfg.variance
}

func (cfg *engineConfig) Synthesis() config.SynthesisTuning {
	return cfg.synthesis
}
