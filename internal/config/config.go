package config

import (
	"time"

	"cluster_backend/internal/model"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// EngineConfig конфигурация движка кластерных выплат.
// Загружается один раз на старте процесса и дальше не меняется
type EngineConfig interface {
	TargetRTP() float64

	SymbolWeights() map[int]int
	ClusterThreshold() int
	PayoutTable() map[int]map[int]float64 // символ -> порог ведра -> множитель
	ScatterSymbols() []int
	ScatterTiers() map[int]float64 // количество скаттеров -> плоский множитель

	CategoryProbs() map[model.PayoutCategory]float64
	CategoryRanges() map[model.PayoutCategory]model.MultiplierRange

	CascadeChance() map[model.PayoutCategory]float64
	CascadeBonus() float64

	Variance() VarianceTuning
	Synthesis() SynthesisTuning
}

// VarianceTuning константы регулировки дисперсии
type VarianceTuning struct {
	WindowSize         int     `yaml:"window_size"`
	ResetAfterSpins    int     `yaml:"reset_after_spins"`
	ClusterStrength    float64 `yaml:"cluster_strength"`
	NudgeUpFraction    float64 `yaml:"nudge_up_fraction"`
	NudgeDownFraction  float64 `yaml:"nudge_down_fraction"`
	DryStreakThreshold int     `yaml:"dry_streak_threshold"`
	DryStreakBonus     float64 `yaml:"dry_streak_bonus"`
	DryStreakDecay     float64 `yaml:"dry_streak_decay"`
	LossProbFloor      float64 `yaml:"loss_prob_floor"`
	LossProbCeil       float64 `yaml:"loss_prob_ceil"`
}

// SynthesisBand бюджет попыток и допуск для класса целевых множителей
type SynthesisBand struct {
	MaxTarget float64 `yaml:"max_target"`
	Trials    int     `yaml:"trials"`
	Tolerance float64 `yaml:"tolerance"`
}

// SynthesisTuning параметры подбора поля.
// Константы эмпирические (см. config.yaml) — правятся конфигом, не кодом
type SynthesisTuning struct {
	QuickTolerance float64         `yaml:"quick_tolerance"`
	Ladder         []SynthesisBand `yaml:"ladder"`
	ConstructAbove float64         `yaml:"construct_above"`
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}
