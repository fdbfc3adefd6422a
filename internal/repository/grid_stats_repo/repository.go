package grid_stats_repo

import (
	"sync"

	"cluster_backend/internal/config"
	"cluster_backend/internal/model"
	repoModel "cluster_backend/internal/repository/grid_stats_repo/model"
)

// Доли бонуса сухой серии между крупным выигрышем и джекпотом
const (
	dryBonusLargeShare   = 0.7
	dryBonusJackpotShare = 0.3
)

// Реализация трекера дисперсии: скользящее окно исходов, серии, накопленное отклонение.
// Состояние одно на процесс, доступ закрыт мьютексом — спины идут конкурентно
type StatsRepo struct {
	mtx   sync.RWMutex
	cfg   config.EngineConfig
	state repoModel.VarianceState

	// Предрасчитано из конфига на старте
	expectedMultiplier float64
	baseWinRate        float64
}

// NewGridStatsRepository Конструктор трекера с начальным (пустым) состоянием
func NewGridStatsRepository(cfg config.EngineConfig) *StatsRepo {
	var expected float64
	for category, p := range cfg.CategoryProbs() {
		expected += p * cfg.CategoryRanges()[category].Avg
	}

	return &StatsRepo{
		cfg:                cfg,
		expectedMultiplier: expected,
		baseWinRate:        1 - cfg.CategoryProbs()[model.CategoryLoss],
		state: repoModel.VarianceState{
			Window: make([]repoModel.OutcomeRecord, 0, cfg.Variance().WindowSize),
		},
	}
}

// RecordOutcome фиксирует базовый исход спина.
// Каскадные доспины сюда не попадают, чтобы не задваивать статистику
func (r *StatsRepo) RecordOutcome(wasWin bool, multiplier float64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	tuning := r.cfg.Variance()

	r.state.TotalSpins++
	r.state.SpinsSinceReset++

	// Добавляем исход в окно, старые вытесняются
	r.state.Window = append(r.state.Window, repoModel.OutcomeRecord{
		Won:        wasWin,
		Multiplier: multiplier,
	})
	if len(r.state.Window) > tuning.WindowSize {
		r.state.Window = r.state.Window[1:]
	}

	// Серии взаимно сбрасывают друг друга
	if wasWin {
		r.state.WinStreak++
		r.state.LossStreak = 0
	} else {
		r.state.LossStreak++
		r.state.WinStreak = 0
	}

	r.state.Deviation += multiplier - r.expectedMultiplier

	// Периодический сброс, чтобы накопленное отклонение не дрейфовало бесконечно
	if r.state.SpinsSinceReset >= tuning.ResetAfterSpins {
		r.state.SpinsSinceReset = 0
		r.state.Deviation = 0
	}
}

// AdjustedProbabilities возвращает скорректированное распределение категорий.
// Чтение не меняет состояние: повторные вызовы без RecordOutcome дают тот же результат.
// Категории не добавляются и не убираются — меняются только веса
func (r *StatsRepo) AdjustedProbabilities() map[model.PayoutCategory]float64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	tuning := r.cfg.Variance()

	probs := make(map[model.PayoutCategory]float64, len(model.CategoryOrder))
	for category, p := range r.cfg.CategoryProbs() {
		probs[category] = p
	}

	recentWinRate := r.recentWinRateLocked()
	baseLoss := probs[model.CategoryLoss]
	loss := baseLoss

	if r.state.LossStreak >= tuning.DryStreakThreshold {
		// Компенсация сухой серии: снижаем вероятность проигрыша и
		// поднимаем крупные категории. Величина бонуса затухает с ростом серии
		excess := r.state.LossStreak - tuning.DryStreakThreshold
		bonus := tuning.DryStreakBonus * (1 - tuning.DryStreakDecay*float64(excess))
		if bonus < 0 {
			bonus = 0
		}

		loss -= bonus
		if loss < tuning.LossProbFloor {
			loss = tuning.LossProbFloor
		}
		applied := baseLoss - loss

		probs[model.CategoryLargeWin] += applied * dryBonusLargeShare
		probs[model.CategoryJackpot] += applied * dryBonusJackpotShare
	} else {
		// Кластеризация: выигрыши шли часто — поднимаем вероятность проигрыша,
		// выигрышей давно не было — опускаем. Клампы против убегания
		delta := (recentWinRate - r.baseWinRate) * tuning.ClusterStrength
		if delta > 0 {
			loss += delta * tuning.NudgeUpFraction
			if loss > tuning.LossProbCeil {
				loss = tuning.LossProbCeil
			}
		} else {
			loss += delta * tuning.NudgeDownFraction
			if loss < tuning.LossProbFloor {
				loss = tuning.LossProbFloor
			}
		}
	}

	probs[model.CategoryLoss] = loss

	// Ренормализация: не-loss категории масштабируются под остаток так,
	// чтобы сумма была ровно 1
	var nonLossSum float64
	for _, category := range model.CategoryOrder {
		if category == model.CategoryLoss {
			continue
		}
		nonLossSum += probs[category]
	}
	if nonLossSum > 0 {
		factor := (1 - loss) / nonLossSum
		for _, category := range model.CategoryOrder {
			if category == model.CategoryLoss {
				continue
			}
			probs[category] *= factor
		}
	}

	return probs
}

// Snapshot срез состояния для мониторинга
func (r *StatsRepo) Snapshot() model.VarianceSnapshot {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return model.VarianceSnapshot{
		TotalSpins:    r.state.TotalSpins,
		WindowLen:     len(r.state.Window),
		RecentWinRate: r.recentWinRateLocked(),
		LossStreak:    r.state.LossStreak,
		WinStreak:     r.state.WinStreak,
		Deviation:     r.state.Deviation,
	}
}

// recentWinRateLocked винрейт по окну; при пустом окне — базовый из конфига
func (r *StatsRepo) recentWinRateLocked() float64 {
	if len(r.state.Window) == 0 {
		return r.baseWinRate
	}

	wins := 0
	for _, rec := range r.state.Window {
		if rec.Won {
			wins++
		}
	}
	return float64(wins) / float64(len(r.state.Window))
}
