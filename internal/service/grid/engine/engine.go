package engine

import (
	"errors"
	"math"
	"sort"

	"cluster_backend/internal/config"
	"cluster_backend/internal/model"
	"cluster_backend/internal/repository"
	"cluster_backend/pkg/money"
	"cluster_backend/pkg/rng"
)

// Engine ядро исходов: выбор категории, синтез поля, каскады, учет дисперсии.
// Само по себе без состояния — все разделяемое живет в трекере дисперсии,
// поэтому один Engine безопасно дергать из множества горутин
type Engine struct {
	cfg   config.EngineConfig
	stats repository.GridStatsRepository
	rng   rng.Source

	// Предрасчет для взвешенного розыгрыша символов.
	// Символы отсортированы, чтобы розыгрыш был детерминирован на сиде
	symbols     []int
	weights     []int
	totalWeight int
	scatterSet  map[int]bool
}

// New создает движок. Источник случайности инжектится (nil = глобальный)
func New(cfg config.EngineConfig, stats repository.GridStatsRepository, src rng.Source) *Engine {
	if src == nil {
		src = rng.Default()
	}

	e := &Engine{
		cfg:        cfg,
		stats:      stats,
		rng:        src,
		scatterSet: make(map[int]bool, len(cfg.ScatterSymbols())),
	}

	for sym := range cfg.SymbolWeights() {
		e.symbols = append(e.symbols, sym)
	}
	sort.Ints(e.symbols)
	for _, sym := range e.symbols {
		w := cfg.SymbolWeights()[sym]
		e.weights = append(e.weights, w)
		e.totalWeight += w
	}

	for _, sym := range cfg.ScatterSymbols() {
		e.scatterSet[sym] = true
	}

	return e
}

// Spin выполняет один полный спин: выбор исхода, синтез поля, каскады,
// запись базового исхода в трекер дисперсии
func (e *Engine) Spin(wager float64) (*model.SpinResult, error) {
	// Невалидная ставка отклоняется до того, как потрачен хоть один бросок
	if wager <= 0 || math.IsNaN(wager) || math.IsInf(wager, 0) {
		return nil, errors.New("wager must be positive and finite")
	}

	outcome := e.selectOutcome(false)
	grid, payout, cells := e.synthesize(wager, outcome.Multiplier)
	payout = money.FloorCents(payout)

	cascades := e.maybeCascade(wager, outcome.Category)
	var cascadeTotal float64
	for _, c := range cascades {
		cascadeTotal += c.Payout
	}
	cascadeTotal = money.FloorCents(cascadeTotal)

	// Только базовый исход идет в статистику
	e.stats.RecordOutcome(payout > 0, payout/wager)

	return &model.SpinResult{
		Grid:          grid,
		Payout:        payout,
		WinningCells:  cells,
		Category:      outcome.Category,
		Cascades:      cascades,
		CascadePayout: cascadeTotal,
		TotalPayout:   money.FloorCents(payout + cascadeTotal),
	}, nil
}

// Probabilities текущее скорректированное распределение категорий (диагностика)
func (e *Engine) Probabilities() map[model.PayoutCategory]float64 {
	return e.stats.AdjustedProbabilities()
}

// Variance срез состояния дисперсии (мониторинг серий)
func (e *Engine) Variance() model.VarianceSnapshot {
	return e.stats.Snapshot()
}

// drawSymbol взвешенный розыгрыш одного символа
func (e *Engine) drawSymbol() int {
	n := e.rng.Intn(e.totalWeight)
	for i, w := range e.weights {
		if n < w {
			return e.symbols[i]
		}
		n -= w
	}
	return e.symbols[0]
}

// randomGrid заполняет поле без ограничений
func (e *Engine) randomGrid() model.Grid {
	var grid model.Grid
	for c := 0; c < model.GridCols; c++ {
		for r := 0; r < model.GridRows; r++ {
			grid[c][r] = e.drawSymbol()
		}
	}
	return grid
}
