package engine

import (
	"math"
	"sort"

	"cluster_backend/internal/config"
	"cluster_backend/internal/model"
)

const (
	// Пределы повторов синтеза. Циклы всегда ограничены — бесконечных ретраев нет
	lossGridRetries  = 20
	lossCellAttempts = 10
	constructRetries = 8

	// Вероятность пропустить опцию при сборке плана — чтобы поля не были однообразными
	planSkipChance = 0.25
)

// synthesize подбирает поле под целевой множитель.
// Никогда не падает: у каждого пути есть лестница фолбэков
func (e *Engine) synthesize(wager, target float64) (model.Grid, float64, []model.Position) {
	if target <= 0 {
		return e.synthesizeLoss(wager)
	}
	return e.synthesizeWin(wager, target)
}

// synthesizeLoss генерирует гарантированно проигрышное поле
func (e *Engine) synthesizeLoss(wager float64) (model.Grid, float64, []model.Position) {
	for attempt := 0; attempt < lossGridRetries; attempt++ {
		grid := e.fillLossGrid()
		payout, _ := Score(e.cfg, grid, wager)
		if payout == 0 {
			return grid, 0, nil
		}
	}

	// Сюда попадать не должны: ограниченная заливка не собирает выигрышных количеств.
	// Финальный фолбэк — обычное случайное поле
	grid := e.randomGrid()
	payout, cells := Score(e.cfg, grid, wager)
	return grid, payout, cells
}

// fillLossGrid заполняет поле взвешенным розыгрышем, отклоняя символы,
// которые довели бы свое количество до выигрышного порога
func (e *Engine) fillLossGrid() model.Grid {
	var grid model.Grid
	counts := make(map[int]int)

	clusterLimit := e.cfg.ClusterThreshold() - 1
	scatterLimit := minScatterTier(e.cfg.ScatterTiers()) - 1

	for c := 0; c < model.GridCols; c++ {
		for r := 0; r < model.GridRows; r++ {
			sym := -1
			for attempt := 0; attempt < lossCellAttempts; attempt++ {
				candidate := e.drawSymbol()
				limit := clusterLimit
				if e.scatterSet[candidate] {
					limit = scatterLimit
				}
				if counts[candidate] < limit {
					sym = candidate
					break
				}
			}
			// Попытки кончились — берем наименее занятый обычный символ,
			// он заведомо далеко от порога
			if sym == -1 {
				sym = e.leastUsedRegular(counts)
			}
			grid[c][r] = sym
			counts[sym]++
		}
	}

	return grid
}

// leastUsedRegular наименее использованный обычный символ
func (e *Engine) leastUsedRegular(counts map[int]int) int {
	best := -1
	bestCount := model.GridCols*model.GridRows + 1
	for _, sym := range e.symbols {
		if e.scatterSet[sym] {
			continue
		}
		if counts[sym] < bestCount {
			best = sym
			bestCount = counts[sym]
		}
	}
	return best
}

// synthesizeWin ищет поле с выплатой около целевого множителя.
// Лестница: быстрый акцепт -> лучший кандидат в допуске -> конструктивная сборка ->
// любое выигрышное поле -> случайное поле. Для крупных целей бюджет попыток
// и допуск шире: точное попадание в редкий множитель перебором почти недостижимо
func (e *Engine) synthesizeWin(wager, target float64) (model.Grid, float64, []model.Position) {
	band := e.bandFor(target)
	quickTol := e.cfg.Synthesis().QuickTolerance

	var (
		bestGrid   model.Grid
		bestPayout float64
		bestCells  []model.Position
		bestErr    = math.Inf(1)
	)

	for trial := 0; trial < band.Trials; trial++ {
		grid := e.randomGrid()
		payout, cells := Score(e.cfg, grid, wager)
		if payout <= 0 {
			continue
		}

		relErr := math.Abs(payout/wager-target) / target
		if relErr <= quickTol {
			return grid, payout, cells
		}
		if relErr < bestErr {
			bestGrid, bestPayout, bestCells, bestErr = grid, payout, cells, relErr
		}
	}

	if bestErr <= band.Tolerance {
		return bestGrid, bestPayout, bestCells
	}

	// Крупные цели собираем из таблицы выплат напрямую
	if target > e.cfg.Synthesis().ConstructAbove {
		if grid, payout, cells, ok := e.constructWin(wager, target); ok {
			return grid, payout, cells
		}
	}

	// Любое выигрышное поле лучше отказа: принимаем большее статистическое
	// отклонение, закон больших чисел выровняет его на дистанции
	if bestPayout > 0 {
		return bestGrid, bestPayout, bestCells
	}

	if grid, payout, cells, ok := e.constructWin(wager, target); ok {
		return grid, payout, cells
	}

	grid := e.randomGrid()
	payout, cells := Score(e.cfg, grid, wager)
	return grid, payout, cells
}

// bandFor бюджет и допуск для класса целевого множителя
func (e *Engine) bandFor(target float64) config.SynthesisBand {
	ladder := e.cfg.Synthesis().Ladder
	for _, band := range ladder {
		if target <= band.MaxTarget {
			return band
		}
	}
	return ladder[len(ladder)-1]
}

// contribution один вклад в план поля: count ячеек символа sym дают множитель mult
type contribution struct {
	sym   int
	count int
	mult  float64
}

// constructWin собирает выигрышное поле напрямую из таблицы выплат —
// для целей, до которых случайный перебор не дотягивается
func (e *Engine) constructWin(wager, target float64) (model.Grid, float64, []model.Position, bool) {
	for attempt := 0; attempt < constructRetries; attempt++ {
		plan := e.planWin(target)
		if len(plan) == 0 {
			continue
		}
		grid, ok := e.layoutPlan(plan)
		if !ok {
			continue
		}
		payout, cells := Score(e.cfg, grid, wager)
		if payout > 0 {
			return grid, payout, cells, true
		}
	}

	var zero model.Grid
	return zero, 0, nil, false
}

// options все доступные вклады: ведра кластеров и пороги скаттеров.
// Отсортированы по убыванию множителя
func (e *Engine) options() []contribution {
	var opts []contribution

	for sym, buckets := range e.cfg.PayoutTable() {
		for th, mult := range buckets {
			opts = append(opts, contribution{sym: sym, count: th, mult: mult})
		}
	}
	for _, sym := range e.cfg.ScatterSymbols() {
		for th, mult := range e.cfg.ScatterTiers() {
			opts = append(opts, contribution{sym: sym, count: th, mult: mult})
		}
	}

	sort.Slice(opts, func(i, j int) bool {
		if opts[i].mult != opts[j].mult {
			return opts[i].mult > opts[j].mult
		}
		if opts[i].sym != opts[j].sym {
			return opts[i].sym < opts[j].sym
		}
		return opts[i].count > opts[j].count
	})

	return opts
}

// planWin жадно набирает вклады под целевой множитель.
// Каждый символ используется не больше одного раза, суммарные ячейки должны
// влезать в поле и оставлять место для безопасного заполнения остатка
func (e *Engine) planWin(target float64) []contribution {
	opts := e.options()

	var plan []contribution
	used := make(map[int]bool)
	remaining := target
	plannedCells := 0

	feasible := func(c contribution) bool {
		if used[c.sym] {
			return false
		}
		newPlanned := plannedCells + c.count
		if newPlanned > model.GridCols*model.GridRows {
			return false
		}
		return e.fillerFits(newPlanned, used, c.sym)
	}

	for _, opt := range opts {
		if opt.mult > remaining || !feasible(opt) {
			continue
		}
		// Небольшая случайность в составе плана
		if len(plan) > 0 && e.rng.Float64() < planSkipChance {
			continue
		}
		plan = append(plan, opt)
		used[opt.sym] = true
		plannedCells += opt.count
		remaining -= opt.mult
	}

	// Недобор: добираем одной опцией с перелетом, если это сокращает ошибку
	if remaining > 0 {
		var best *contribution
		for i := range opts {
			opt := opts[i]
			if !feasible(opt) {
				continue
			}
			if math.Abs(opt.mult-remaining) < remaining {
				if best == nil || math.Abs(opt.mult-remaining) < math.Abs(best.mult-remaining) {
					best = &opt
				}
			}
		}
		if best != nil {
			plan = append(plan, *best)
			used[best.sym] = true
			plannedCells += best.count
		}
	}

	// План не может быть пустым: берем самую крупную влезающую опцию
	if len(plan) == 0 {
		for _, opt := range opts {
			if opt.count <= model.GridCols*model.GridRows && e.fillerFits(opt.count, map[int]bool{}, opt.sym) {
				plan = append(plan, opt)
				break
			}
		}
	}

	return plan
}

// fillerFits проверяет, что остаток поля можно забить обычными символами,
// не создав нового кластера (каждому свободному символу до порога)
func (e *Engine) fillerFits(plannedCells int, used map[int]bool, extra int) bool {
	fillerCells := model.GridCols*model.GridRows - plannedCells
	if fillerCells == 0 {
		return true
	}

	unused := 0
	for _, sym := range e.symbols {
		if e.scatterSet[sym] || used[sym] || sym == extra {
			continue
		}
		unused++
	}
	return fillerCells <= unused*(e.cfg.ClusterThreshold()-1)
}

// layoutPlan раскладывает план по полю: запланированные символы на случайные
// позиции, остаток заполняется свободными символами ниже порога
func (e *Engine) layoutPlan(plan []contribution) (model.Grid, bool) {
	totalCells := model.GridCols * model.GridRows

	// Перемешиваем позиции (Фишер-Йетс на инжектированном источнике)
	positions := make([]int, totalCells)
	for i := range positions {
		positions[i] = i
	}
	for i := totalCells - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		positions[i], positions[j] = positions[j], positions[i]
	}

	cells := make([]int, totalCells)
	for i := range cells {
		cells[i] = -1
	}

	used := make(map[int]bool, len(plan))
	idx := 0
	for _, c := range plan {
		used[c.sym] = true
		for k := 0; k < c.count; k++ {
			if idx >= totalCells {
				var zero model.Grid
				return zero, false
			}
			cells[positions[idx]] = c.sym
			idx++
		}
	}

	// Заполнение остатка: свободные обычные символы, каждый до порога
	fillerLimit := e.cfg.ClusterThreshold() - 1
	var filler []int
	for _, sym := range e.symbols {
		if !e.scatterSet[sym] && !used[sym] {
			filler = append(filler, sym)
		}
	}
	if len(filler) == 0 && idx < totalCells {
		var zero model.Grid
		return zero, false
	}

	fillerIdx, fillerUsed := 0, 0
	for i := range cells {
		if cells[i] != -1 {
			continue
		}
		if fillerUsed >= fillerLimit {
			fillerIdx++
			fillerUsed = 0
			if fillerIdx >= len(filler) {
				var zero model.Grid
				return zero, false
			}
		}
		cells[i] = filler[fillerIdx]
		fillerUsed++
	}

	var grid model.Grid
	for i, sym := range cells {
		grid[i/model.GridRows][i%model.GridRows] = sym
	}
	return grid, true
}

// minScatterTier самый низкий выигрышный порог скаттеров
func minScatterTier(tiers map[int]float64) int {
	best := -1
	for th := range tiers {
		if best == -1 || th < best {
			best = th
		}
	}
	return best
}
