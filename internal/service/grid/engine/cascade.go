package engine

import (
	"cluster_backend/internal/model"
	"cluster_backend/pkg/money"
)

// Жесткий предел цепочки каскадов на спин: ограничивает и латентность,
// и дисперсию выплат
const maxCascadeChain = 2

// maybeCascade разыгрывает каскадные доспины после выигрышного базового исхода.
// Шанс каскада зависит от размера базового выигрыша: крупные каскадят чаще
func (e *Engine) maybeCascade(wager float64, baseCategory model.PayoutCategory) []model.CascadeResult {
	if baseCategory == model.CategoryLoss {
		return nil
	}

	var chain []model.CascadeResult
	e.cascadeStep(wager, baseCategory, maxCascadeChain, &chain)
	return chain
}

// cascadeStep один шаг цепочки. Каждое продолжение получает строго меньший
// запас, так что длина цепочки не превышает maxCascadeChain
func (e *Engine) cascadeStep(wager float64, category model.PayoutCategory, allowance int, chain *[]model.CascadeResult) {
	if allowance <= 0 {
		return
	}

	chance := e.cfg.CascadeChance()[category]
	if e.rng.Float64() >= chance {
		return
	}

	outcome := e.selectOutcome(true)
	grid, payout, cells := e.synthesize(wager, outcome.Multiplier)
	payout = money.FloorCents(payout)

	*chain = append(*chain, model.CascadeResult{
		Grid:         grid,
		Payout:       payout,
		WinningCells: cells,
		Category:     outcome.Category,
	})

	// Проигрышный каскад цепочку не продолжает
	if outcome.Category == model.CategoryLoss {
		return
	}

	e.cascadeStep(wager, outcome.Category, allowance-1, chain)
}
