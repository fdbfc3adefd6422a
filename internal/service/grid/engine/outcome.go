package engine

import "cluster_backend/internal/model"

// selectOutcome выбирает категорию и целевой множитель спина.
// Распределение обходится строго в порядке model.CategoryOrder —
// от порядка зависит соответствие бросков категориям
func (e *Engine) selectOutcome(isCascade bool) model.SpinOutcome {
	probs := e.stats.AdjustedProbabilities()
	draw := e.rng.Float64()

	category := model.CategoryOrder[len(model.CategoryOrder)-1]
	var cumulative float64
	for _, c := range model.CategoryOrder {
		cumulative += probs[c]
		if draw < cumulative {
			category = c
			break
		}
	}

	if category == model.CategoryLoss {
		return model.SpinOutcome{
			Category:  model.CategoryLoss,
			IsCascade: isCascade,
		}
	}

	// Целевой множитель равномерно из диапазона категории
	bounds := e.cfg.CategoryRanges()[category]
	multiplier := bounds.Min + e.rng.Float64()*(bounds.Max-bounds.Min)
	if isCascade {
		multiplier *= e.cfg.CascadeBonus()
	}

	return model.SpinOutcome{
		Category:   category,
		Multiplier: multiplier,
		IsCascade:  isCascade,
	}
}
