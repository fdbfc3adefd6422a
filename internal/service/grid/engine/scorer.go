package engine

import (
	"cluster_backend/internal/config"
	"cluster_backend/internal/model"
	"cluster_backend/pkg/money"
)

// Score считает выплату за поле: кластеры по всему полю плюс скаттеры.
// Кластер — это количество символа на всем поле без учета смежности.
// Чистая функция: никакой случайности и побочных эффектов
func Score(cfg config.EngineConfig, grid model.Grid, wager float64) (float64, []model.Position) {
	counts := make(map[int]int)
	for c := 0; c < model.GridCols; c++ {
		for r := 0; r < model.GridRows; r++ {
			counts[grid[c][r]]++
		}
	}

	scatters := make(map[int]bool, len(cfg.ScatterSymbols()))
	for _, sym := range cfg.ScatterSymbols() {
		scatters[sym] = true
	}

	var total float64
	winningSyms := make(map[int]bool)

	// Кластерные выплаты: порог и ведро по количеству
	threshold := cfg.ClusterThreshold()
	payTable := cfg.PayoutTable()
	for sym, cnt := range counts {
		if scatters[sym] || cnt < threshold {
			continue
		}
		mult := bucketMultiplier(payTable[sym], cnt)
		if mult <= 0 {
			continue
		}
		total += wager * mult
		winningSyms[sym] = true
	}

	// Скаттеры считаются по всему полю, выплата аддитивна к кластерам
	scatterTiers := cfg.ScatterTiers()
	for sym := range scatters {
		if mult := tierMultiplier(scatterTiers, counts[sym]); mult > 0 {
			total += wager * mult
			winningSyms[sym] = true
		}
	}

	// Выигрышные ячейки в фиксированном порядке обхода поля
	var cells []model.Position
	for c := 0; c < model.GridCols; c++ {
		for r := 0; r < model.GridRows; r++ {
			if winningSyms[grid[c][r]] {
				cells = append(cells, model.Position{Col: c, Row: r})
			}
		}
	}

	return money.FloorCents(total), cells
}

// bucketMultiplier множитель самого высокого достигнутого ведра.
// Ведра строго доминируют: больше символов — не меньше множитель
func bucketMultiplier(buckets map[int]float64, count int) float64 {
	best := -1
	var mult float64
	for th, m := range buckets {
		if count >= th && th > best {
			best = th
			mult = m
		}
	}
	return mult
}

// tierMultiplier плоский множитель самого высокого достигнутого порога скаттеров
func tierMultiplier(tiers map[int]float64, count int) float64 {
	best := -1
	var mult float64
	for th, m := range tiers {
		if count >= th && th > best {
			best = th
			mult = m
		}
	}
	return mult
}
