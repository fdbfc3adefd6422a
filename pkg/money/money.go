package money

import "github.com/shopspring/decimal"

// FloorCents округляет сумму вниз до 2 знаков (усечение, никогда вверх).
// Единая точка округления: базовая выплата, каждый каскад и итог
// округляются только через нее, чтобы не накапливать дрейф float
func FloorCents(v float64) float64 {
	return decimal.NewFromFloat(v).RoundFloor(2).InexactFloat64()
}

// ToCents перевод суммы в центы для хранения баланса в БД
func ToCents(v float64) int64 {
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromCents обратный перевод из центов
func FromCents(c int64) float64 {
	return decimal.New(c, -2).InexactFloat64()
}
