package model

// Исход одного базового спина для скользящего окна
type OutcomeRecord struct {
	Won        bool
	Multiplier float64 // Реализованный множитель (payout/bet)
}

// VarianceState глобальное состояние дисперсии.
// Общее для всех игроков — честность не может быть персональной
type VarianceState struct {
	TotalSpins      int
	SpinsSinceReset int // Счетчик до периодического сброса накопленного отклонения

	Window []OutcomeRecord // Окно последних исходов для анализа

	LossStreak int // Текущая серия проигрышей подряд
	WinStreak  int // Текущая серия выигрышей подряд

	Deviation float64 // Накопленное отклонение множителя от ожидаемого
}
