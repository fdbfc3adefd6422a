package model

import "time"

// Размеры игрового поля
const (
	GridCols = 6
	GridRows = 5
)

// Grid игровое поле 6x5 (колонки x строки). После синтеза не меняется
type Grid [GridCols][GridRows]int

// Position координата ячейки на поле
type Position struct {
	Col int
	Row int
}

// PayoutCategory категория исхода спина
type PayoutCategory string

const (
	CategoryLoss      PayoutCategory = "loss"
	CategorySmallWin  PayoutCategory = "smallWin"
	CategoryMediumWin PayoutCategory = "mediumWin"
	CategoryLargeWin  PayoutCategory = "largeWin"
	CategoryJackpot   PayoutCategory = "jackpot"
)

// CategoryOrder фиксированный порядок обхода категорий при выборе исхода.
// От порядка зависит, какой случайный бросок попадает в какую категорию —
// менять нельзя, иначе ломается воспроизводимость на сиде
var CategoryOrder = []PayoutCategory{
	CategoryLoss,
	CategorySmallWin,
	CategoryMediumWin,
	CategoryLargeWin,
	CategoryJackpot,
}

// MultiplierRange диапазон множителей категории
type MultiplierRange struct {
	Min float64
	Max float64
	Avg float64 // Средний множитель для расчета ожидаемой отдачи
}

// SpinOutcome результат выбора исхода (до синтеза поля)
type SpinOutcome struct {
	Category   PayoutCategory
	Multiplier float64 // Целевой множитель (0 для проигрыша)
	IsCascade  bool    // Исход получен как каскадное продолжение
}

// CascadeResult один каскадный доспин в цепочке
type CascadeResult struct {
	Grid         Grid
	Payout       float64
	WinningCells []Position
	Category     PayoutCategory
}

// SpinResult полный результат одного спина движка
type SpinResult struct {
	Grid          Grid
	Payout        float64 // Выплата за базовое поле
	WinningCells  []Position
	Category      PayoutCategory
	Cascades      []CascadeResult // 0..2 каскадных доспинов
	CascadePayout float64         // Сумма выплат по каскадам
	TotalPayout   float64         // Базовая выплата + каскады
}

// VarianceSnapshot срез состояния дисперсии для мониторинга
type VarianceSnapshot struct {
	TotalSpins    int
	WindowLen     int
	RecentWinRate float64
	LossStreak    int
	WinStreak     int
	Deviation     float64
}

// GridSpin запрос на спин от сервисного слоя
type GridSpin struct {
	Bet float64
}

// GridSpinResult результат спина вместе с балансом пользователя
type GridSpinResult struct {
	SpinResult
	Balance float64
}

// GridData данные пользователя для фронта
type GridData struct {
	Balance float64
}

// SpinRecord запись о спине для истории
type SpinRecord struct {
	ID           int
	UserID       int
	Bet          float64
	Payout       float64
	Category     PayoutCategory
	CascadeCount int
	CreatedAt    time.Time
}
