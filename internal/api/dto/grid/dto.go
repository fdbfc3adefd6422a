package grid

type GridSpinRequest struct {
	Bet float64 `json:"bet"` // Размер ставки (положительное число)
}

type Position struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

type CascadeResult struct {
	Grid         [6][5]int  `json:"grid"`          // Поле каскадного доспина
	Payout       float64    `json:"payout"`        // Выплата каскада
	WinningCells []Position `json:"winning_cells"` // Выигрышные ячейки
	Category     string     `json:"category"`      // Категория исхода каскада
}

type GridSpinResponse struct {
	Grid          [6][5]int       `json:"grid"`           // Базовое поле
	Payout        float64         `json:"payout"`         // Выплата за базовое поле
	WinningCells  []Position      `json:"winning_cells"`  // Выигрышные ячейки
	Category      string          `json:"category"`       // Категория базового исхода
	Cascades      []CascadeResult `json:"cascades"`       // Каскадные доспины (0-2)
	CascadePayout float64         `json:"cascade_payout"` // Сумма выплат по каскадам
	TotalPayout   float64         `json:"total_payout"`   // Общая выплата
	Balance       float64         `json:"balance"`        // Баланс после спина
}

type DepositRequest struct {
	Amount float64 `json:"amount"` // Сумма депозита
}

type DataResponse struct {
	Balance float64 `json:"balance"` // Баланс пользователя
}

type SpinRecord struct {
	ID           int     `json:"id"`
	Bet          float64 `json:"bet"`
	Payout       float64 `json:"payout"`
	Category     string  `json:"category"`
	CascadeCount int     `json:"cascade_count"`
	CreatedAt    string  `json:"created_at"`
}

type HistoryResponse struct {
	Records []SpinRecord `json:"records"`
}

type ProbabilitiesResponse struct {
	Probabilities map[string]float64 `json:"probabilities"` // Категория -> скорректированная вероятность
}

type VarianceResponse struct {
	TotalSpins    int     `json:"total_spins"`
	WindowLen     int     `json:"window_len"`
	RecentWinRate float64 `json:"recent_win_rate"`
	LossStreak    int     `json:"loss_streak"`
	WinStreak     int     `json:"win_streak"`
	Deviation     float64 `json:"deviation"`
}
