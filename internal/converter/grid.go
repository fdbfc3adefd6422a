package converter

import (
	dto "cluster_backend/internal/api/dto/grid"
	"cluster_backend/internal/model"
)

func ToGridSpin(req dto.GridSpinRequest) model.GridSpin {
	return model.GridSpin{
		Bet: req.Bet,
	}
}

func ToGridSpinResponse(res model.GridSpinResult) dto.GridSpinResponse {
	return dto.GridSpinResponse{
		Grid:          res.Grid,
		Payout:        res.Payout,
		WinningCells:  toPositions(res.WinningCells),
		Category:      string(res.Category),
		Cascades:      toCascades(res.Cascades),
		CascadePayout: res.CascadePayout,
		TotalPayout:   res.TotalPayout,
		Balance:       res.Balance,
	}
}

func toCascades(cascades []model.CascadeResult) []dto.CascadeResult {
	result := make([]dto.CascadeResult, len(cascades))
	for i, c := range cascades {
		result[i] = dto.CascadeResult{
			Grid:         c.Grid,
			Payout:       c.Payout,
			WinningCells: toPositions(c.WinningCells),
			Category:     string(c.Category),
		}
	}
	return result
}

func toPositions(cells []model.Position) []dto.Position {
	result := make([]dto.Position, len(cells))
	for i, cell := range cells {
		result[i] = dto.Position{Col: cell.Col, Row: cell.Row}
	}
	return result
}

func ToDataResponse(data model.GridData) dto.DataResponse {
	return dto.DataResponse{
		Balance: data.Balance,
	}
}

func ToHistoryResponse(records []model.SpinRecord) dto.HistoryResponse {
	result := dto.HistoryResponse{
		Records: make([]dto.SpinRecord, len(records)),
	}
	for i, rec := range records {
		result.Records[i] = dto.SpinRecord{
			ID:           rec.ID,
			Bet:          rec.Bet,
			Payout:       rec.Payout,
			Category:     string(rec.Category),
			CascadeCount: rec.CascadeCount,
			CreatedAt:    rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return result
}

func ToProbabilitiesResponse(probs map[model.PayoutCategory]float64) dto.ProbabilitiesResponse {
	result := dto.ProbabilitiesResponse{
		Probabilities: make(map[string]float64, len(probs)),
	}
	for category, p := range probs {
		result.Probabilities[string(category)] = p
	}
	return result
}

func ToVarianceResponse(snapshot model.VarianceSnapshot) dto.VarianceResponse {
	return dto.VarianceResponse{
		TotalSpins:    snapshot.TotalSpins,
		WindowLen:     snapshot.WindowLen,
		RecentWinRate: snapshot.RecentWinRate,
		LossStreak:    snapshot.LossStreak,
		WinStreak:     snapshot.WinStreak,
		Deviation:     snapshot.Deviation,
	}
}
