package service

import (
	"context"

	"cluster_backend/internal/model"
)

type GridService interface {
	Spin(ctx context.Context, spinReq model.GridSpin) (*model.GridSpinResult, error)
	Deposit(ctx context.Context, amount float64) error
	CheckData(ctx context.Context) (*model.GridData, error)
	History(ctx context.Context, limit int) ([]model.SpinRecord, error)

	// Диагностика движка (read-only)
	Probabilities() map[model.PayoutCategory]float64
	Variance() model.VarianceSnapshot
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, login, password string) (*model.AuthData, error)
	Refresh(ctx context.Context, sessionID, refreshToken string) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
}
