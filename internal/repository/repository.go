package repository

import (
	"context"

	"cluster_backend/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)

	GetBalance(ctx context.Context, id int) (int64, error)
	UpdateBalance(ctx context.Context, id int, amount int64) error
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshToken string, err error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}

type SpinHistoryRepository interface {
	CreateRecord(ctx context.Context, record *model.SpinRecord) error
	ListByUser(ctx context.Context, userID int, limit int) ([]model.SpinRecord, error)
}

// GridStatsRepository трекер дисперсии: общее на процесс скользящее окно исходов.
// Единственное разделяемое изменяемое состояние движка
type GridStatsRepository interface {
	RecordOutcome(wasWin bool, multiplier float64)
	AdjustedProbabilities() map[model.PayoutCategory]float64
	Snapshot() model.VarianceSnapshot
}
