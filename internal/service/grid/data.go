package grid

import (
	"context"
	"errors"

	"cluster_backend/internal/middleware"
	"cluster_backend/internal/model"
	"cluster_backend/pkg/money"
)

const historyDefaultLimit = 50

// Deposit пополняет баланс пользователя
func (s *serv) Deposit(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return errors.New("deposit amount must be positive")
	}

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return errors.New("user id not found in context")
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		balance, err := s.userRepo.GetBalance(txCtx, userID)
		if err != nil {
			return errors.New("failed to get user balance")
		}

		balance += money.ToCents(amount)
		if err := s.userRepo.UpdateBalance(txCtx, userID, balance); err != nil {
			return errors.New("failed to update user balance")
		}

		return nil
	})
}

// CheckData возвращает данные пользователя для фронта
func (s *serv) CheckData(ctx context.Context) (*model.GridData, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, errors.New("failed to get user balance")
	}

	return &model.GridData{
		Balance: money.FromCents(balance),
	}, nil
}

// History возвращает последние спины пользователя
func (s *serv) History(ctx context.Context, limit int) ([]model.SpinRecord, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	if limit <= 0 || limit > historyDefaultLimit {
		limit = historyDefaultLimit
	}

	return s.historyRepo.ListByUser(ctx, userID, limit)
}

// Probabilities текущее скорректированное распределение категорий
func (s *serv) Probabilities() map[model.PayoutCategory]float64 {
	return s.engine.Probabilities()
}

// Variance срез состояния дисперсии для мониторинга серий
func (s *serv) Variance() model.VarianceSnapshot {
	return s.engine.Variance()
}
