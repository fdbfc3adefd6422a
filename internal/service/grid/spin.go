package grid

import (
	"context"
	"errors"

	"cluster_backend/internal/middleware"
	"cluster_backend/internal/model"
	"cluster_backend/pkg/money"
)

// Spin выполняет спин с учётом баланса пользователя.
// Весь денежный путь (списание ставки, начисление выигрыша, запись истории)
// идет одной транзакцией; сам движок исходов в БД не ходит
func (s *serv) Spin(ctx context.Context, spinReq model.GridSpin) (*model.GridSpinResult, error) {
	// Валидация ставки до обращения к движку
	if spinReq.Bet <= 0 {
		return nil, errors.New("bet must be positive")
	}

	// Получаем ID пользователя
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	var res *model.GridSpinResult

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Получаем баланс пользователя
		balance, err := s.userRepo.GetBalance(txCtx, userID)
		if err != nil {
			return errors.New("failed to get user balance")
		}

		bet := money.ToCents(spinReq.Bet)
		if balance < bet {
			return errors.New("not enough balance")
		}

		// Списание ставки
		balance -= bet
		if err := s.userRepo.UpdateBalance(txCtx, userID, balance); err != nil {
			return errors.New("failed to update user balance")
		}

		// КЛЮЧЕВОЙ ВЫЗОВ
		spinRes, err := s.engine.Spin(spinReq.Bet)
		if err != nil {
			return err
		}

		// Начисление выигрыша
		balance += money.ToCents(spinRes.TotalPayout)
		if err := s.userRepo.UpdateBalance(txCtx, userID, balance); err != nil {
			return errors.New("failed to update user balance")
		}

		// Запись в историю спинов
		err = s.historyRepo.CreateRecord(txCtx, &model.SpinRecord{
			UserID:       userID,
			Bet:          spinReq.Bet,
			Payout:       spinRes.TotalPayout,
			Category:     spinRes.Category,
			CascadeCount: len(spinRes.Cascades),
		})
		if err != nil {
			return errors.New("failed to create spin history record")
		}

		res = &model.GridSpinResult{
			SpinResult: *spinRes,
			Balance:    money.FromCents(balance),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
