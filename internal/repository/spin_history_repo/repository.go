package spin_history_repo

import (
	"context"

	"cluster_backend/internal/model"
	"cluster_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "spin_history"
	colID           = "id"
	colUserID       = "user_id"
	colBet          = "bet"
	colPayout       = "payout"
	colCategory     = "category"
	colCascadeCount = "cascade_count"
	colCreatedAt    = "created_at"
)

type repo struct {
	dbc *pgxpool.Pool
}

func NewSpinHistoryRepository(dbc *pgxpool.Pool) repository.SpinHistoryRepository {
	return &repo{
		dbc: dbc,
	}
}

// conn транзакция из контекста либо пул
func (r *repo) conn(ctx context.Context) trmpgx.Tr {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc)
}

// CreateRecord - пишет запись о спине в историю.
// Вызывается внутри транзакции спина
func (r *repo) CreateRecord(ctx context.Context, record *model.SpinRecord) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colUserID, colBet, colPayout, colCategory, colCascadeCount).
		Values(record.UserID, record.Bet, record.Payout, string(record.Category), record.CascadeCount).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn(ctx).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// ListByUser - возвращает последние записи истории спинов пользователя
func (r *repo) ListByUser(ctx context.Context, userID int, limit int) ([]model.SpinRecord, error) {
	// Формируем запрос
	query := sq.Select(colID, colUserID, colBet, colPayout, colCategory, colCascadeCount, colCreatedAt).
		From(table).
		Where(sq.Eq{colUserID: userID}).
		OrderBy(colCreatedAt + " DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.SpinRecord
	for rows.Next() {
		var rec model.SpinRecord
		var category string
		err = rows.Scan(&rec.ID, &rec.UserID, &rec.Bet, &rec.Payout, &category, &rec.CascadeCount, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		rec.Category = model.PayoutCategory(category)
		records = append(records, rec)
	}

	return records, rows.Err()
}
