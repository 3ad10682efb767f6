package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/market/internal/errs"
	"github.com/Astemirdum/book-exchange/market/internal/model"
)

const (
	tradesTableName          = `trades`
	onePendingPerTargetIndex = `trades_one_pending_per_target`
)

var tradeColumns = []string{
	"id", "proposer_id", "recipient_id", "target_book_id", "offered_book_ids", "status", "created_at", "updated_at",
}

func (r *repository) CreateTrade(ctx context.Context, trade model.Trade) (model.Trade, error) {
	q := `
insert into trades (proposer_id, recipient_id, target_book_id, offered_book_ids, status)
values (@proposer_id, @recipient_id, @target_book_id, @offered_book_ids, @status)
returning id, proposer_id, recipient_id, target_book_id, offered_book_ids, status, created_at, updated_at`
	args := pgx.NamedArgs{
		"proposer_id":      trade.ProposerID,
		"recipient_id":     trade.RecipientID,
		"target_book_id":   trade.TargetBookID,
		"offered_book_ids": trade.OfferedBookIDs,
		"status":           string(trade.Status),
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Trade{}, err
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Trade])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == onePendingPerTargetIndex {
			return model.Trade{}, errs.ErrDuplicatePending
		}
		r.log.Error("CreateTrade", zap.Error(err), zap.Any("args", args))
		return model.Trade{}, err
	}
	return created, nil
}

func (r *repository) GetTrade(ctx context.Context, id uuid.UUID) (model.Trade, error) {
	return r.getTrade(ctx, qb.Select(tradeColumns...).
		From(tradesTableName).
		Where(sq.Expr("id = ?", id)))
}

func (r *repository) LockTrade(ctx context.Context, id uuid.UUID) (model.Trade, error) {
	return r.getTrade(ctx, qb.Select(tradeColumns...).
		From(tradesTableName).
		Where(sq.Expr("id = ?", id)).
		Suffix("for update"))
}

func (r *repository) getTrade(ctx context.Context, q sq.SelectBuilder) (model.Trade, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return model.Trade{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Trade{}, err
	}
	trade, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Trade])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Trade{}, errs.ErrTradeNotFound
		}
		return model.Trade{}, err
	}
	return trade, nil
}

func (r *repository) HasPendingTrade(ctx context.Context, proposerID, targetBookID uuid.UUID) (bool, error) {
	q := `
select exists(
    select 1 from trades
    where proposer_id = @proposer_id and target_book_id = @target_book_id and status = 'pending'
)`
	var exists bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"proposer_id":    proposerID,
		"target_book_id": targetBookID,
	}).Scan(&exists)
	return exists, err
}

func (r *repository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]model.Trade, error) {
	return r.selectTrades(ctx, qb.Select(tradeColumns...).
		From(tradesTableName).
		Where(sq.Expr("recipient_id = ?", recipientID)).
		OrderBy("created_at desc", "id desc"))
}

func (r *repository) ListByProposer(ctx context.Context, proposerID uuid.UUID) ([]model.Trade, error) {
	return r.selectTrades(ctx, qb.Select(tradeColumns...).
		From(tradesTableName).
		Where(sq.Expr("proposer_id = ?", proposerID)).
		OrderBy("created_at desc", "id desc"))
}

func (r *repository) FindPendingReferencingBooks(ctx context.Context, bookIDs []uuid.UUID) ([]model.Trade, error) {
	return r.selectTrades(ctx, qb.Select(tradeColumns...).
		From(tradesTableName).
		Where(sq.Eq{"status": string(model.TradeStatusPending)}).
		Where(sq.Or{
			sq.Expr("target_book_id = any(?)", bookIDs),
			sq.Expr("offered_book_ids && ?", bookIDs),
		}).
		OrderBy("created_at", "id"))
}

func (r *repository) selectTrades(ctx context.Context, q sq.SelectBuilder) ([]model.Trade, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("selectTrades", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	trades, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Trade])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return trades, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TradeStatus) (bool, error) {
	q := `
update trades
    set status = @status, updated_at = now()
where id = @id and status = 'pending'`
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
