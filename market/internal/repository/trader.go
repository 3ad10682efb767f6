package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/book-exchange/market/internal/model"
)

const tradersTableName = `traders`

// EnsureTrader records a trader seen through a token; profile fields already known are kept.
func (r *repository) EnsureTrader(ctx context.Context, id uuid.UUID, username string) error {
	q := `
insert into traders (id, username) values (@id, @username)
on conflict (id) do update set username = excluded.username
where traders.username <> excluded.username`
	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "username": username})
	return err
}

func (r *repository) UpsertTrader(ctx context.Context, trader model.Trader) error {
	q := `
insert into traders (id, username, full_name, city, state)
values (@id, @username, @full_name, @city, @state)
on conflict (id) do update set
    username = excluded.username,
    full_name = excluded.full_name,
    city = excluded.city,
    state = excluded.state`
	args := pgx.NamedArgs{
		"id":        trader.ID,
		"username":  trader.Username,
		"full_name": trader.FullName,
		"city":      trader.City,
		"state":     trader.State,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

func (r *repository) GetTraders(ctx context.Context, ids []uuid.UUID) ([]model.Trader, error) {
	query, args, err := qb.Select("id", "username", "full_name", "city", "state").
		From(tradersTableName).
		Where(sq.Expr("id = any(?)", ids)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	traders, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Trader])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return traders, nil
}
