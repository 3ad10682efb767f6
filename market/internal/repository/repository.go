package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/market/internal/model"
)

type BookRepository interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (model.Book, error)
	GetBooks(ctx context.Context, ids []uuid.UUID) ([]model.Book, error)
	// LockBooks is GetBooks holding row locks until the surrounding transaction ends.
	LockBooks(ctx context.Context, ids []uuid.UUID) ([]model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	CountBooks(ctx context.Context, ownerID uuid.UUID) (int, error)
	UpdateOwner(ctx context.Context, bookID, ownerID uuid.UUID) error
	UpdateOwnerBatch(ctx context.Context, bookIDs []uuid.UUID, ownerID uuid.UUID) error
}

type TradeRepository interface {
	CreateTrade(ctx context.Context, trade model.Trade) (model.Trade, error)
	GetTrade(ctx context.Context, id uuid.UUID) (model.Trade, error)
	LockTrade(ctx context.Context, id uuid.UUID) (model.Trade, error)
	HasPendingTrade(ctx context.Context, proposerID, targetBookID uuid.UUID) (bool, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]model.Trade, error)
	ListByProposer(ctx context.Context, proposerID uuid.UUID) ([]model.Trade, error)
	FindPendingReferencingBooks(ctx context.Context, bookIDs []uuid.UUID) ([]model.Trade, error)
	// UpdateStatus moves a pending trade to status and reports false when the trade was no longer pending.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TradeStatus) (bool, error)
}

type TraderRepository interface {
	EnsureTrader(ctx context.Context, id uuid.UUID, username string) error
	UpsertTrader(ctx context.Context, trader model.Trader) error
	GetTraders(ctx context.Context, ids []uuid.UUID) ([]model.Trader, error)
}

type Repository interface {
	BookRepository
	TradeRepository
	TraderRepository
	// WithinTx runs fn inside one transaction with tx bound to it; an error from fn rolls everything back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	pool *pgxpool.Pool
	db   querier
	log  *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		pool: db,
		db:   db,
		log:  log.Named("repo"),
	}, nil
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, log: r.log})
	})
}
