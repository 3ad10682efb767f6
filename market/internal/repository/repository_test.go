package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/market/internal/errs"
	"github.com/Astemirdum/book-exchange/market/internal/model"
	"github.com/Astemirdum/book-exchange/market/migrations"
	"github.com/Astemirdum/book-exchange/pkg/postgres"
)

// newTestRepository connects to MARKET_TEST_DSN and skips the test when it is unset.
func newTestRepository(t *testing.T) *repository {
	t.Helper()
	dsn := os.Getenv("MARKET_TEST_DSN")
	if dsn == "" {
		t.Skip("MARKET_TEST_DSN is not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(pool, migrations.MigrationFiles))

	repo, err := NewRepository(pool, zap.NewNop())
	require.NoError(t, err)
	return repo
}

func createBook(t *testing.T, repo *repository, ownerID uuid.UUID, title string) model.Book {
	t.Helper()
	book, err := repo.CreateBook(context.Background(), model.Book{Title: title, Author: "anon", OwnerID: ownerID})
	require.NoError(t, err)
	return book
}

func TestRepository_Books(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	x := createBook(t, repo, alice, "X")
	y := createBook(t, repo, bob, "Y")
	y2 := createBook(t, repo, bob, "Y2")

	got, err := repo.GetBook(ctx, x.ID)
	require.NoError(t, err)
	require.Equal(t, alice, got.OwnerID)

	_, err = repo.GetBook(ctx, uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)

	books, err := repo.GetBooks(ctx, []uuid.UUID{x.ID, y.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, books, 2)

	owned, err := repo.ListBooks(ctx, model.BookFilter{OwnerID: bob})
	require.NoError(t, err)
	require.Len(t, owned, 2)
	require.Equal(t, y2.ID, owned[0].ID)

	n, err := repo.CountBooks(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, repo.UpdateOwnerBatch(ctx, []uuid.UUID{y.ID, y2.ID}, alice))
	n, err = repo.CountBooks(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.ErrorIs(t, repo.UpdateOwner(ctx, uuid.New(), alice), errs.ErrBookNotFound)
}

func TestRepository_Trades(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	x := createBook(t, repo, alice, "X")
	y := createBook(t, repo, bob, "Y")
	z := createBook(t, repo, carol, "Z")
	w := createBook(t, repo, carol, "W")

	trade, err := repo.CreateTrade(ctx, model.Trade{
		ProposerID:     bob,
		RecipientID:    alice,
		TargetBookID:   x.ID,
		OfferedBookIDs: []uuid.UUID{y.ID},
		Status:         model.TradeStatusPending,
	})
	require.NoError(t, err)
	require.Equal(t, model.TradeStatusPending, trade.Status)
	require.Equal(t, []uuid.UUID{y.ID}, trade.OfferedBookIDs)

	_, err = repo.CreateTrade(ctx, model.Trade{
		ProposerID:     bob,
		RecipientID:    alice,
		TargetBookID:   x.ID,
		OfferedBookIDs: []uuid.UUID{y.ID},
		Status:         model.TradeStatusPending,
	})
	require.ErrorIs(t, err, errs.ErrDuplicatePending)

	pending, err := repo.HasPendingTrade(ctx, bob, x.ID)
	require.NoError(t, err)
	require.True(t, pending)

	other, err := repo.CreateTrade(ctx, model.Trade{
		ProposerID:     carol,
		RecipientID:    bob,
		TargetBookID:   y.ID,
		OfferedBookIDs: []uuid.UUID{z.ID},
		Status:         model.TradeStatusPending,
	})
	require.NoError(t, err)
	unrelated, err := repo.CreateTrade(ctx, model.Trade{
		ProposerID:     alice,
		RecipientID:    carol,
		TargetBookID:   w.ID,
		OfferedBookIDs: []uuid.UUID{uuid.New()},
		Status:         model.TradeStatusPending,
	})
	require.NoError(t, err)

	referencing, err := repo.FindPendingReferencingBooks(ctx, []uuid.UUID{x.ID, y.ID})
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(referencing))
	for _, tr := range referencing {
		ids = append(ids, tr.ID)
	}
	require.ElementsMatch(t, []uuid.UUID{trade.ID, other.ID}, ids)
	require.NotContains(t, ids, unrelated.ID)

	incoming, err := repo.ListByRecipient(ctx, alice)
	require.NoError(t, err)
	require.Len(t, incoming, 1)

	ok, err := repo.UpdateStatus(ctx, trade.ID, model.TradeStatusRejected)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.UpdateStatus(ctx, trade.ID, model.TradeStatusAccepted)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = repo.GetTrade(ctx, uuid.New())
	require.ErrorIs(t, err, errs.ErrTradeNotFound)
}

func TestRepository_WithinTx(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	x := createBook(t, repo, alice, "X")

	boom := errors.New("boom")
	err := repo.WithinTx(ctx, func(ctx context.Context, tx Repository) error {
		books, err := tx.LockBooks(ctx, []uuid.UUID{x.ID})
		require.NoError(t, err)
		require.Len(t, books, 1)
		require.NoError(t, tx.UpdateOwner(ctx, x.ID, bob))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetBook(ctx, x.ID)
	require.NoError(t, err)
	require.Equal(t, alice, got.OwnerID)

	require.NoError(t, repo.WithinTx(ctx, func(ctx context.Context, tx Repository) error {
		return tx.UpdateOwner(ctx, x.ID, bob)
	}))
	got, err = repo.GetBook(ctx, x.ID)
	require.NoError(t, err)
	require.Equal(t, bob, got.OwnerID)
}
