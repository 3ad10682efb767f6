package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/market/internal/errs"
	"github.com/Astemirdum/book-exchange/market/internal/model"
	"github.com/Astemirdum/book-exchange/market/internal/repository"
	"github.com/Astemirdum/book-exchange/market/migrations"
	"github.com/Astemirdum/book-exchange/pkg/postgres"
)

// newPostgresService builds the service on MARKET_TEST_DSN and skips the test when it is unset.
func newPostgresService(t *testing.T) (*Service, repository.Repository) {
	t.Helper()
	dsn := os.Getenv("MARKET_TEST_DSN")
	if dsn == "" {
		t.Skip("MARKET_TEST_DSN is not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(pool, migrations.MigrationFiles))

	repo, err := repository.NewRepository(pool, zap.NewNop())
	require.NoError(t, err)
	return NewService(repo, zap.NewNop()), repo
}

// Three trades whose book sets overlap pairwise, each accepted by a different
// recipient at the same time. Any two of them conflict, so exactly one may win.
func TestService_RespondToTrade_ConcurrentAcceptsPostgres(t *testing.T) {
	svc, repo := newPostgresService(t)
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		t.Run(fmt.Sprintf("round %d", round), func(t *testing.T) {
			alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
			for id, name := range map[uuid.UUID]string{alice: "alice", bob: "bob", carol: "carol"} {
				require.NoError(t, repo.EnsureTrader(ctx, id, name))
			}
			book := func(owner uuid.UUID, title string) uuid.UUID {
				b, err := repo.CreateBook(ctx, model.Book{Title: title, Author: "anon", OwnerID: owner})
				require.NoError(t, err)
				return b.ID
			}
			x, y, z := book(alice, "X"), book(bob, "Y"), book(carol, "Z")

			propose := func(proposer, target, offered uuid.UUID) uuid.UUID {
				view, err := svc.ProposeTrade(ctx, proposer, model.ProposeTradeRequest{
					TargetBookID:   target,
					OfferedBookIDs: []uuid.UUID{offered},
				})
				require.NoError(t, err)
				return view.ID
			}
			type accept struct {
				actor, trade uuid.UUID
			}
			accepts := []accept{
				{actor: alice, trade: propose(bob, x, y)},
				{actor: carol, trade: propose(alice, z, x)},
				{actor: bob, trade: propose(carol, y, z)},
			}

			var (
				wg      sync.WaitGroup
				start   = make(chan struct{})
				results = make([]error, len(accepts))
			)
			for i, a := range accepts {
				wg.Add(1)
				go func(i int, a accept) {
					defer wg.Done()
					<-start
					_, results[i] = svc.RespondToTrade(ctx, a.actor, a.trade, model.TradeStatusAccepted)
				}(i, a)
			}
			close(start)
			wg.Wait()

			winner := -1
			for i, err := range results {
				if err == nil {
					require.Equal(t, -1, winner, "more than one accept committed")
					winner = i
					continue
				}
				kind := errs.Kind(err)
				require.Contains(t, []string{"invalid_state", "cancelled"}, kind, "unexpected error: %v", err)
			}
			require.NotEqual(t, -1, winner, "no accept committed")

			for i, a := range accepts {
				trade, err := repo.GetTrade(ctx, a.trade)
				require.NoError(t, err)
				if i == winner {
					require.Equal(t, model.TradeStatusAccepted, trade.Status)
				} else {
					require.Equal(t, model.TradeStatusCancelled, trade.Status)
				}
			}

			owners := map[int][3]uuid.UUID{
				0: {bob, alice, carol},
				1: {carol, bob, alice},
				2: {alice, carol, bob},
			}[winner]
			for i, id := range []uuid.UUID{x, y, z} {
				b, err := repo.GetBook(ctx, id)
				require.NoError(t, err)
				require.Equal(t, owners[i], b.OwnerID)
			}
		})
	}
}
