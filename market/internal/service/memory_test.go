package service

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Astemirdum/book-exchange/market/internal/errs"
	"github.com/Astemirdum/book-exchange/market/internal/model"
	"github.com/Astemirdum/book-exchange/market/internal/repository"
)

type memData struct {
	books   map[uuid.UUID]model.Book
	trades  map[uuid.UUID]model.Trade
	traders map[uuid.UUID]model.Trader
	clock   time.Time
}

func (d *memData) clone() *memData {
	c := &memData{
		books:   make(map[uuid.UUID]model.Book, len(d.books)),
		trades:  make(map[uuid.UUID]model.Trade, len(d.trades)),
		traders: make(map[uuid.UUID]model.Trader, len(d.traders)),
		clock:   d.clock,
	}
	for k, v := range d.books {
		c.books[k] = v
	}
	for k, v := range d.trades {
		v.OfferedBookIDs = append([]uuid.UUID(nil), v.OfferedBookIDs...)
		c.trades[k] = v
	}
	for k, v := range d.traders {
		c.traders[k] = v
	}
	return c
}

func (d *memData) tick() time.Time {
	d.clock = d.clock.Add(time.Second)
	return d.clock
}

// memRepo is an in-memory repository.Repository. Transactions are serialized and
// rolled back to a snapshot when fn fails.
type memRepo struct {
	txMu *sync.Mutex
	mu   *sync.Mutex
	data **memData

	// failOwnerBatch is returned by UpdateOwnerBatch when set.
	failOwnerBatch error
	// failTraders is returned by GetTraders when set.
	failTraders error
}

var _ repository.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	data := &memData{
		books:   map[uuid.UUID]model.Book{},
		trades:  map[uuid.UUID]model.Trade{},
		traders: map[uuid.UUID]model.Trader{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	return &memRepo{txMu: &sync.Mutex{}, mu: &sync.Mutex{}, data: &data}
}

func (r *memRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := (*r.data).clone()
	r.mu.Unlock()

	if err := fn(ctx, r); err != nil {
		r.mu.Lock()
		*r.data = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memRepo) addTrader(username, fullName string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	(*r.data).traders[id] = model.Trader{ID: id, Username: username, FullName: fullName}
	return id
}

func (r *memRepo) addBook(ownerID uuid.UUID, title string) uuid.UUID {
	b, _ := r.CreateBook(context.Background(), model.Book{Title: title, Author: "author of " + title, OwnerID: ownerID})
	return b.ID
}

func (r *memRepo) deleteBook(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete((*r.data).books, id)
}

func (r *memRepo) setOwner(bookID, ownerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := (*r.data).books[bookID]
	b.OwnerID = ownerID
	(*r.data).books[bookID] = b
}

func (r *memRepo) owner(bookID uuid.UUID) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (*r.data).books[bookID].OwnerID
}

func (r *memRepo) status(tradeID uuid.UUID) model.TradeStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (*r.data).trades[tradeID].Status
}

func (r *memRepo) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := *r.data
	book.ID = uuid.New()
	book.CreatedAt = d.tick()
	book.UpdatedAt = book.CreatedAt
	d.books[book.ID] = book
	return book, nil
}

func (r *memRepo) GetBook(_ context.Context, id uuid.UUID) (model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := (*r.data).books[id]
	if !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	return b, nil
}

func (r *memRepo) GetBooks(_ context.Context, ids []uuid.UUID) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Book
	for _, id := range ids {
		if b, ok := (*r.data).books[id]; ok {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0 })
	return out, nil
}

func (r *memRepo) LockBooks(ctx context.Context, ids []uuid.UUID) ([]model.Book, error) {
	return r.GetBooks(ctx, ids)
}

func (r *memRepo) ListBooks(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Book
	for _, b := range (*r.data).books {
		if filter.OwnerID == uuid.Nil || b.OwnerID == filter.OwnerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Page != 0 && filter.Size != 0 {
		from := (filter.Page - 1) * filter.Size
		if from > len(out) {
			from = len(out)
		}
		to := from + filter.Size
		if to > len(out) {
			to = len(out)
		}
		out = out[from:to]
	}
	return out, nil
}

func (r *memRepo) CountBooks(_ context.Context, ownerID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range (*r.data).books {
		if ownerID == uuid.Nil || b.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) UpdateOwner(_ context.Context, bookID, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := *r.data
	b, ok := d.books[bookID]
	if !ok {
		return errs.ErrBookNotFound
	}
	b.OwnerID = ownerID
	b.UpdatedAt = d.tick()
	d.books[bookID] = b
	return nil
}

func (r *memRepo) UpdateOwnerBatch(ctx context.Context, bookIDs []uuid.UUID, ownerID uuid.UUID) error {
	if r.failOwnerBatch != nil {
		return r.failOwnerBatch
	}
	for _, id := range bookIDs {
		if err := r.UpdateOwner(ctx, id, ownerID); err != nil {
			return err
		}
	}
	return nil
}

func (r *memRepo) CreateTrade(_ context.Context, trade model.Trade) (model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := *r.data
	for _, t := range d.trades {
		if t.Status == model.TradeStatusPending && t.ProposerID == trade.ProposerID && t.TargetBookID == trade.TargetBookID {
			return model.Trade{}, errs.ErrDuplicatePending
		}
	}
	trade.ID = uuid.New()
	trade.OfferedBookIDs = append([]uuid.UUID(nil), trade.OfferedBookIDs...)
	trade.CreatedAt = d.tick()
	trade.UpdatedAt = trade.CreatedAt
	d.trades[trade.ID] = trade
	return trade, nil
}

func (r *memRepo) GetTrade(_ context.Context, id uuid.UUID) (model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := (*r.data).trades[id]
	if !ok {
		return model.Trade{}, errs.ErrTradeNotFound
	}
	return t, nil
}

func (r *memRepo) LockTrade(ctx context.Context, id uuid.UUID) (model.Trade, error) {
	return r.GetTrade(ctx, id)
}

func (r *memRepo) HasPendingTrade(_ context.Context, proposerID, targetBookID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range (*r.data).trades {
		if t.Status == model.TradeStatusPending && t.ProposerID == proposerID && t.TargetBookID == targetBookID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) listTrades(match func(model.Trade) bool) []model.Trade {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Trade{}
	for _, t := range (*r.data).trades {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID) ([]model.Trade, error) {
	return r.listTrades(func(t model.Trade) bool { return t.RecipientID == recipientID }), nil
}

func (r *memRepo) ListByProposer(_ context.Context, proposerID uuid.UUID) ([]model.Trade, error) {
	return r.listTrades(func(t model.Trade) bool { return t.ProposerID == proposerID }), nil
}

func (r *memRepo) FindPendingReferencingBooks(_ context.Context, bookIDs []uuid.UUID) ([]model.Trade, error) {
	ids := make(map[uuid.UUID]struct{}, len(bookIDs))
	for _, id := range bookIDs {
		ids[id] = struct{}{}
	}
	return r.listTrades(func(t model.Trade) bool {
		if t.Status != model.TradeStatusPending {
			return false
		}
		for _, id := range t.BookIDs() {
			if _, ok := ids[id]; ok {
				return true
			}
		}
		return false
	}), nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.TradeStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := *r.data
	t, ok := d.trades[id]
	if !ok || t.Status != model.TradeStatusPending {
		return false, nil
	}
	t.Status = status
	t.UpdatedAt = d.tick()
	d.trades[id] = t
	return true, nil
}

func (r *memRepo) EnsureTrader(_ context.Context, id uuid.UUID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := (*r.data).traders[id]
	t.ID = id
	t.Username = username
	(*r.data).traders[id] = t
	return nil
}

func (r *memRepo) UpsertTrader(_ context.Context, trader model.Trader) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	(*r.data).traders[trader.ID] = trader
	return nil
}

func (r *memRepo) GetTraders(_ context.Context, ids []uuid.UUID) ([]model.Trader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTraders != nil {
		return nil, r.failTraders
	}
	var out []model.Trader
	for _, id := range ids {
		if t, ok := (*r.data).traders[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
