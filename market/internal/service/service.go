package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/book-exchange/market/internal/model"
	"github.com/Astemirdum/book-exchange/market/internal/repository"
	"github.com/Astemirdum/book-exchange/pkg/auth"
	"github.com/Astemirdum/book-exchange/pkg/kafka"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("service"),
		repo: repo,
	}
}

// EnsureTrader keeps the trader projection aware of a caller seen through its token.
func (s *Service) EnsureTrader(ctx context.Context, p auth.Profile) error {
	return s.repo.EnsureTrader(ctx, p.UserID, p.Username)
}

// ApplyUserEvent is used by the kafka consumer.
func (s *Service) ApplyUserEvent(ctx context.Context, event kafka.UserEvent) error {
	if event.UserID == uuid.Nil {
		return errors.New("user event without user id")
	}
	return s.repo.UpsertTrader(ctx, model.Trader{
		ID:       event.UserID,
		Username: event.Username,
		FullName: event.FullName,
		City:     event.City,
		State:    event.State,
	})
}

func (s *Service) CreateBook(ctx context.Context, ownerID uuid.UUID, req model.CreateBookRequest) (model.BookView, error) {
	book, err := s.repo.CreateBook(ctx, model.Book{
		Title:    req.Title,
		Author:   req.Author,
		OwnerID:  ownerID,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return model.BookView{}, errors.Wrap(err, "create book")
	}
	views, err := s.bookViews(ctx, []model.Book{book})
	if err != nil {
		return model.BookView{}, err
	}
	return views[0], nil
}

func (s *Service) GetBook(ctx context.Context, id uuid.UUID) (model.BookView, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.BookView{}, err
	}
	views, err := s.bookViews(ctx, []model.Book{book})
	if err != nil {
		return model.BookView{}, err
	}
	return views[0], nil
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	books, err := s.repo.ListBooks(ctx, filter)
	if err != nil {
		return model.ListBooks{}, errors.Wrap(err, "list books")
	}
	total, err := s.repo.CountBooks(ctx, filter.OwnerID)
	if err != nil {
		return model.ListBooks{}, errors.Wrap(err, "count books")
	}
	views, err := s.bookViews(ctx, books)
	if err != nil {
		return model.ListBooks{}, err
	}
	return model.ListBooks{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: total,
		},
		Items: views,
	}, nil
}

func (s *Service) bookViews(ctx context.Context, books []model.Book) ([]model.BookView, error) {
	ownerIDs := make([]uuid.UUID, 0, len(books))
	for _, b := range books {
		ownerIDs = append(ownerIDs, b.OwnerID)
	}
	traders, err := s.traders(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	views := make([]model.BookView, 0, len(books))
	for _, b := range books {
		views = append(views, model.BookView{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			ImageURL:  b.ImageURL,
			Owner:     model.NewTraderRef(b.OwnerID, traders[b.OwnerID]),
			CreatedAt: b.CreatedAt,
		})
	}
	return views, nil
}

func (s *Service) traders(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Trader, error) {
	ids = distinct(ids)
	if len(ids) == 0 {
		return map[uuid.UUID]model.Trader{}, nil
	}
	list, err := s.repo.GetTraders(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get traders")
	}
	byID := make(map[uuid.UUID]model.Trader, len(list))
	for _, t := range list {
		byID[t.ID] = t
	}
	return byID, nil
}

// populate expands participants and books of trades; books and traders are loaded concurrently.
func (s *Service) populate(ctx context.Context, trades []model.Trade) ([]model.TradeView, error) {
	var bookIDs, traderIDs []uuid.UUID
	for _, t := range trades {
		bookIDs = append(bookIDs, t.BookIDs()...)
		traderIDs = append(traderIDs, t.ProposerID, t.RecipientID)
	}

	var (
		books   = map[uuid.UUID]model.Book{}
		traders map[uuid.UUID]model.Trader
	)
	gg, gctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		ids := distinct(bookIDs)
		if len(ids) == 0 {
			return nil
		}
		list, err := s.repo.GetBooks(gctx, ids)
		if err != nil {
			return errors.Wrap(err, "get books")
		}
		for _, b := range list {
			books[b.ID] = b
		}
		return nil
	})
	gg.Go(func() error {
		var err error
		traders, err = s.traders(gctx, traderIDs)
		return err
	})
	if err := gg.Wait(); err != nil {
		return nil, err
	}

	bookRef := func(id uuid.UUID) model.BookRef {
		if b, ok := books[id]; ok {
			return model.NewBookRef(b)
		}
		return model.BookRef{ID: id}
	}
	views := make([]model.TradeView, 0, len(trades))
	for _, t := range trades {
		offered := make([]model.BookRef, 0, len(t.OfferedBookIDs))
		for _, id := range t.OfferedBookIDs {
			offered = append(offered, bookRef(id))
		}
		views = append(views, model.TradeView{
			ID:           t.ID,
			Proposer:     model.NewTraderRef(t.ProposerID, traders[t.ProposerID]),
			Recipient:    model.NewTraderRef(t.RecipientID, traders[t.RecipientID]),
			TargetBook:   bookRef(t.TargetBookID),
			OfferedBooks: offered,
			Status:       t.Status,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
		})
	}
	return views, nil
}

func (s *Service) populateOne(ctx context.Context, trade model.Trade) (model.TradeView, error) {
	views, err := s.populate(ctx, []model.Trade{trade})
	if err != nil {
		return model.TradeView{}, err
	}
	return views[0], nil
}

// committedView renders a trade whose change is already committed. A failed
// lookup degrades to id-only references instead of failing the call.
func (s *Service) committedView(ctx context.Context, trade model.Trade) model.TradeView {
	view, err := s.populateOne(ctx, trade)
	if err == nil {
		return view
	}
	s.log.Warn("populate committed trade", zap.Stringer("trade_id", trade.ID), zap.Error(err))
	offered := make([]model.BookRef, 0, len(trade.OfferedBookIDs))
	for _, id := range trade.OfferedBookIDs {
		offered = append(offered, model.BookRef{ID: id})
	}
	return model.TradeView{
		ID:           trade.ID,
		Proposer:     model.NewTraderRef(trade.ProposerID, model.Trader{}),
		Recipient:    model.NewTraderRef(trade.RecipientID, model.Trader{}),
		TargetBook:   model.BookRef{ID: trade.TargetBookID},
		OfferedBooks: offered,
		Status:       trade.Status,
		CreatedAt:    trade.CreatedAt,
		UpdatedAt:    trade.UpdatedAt,
	}
}

func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
