package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/market/internal/errs"
	"github.com/Astemirdum/book-exchange/market/internal/model"
	"github.com/Astemirdum/book-exchange/market/internal/repository"
)

func (s *Service) ProposeTrade(ctx context.Context, proposerID uuid.UUID, req model.ProposeTradeRequest) (model.TradeView, error) {
	trade, err := s.proposeTrade(ctx, proposerID, req)
	tradeProposals.WithLabelValues(errs.Kind(err)).Inc()
	if err != nil {
		return model.TradeView{}, err
	}
	s.log.Info("trade proposed",
		zap.Stringer("trade_id", trade.ID),
		zap.Stringer("proposer_id", trade.ProposerID),
		zap.Stringer("recipient_id", trade.RecipientID))
	return s.committedView(ctx, trade), nil
}

func (s *Service) proposeTrade(ctx context.Context, proposerID uuid.UUID, req model.ProposeTradeRequest) (model.Trade, error) {
	if len(req.OfferedBookIDs) == 0 {
		return model.Trade{}, errs.ErrNoOfferedBooks
	}
	if len(distinct(req.OfferedBookIDs)) != len(req.OfferedBookIDs) {
		return model.Trade{}, errs.ErrDuplicateOffered
	}

	target, err := s.repo.GetBook(ctx, req.TargetBookID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Trade{}, errs.ErrTargetBookNotFound
		}
		return model.Trade{}, errors.Wrap(err, "get target book")
	}
	if target.OwnerID == proposerID {
		return model.Trade{}, errs.ErrSelfTrade
	}

	offered, err := s.repo.GetBooks(ctx, req.OfferedBookIDs)
	if err != nil {
		return model.Trade{}, errors.Wrap(err, "get offered books")
	}
	if len(offered) != len(req.OfferedBookIDs) {
		return model.Trade{}, errs.ErrOfferedBookNotFound
	}
	for _, b := range offered {
		if b.OwnerID != proposerID {
			return model.Trade{}, errs.ErrNotOwner
		}
	}

	pending, err := s.repo.HasPendingTrade(ctx, proposerID, target.ID)
	if err != nil {
		return model.Trade{}, errors.Wrap(err, "check pending trade")
	}
	if pending {
		return model.Trade{}, errs.ErrDuplicatePending
	}

	trade, err := s.repo.CreateTrade(ctx, model.Trade{
		ProposerID:     proposerID,
		RecipientID:    target.OwnerID,
		TargetBookID:   target.ID,
		OfferedBookIDs: req.OfferedBookIDs,
		Status:         model.TradeStatusPending,
	})
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return model.Trade{}, err
		}
		return model.Trade{}, errors.Wrap(err, "create trade")
	}
	return trade, nil
}

// RespondToTrade applies the recipient's decision. A cancelled outcome is committed
// and then reported through an error unwrapping to errs.ErrCancelled.
func (s *Service) RespondToTrade(ctx context.Context, actorID, tradeID uuid.UUID, decision model.TradeStatus) (model.TradeView, error) {
	trade, err := s.respond(ctx, actorID, tradeID, decision)
	label := string(decision)
	if !decision.IsDecision() {
		label = "invalid"
	}
	tradeResponses.WithLabelValues(label, errs.Kind(err)).Inc()
	if err != nil {
		return model.TradeView{}, err
	}
	s.log.Info("trade responded",
		zap.Stringer("trade_id", trade.ID),
		zap.Stringer("status", trade.Status))
	return s.committedView(ctx, trade), nil
}

func (s *Service) respond(ctx context.Context, actorID, tradeID uuid.UUID, decision model.TradeStatus) (model.Trade, error) {
	if !decision.IsDecision() {
		return model.Trade{}, errs.ErrInvalidDecision
	}
	trade, err := s.repo.GetTrade(ctx, tradeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Trade{}, err
		}
		return model.Trade{}, errors.Wrap(err, "get trade")
	}
	if err := checkRespondable(trade, actorID); err != nil {
		return model.Trade{}, err
	}

	var res outcome
	err = s.repo.WithinTx(ctx, func(ctx context.Context, tx repository.Repository) error {
		var err error
		if decision == model.TradeStatusRejected {
			res.trade, err = s.reject(ctx, tx, tradeID, actorID)
			return err
		}
		res, err = s.accept(ctx, tx, trade, actorID)
		return err
	})
	if err != nil {
		return model.Trade{}, err
	}
	if res.cancelled != nil {
		s.log.Info("trade cancelled on acceptance",
			zap.Stringer("trade_id", tradeID),
			zap.String("reason", res.cancelled.Error()))
	}
	return res.trade, res.cancelled
}

// outcome of a response; cancelled is set when an acceptance ended in cancellation.
type outcome struct {
	trade     model.Trade
	cancelled error
}

func checkRespondable(trade model.Trade, actorID uuid.UUID) error {
	if trade.RecipientID != actorID {
		return errs.ErrNotRecipient
	}
	if trade.Status != model.TradeStatusPending {
		return errs.NotPending(trade.Status)
	}
	return nil
}

func (s *Service) reject(ctx context.Context, tx repository.Repository, tradeID, actorID uuid.UUID) (model.Trade, error) {
	trade, err := tx.LockTrade(ctx, tradeID)
	if err != nil {
		return model.Trade{}, err
	}
	if err := checkRespondable(trade, actorID); err != nil {
		return model.Trade{}, err
	}
	if err := setStatus(ctx, tx, trade, model.TradeStatusRejected); err != nil {
		return model.Trade{}, err
	}
	return tx.GetTrade(ctx, tradeID)
}

// accept locks every involved book and then the trade row, revalidates under the locks
// and swaps ownership. When the trade cannot be honored it is cancelled within the same
// transaction and the reason is carried in outcome.cancelled.
func (s *Service) accept(ctx context.Context, tx repository.Repository, snapshot model.Trade, actorID uuid.UUID) (outcome, error) {
	bookIDs := snapshot.BookIDs()
	books, err := tx.LockBooks(ctx, bookIDs)
	if err != nil {
		return outcome{}, errors.Wrap(err, "lock books")
	}
	trade, err := tx.LockTrade(ctx, snapshot.ID)
	if err != nil {
		return outcome{}, err
	}
	if err := checkRespondable(trade, actorID); err != nil {
		return outcome{}, err
	}

	if len(books) != len(bookIDs) {
		return s.cancel(ctx, tx, trade, errs.ErrMissingBooks)
	}
	owners := make(map[uuid.UUID]uuid.UUID, len(books))
	for _, b := range books {
		owners[b.ID] = b.OwnerID
	}
	if owners[trade.TargetBookID] != trade.RecipientID {
		return s.cancel(ctx, tx, trade, errs.ErrOwnershipChanged)
	}
	for _, id := range trade.OfferedBookIDs {
		if owners[id] != trade.ProposerID {
			return s.cancel(ctx, tx, trade, errs.ErrOwnershipChanged)
		}
	}

	if err := tx.UpdateOwner(ctx, trade.TargetBookID, trade.ProposerID); err != nil {
		return outcome{}, errors.Wrap(err, "transfer target book")
	}
	if err := tx.UpdateOwnerBatch(ctx, trade.OfferedBookIDs, trade.RecipientID); err != nil {
		return outcome{}, errors.Wrap(err, "transfer offered books")
	}

	conflicting, err := tx.FindPendingReferencingBooks(ctx, bookIDs)
	if err != nil {
		return outcome{}, errors.Wrap(err, "find conflicting trades")
	}
	for _, c := range conflicting {
		if c.ID == trade.ID {
			continue
		}
		if _, err := tx.UpdateStatus(ctx, c.ID, model.TradeStatusCancelled); err != nil {
			return outcome{}, errors.Wrap(err, "cancel conflicting trade")
		}
		s.log.Debug("conflicting trade cancelled",
			zap.Stringer("trade_id", c.ID),
			zap.Stringer("accepted_trade_id", trade.ID))
	}

	if err := setStatus(ctx, tx, trade, model.TradeStatusAccepted); err != nil {
		return outcome{}, err
	}
	accepted, err := tx.GetTrade(ctx, trade.ID)
	if err != nil {
		return outcome{}, err
	}
	return outcome{trade: accepted}, nil
}

func (s *Service) cancel(ctx context.Context, tx repository.Repository, trade model.Trade, reason error) (outcome, error) {
	if err := setStatus(ctx, tx, trade, model.TradeStatusCancelled); err != nil {
		return outcome{}, err
	}
	cancelled, err := tx.GetTrade(ctx, trade.ID)
	if err != nil {
		return outcome{}, err
	}
	return outcome{trade: cancelled, cancelled: reason}, nil
}

func setStatus(ctx context.Context, tx repository.Repository, trade model.Trade, status model.TradeStatus) error {
	ok, err := tx.UpdateStatus(ctx, trade.ID, status)
	if err != nil {
		return errors.Wrapf(err, "set trade status %s", status)
	}
	if !ok {
		return errs.NotPending(trade.Status)
	}
	return nil
}

func (s *Service) GetTrade(ctx context.Context, actorID, tradeID uuid.UUID) (model.TradeView, error) {
	trade, err := s.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return model.TradeView{}, err
	}
	if !trade.IsParticipant(actorID) {
		return model.TradeView{}, errs.ErrNotParticipant
	}
	return s.populateOne(ctx, trade)
}

// ListIncoming returns trades where userID is the recipient, newest first.
func (s *Service) ListIncoming(ctx context.Context, userID uuid.UUID) ([]model.TradeView, error) {
	trades, err := s.repo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list incoming trades")
	}
	return s.populate(ctx, trades)
}

// ListOutgoing returns trades where userID is the proposer, newest first.
func (s *Service) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]model.TradeView, error) {
	trades, err := s.repo.ListByProposer(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list outgoing trades")
	}
	return s.populate(ctx, trades)
}
