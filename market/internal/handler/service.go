package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/Astemirdum/book-exchange/market/internal/model"
	"github.com/Astemirdum/book-exchange/market/internal/service"
	"github.com/Astemirdum/book-exchange/pkg/auth"
	"github.com/Astemirdum/book-exchange/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type MarketService interface {
	CreateBook(ctx context.Context, ownerID uuid.UUID, req model.CreateBookRequest) (model.BookView, error)
	GetBook(ctx context.Context, id uuid.UUID) (model.BookView, error)
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)

	ProposeTrade(ctx context.Context, proposerID uuid.UUID, req model.ProposeTradeRequest) (model.TradeView, error)
	RespondToTrade(ctx context.Context, actorID, tradeID uuid.UUID, decision model.TradeStatus) (model.TradeView, error)
	GetTrade(ctx context.Context, actorID, tradeID uuid.UUID) (model.TradeView, error)
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]model.TradeView, error)
	ListOutgoing(ctx context.Context, userID uuid.UUID) ([]model.TradeView, error)

	EnsureTrader(ctx context.Context, p auth.Profile) error
	ApplyUserEvent(ctx context.Context, event kafka.UserEvent) error
}

var _ MarketService = (*service.Service)(nil)
