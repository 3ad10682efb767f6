package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/Astemirdum/book-exchange/identity-provider/internal/model"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type AuthService interface {
	RegisterUser(ctx context.Context, req model.UserCreateRequest) (model.AuthResponse, error)
	Authorize(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (model.User, error)
}

var _ AuthService = (*service.Service)(nil)
