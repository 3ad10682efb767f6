package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/book-exchange/identity-provider/internal/errs"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/model"
	providerRepo "github.com/Astemirdum/book-exchange/identity-provider/internal/repository"
	"github.com/Astemirdum/book-exchange/pkg/auth"
	"github.com/Astemirdum/book-exchange/pkg/kafka"
)

type Service struct {
	log      *zap.Logger
	repo     providerRepo.Repository
	enqueuer kafka.Enqueuer
	authCfg  auth.Config
	hashCost int
	now      func() time.Time
}

type Option func(*Service)

func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

func NewService(repo providerRepo.Repository, enqueuer kafka.Enqueuer, authCfg auth.Config, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:      log.Named("service"),
		repo:     repo,
		enqueuer: enqueuer,
		authCfg:  authCfg,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) RegisterUser(ctx context.Context, req model.UserCreateRequest) (model.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "hash password")
	}
	user, err := s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		City:         req.City,
		State:        req.State,
	})
	if err != nil {
		return model.AuthResponse{}, err
	}
	s.publish(ctx, kafka.UserRegistered, user)
	return s.issue(user)
}

func (s *Service) Authorize(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (model.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.State != nil {
		user.State = *req.State
	}
	updated, err := s.repo.UpdateProfile(ctx, user)
	if err != nil {
		return model.User{}, err
	}
	s.publish(ctx, kafka.UserUpdated, updated)
	return updated, nil
}

func (s *Service) issue(user model.User) (model.AuthResponse, error) {
	now := s.now()
	token, expiresAt, err := auth.NewToken(s.authCfg, auth.Profile{UserID: user.ID, Username: user.Username}, now)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
	}, nil
}

// publish is best effort: the market also learns traders from their tokens.
func (s *Service) publish(ctx context.Context, typ kafka.UserEventType, user model.User) {
	event := kafka.UserEvent{
		Type:      typ,
		UserID:    user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		City:      user.City,
		State:     user.State,
		Timestamp: s.now(),
	}
	if err := s.enqueuer.Enqueue(ctx, kafka.UsersTopic, user.ID.String(), event); err != nil {
		s.log.Warn("publish user event", zap.Error(err), zap.Stringer("user_id", user.ID))
	}
}
