package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/identity-provider/internal/errs"
	"github.com/Astemirdum/book-exchange/identity-provider/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	UpdateProfile(ctx context.Context, user model.User) (model.User, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usernameKey = `users_username_key`
	userColumns = `id, username, password_hash, full_name, city, state, created_at, updated_at`
)

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	q := `
insert into users (username, password_hash, full_name, city, state)
values (@username, @password_hash, @full_name, @city, @state)
returning ` + userColumns
	args := pgx.NamedArgs{
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"full_name":     user.FullName,
		"city":          user.City,
		"state":         user.State,
	}
	created, err := r.queryUser(ctx, q, args)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == usernameKey {
			return model.User{}, errs.ErrUserExists
		}
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	q := `select ` + userColumns + ` from users where id = @id`
	return r.queryUser(ctx, q, pgx.NamedArgs{"id": id})
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	q := `select ` + userColumns + ` from users where username = @username`
	return r.queryUser(ctx, q, pgx.NamedArgs{"username": username})
}

func (r *repository) UpdateProfile(ctx context.Context, user model.User) (model.User, error) {
	q := `
update users
    set full_name = @full_name, city = @city, state = @state, updated_at = now()
where id = @id
returning ` + userColumns
	return r.queryUser(ctx, q, pgx.NamedArgs{
		"id":        user.ID,
		"full_name": user.FullName,
		"city":      user.City,
		"state":     user.State,
	})
}

func (r *repository) queryUser(ctx context.Context, q string, args pgx.NamedArgs) (model.User, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.User{}, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("pgx.CollectOneRow: %w", err)
	}
	return user, nil
}
