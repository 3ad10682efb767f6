package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/market/internal/errs"
	"github.com/Astemirdum/book-exchange/market/internal/model"
)

const booksTableName = `books`

var bookColumns = []string{"id", "title", "author", "owner_id", "image_url", "created_at", "updated_at"}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q := `
insert into books (title, author, owner_id, image_url)
values (@title, @author, @owner_id, @image_url)
returning id, title, author, owner_id, image_url, created_at, updated_at`
	args := pgx.NamedArgs{
		"title":     book.Title,
		"author":    book.Author,
		"owner_id":  book.OwnerID,
		"image_url": book.ImageURL,
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Book{}, err
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return model.Book{}, fmt.Errorf("pgx.CollectOneRow: %w", err)
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, id uuid.UUID) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Expr("id = ?", id)).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBooks(ctx context.Context, ids []uuid.UUID) ([]model.Book, error) {
	return r.selectBooks(ctx, qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Expr("id = any(?)", ids)))
}

func (r *repository) LockBooks(ctx context.Context, ids []uuid.UUID) ([]model.Book, error) {
	// a global lock order keeps concurrent acceptances over overlapping books deadlock free
	return r.selectBooks(ctx, qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Expr("id = any(?)", ids)).
		OrderBy("id").
		Suffix("for update"))
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("created_at desc", "id")
	if filter.OwnerID != uuid.Nil {
		q = q.Where(sq.Expr("owner_id = ?", filter.OwnerID))
	}
	if filter.Page != 0 && filter.Size != 0 {
		q = q.Limit(uint64(filter.Size)).Offset(uint64((filter.Page - 1) * filter.Size))
	}
	return r.selectBooks(ctx, q)
}

func (r *repository) CountBooks(ctx context.Context, ownerID uuid.UUID) (int, error) {
	q := qb.Select("count(*)").From(booksTableName)
	if ownerID != uuid.Nil {
		q = q.Where(sq.Expr("owner_id = ?", ownerID))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repository) selectBooks(ctx context.Context, q sq.SelectBuilder) ([]model.Book, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("selectBooks", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return books, nil
}

func (r *repository) UpdateOwner(ctx context.Context, bookID, ownerID uuid.UUID) error {
	q := `
update books
    set owner_id = @owner_id, updated_at = now()
where id = @id`
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": bookID, "owner_id": ownerID})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrBookNotFound
	}
	return nil
}

func (r *repository) UpdateOwnerBatch(ctx context.Context, bookIDs []uuid.UUID, ownerID uuid.UUID) error {
	q := `
update books
    set owner_id = @owner_id, updated_at = now()
where id = any(@ids)`
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"ids": bookIDs, "owner_id": ownerID})
	if err != nil {
		return err
	}
	if n := tag.RowsAffected(); n != int64(len(bookIDs)) {
		return fmt.Errorf("update owner batch: %d of %d books updated", n, len(bookIDs))
	}
	return nil
}
