package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableBooks     = "books"
	colID          = "id"
	colTitle       = "title"
	colAuthor      = "author"
	colYear        = "year"
	colCountPages  = "count_pages"
	colSellerID    = "seller_id"
	foreignKeyCode = "23503"
)

var dialect = goqu.Dialect("postgres")

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func selectBooks() *goqu.SelectDataset {
	return dialect.From(tableBooks).
		Select(colID, colTitle, colAuthor, colYear, colCountPages, colSellerID).
		Order(goqu.I(colID).Asc())
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.CountPages, &b.SellerID)
	return b, err
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	query, args, err := dialect.Insert(tableBooks).
		Rows(goqu.Record{
			colTitle:      b.Title,
			colAuthor:     b.Author,
			colYear:       b.Year,
			colCountPages: b.CountPages,
			colSellerID:   b.SellerID,
		}).
		Returning(colID).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert book: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&b.ID); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Book, error) {
	ds := selectBooks()
	if f.SellerID != nil {
		ds = ds.Where(goqu.C(colSellerID).Eq(*f.SellerID))
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list books: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	query, args, err := selectBooks().Where(goqu.C(colID).Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return Book{}, fmt.Errorf("build get book: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) (int64, error) {
	const query = `
		WITH previous AS (SELECT seller_id FROM books WHERE id = $1)
		UPDATE books
		SET title = $2, author = $3, year = $4, count_pages = $5, seller_id = $6
		WHERE id = $1
		RETURNING (SELECT seller_id FROM previous)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var previousSeller int64
	err := r.db.QueryRow(timeoutCtx, query, b.ID, b.Title, b.Author, b.Year, b.CountPages, b.SellerID).Scan(&previousSeller)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, mapWriteError(err)
	}
	return previousSeller, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := dialect.Delete(tableBooks).
		Where(goqu.C(colID).Eq(id)).
		Returning(colSellerID).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete book: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var sellerID int64
	if err := r.db.QueryRow(timeoutCtx, query, args...).Scan(&sellerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return sellerID, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyCode {
		return ErrSellerNotFound
	}
	return err
}
