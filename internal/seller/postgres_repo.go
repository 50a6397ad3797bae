package seller

import (
	"context"
	"errors"
	"time"

	"bookstore/internal/book"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

func (r *PostgresRepo) Create(ctx context.Context, s *Seller) error {
	const query = `
		INSERT INTO sellers (first_name, last_name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, s.FirstName, s.LastName, s.Email, s.Password).Scan(&s.ID)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Seller, error) {
	const query = `
		SELECT id, first_name, last_name, email, password
		FROM sellers
		ORDER BY id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Seller{}
	for rows.Next() {
		var s Seller
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Password); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetWithBooks reads the seller and its books in one repeatable-read
// snapshot so the two queries agree.
func (r *PostgresRepo) GetWithBooks(ctx context.Context, id int64) (Seller, []book.Book, error) {
	const sellerQuery = `
		SELECT id, first_name, last_name, email, password
		FROM sellers
		WHERE id = $1`
	const booksQuery = `
		SELECT id, title, author, year, count_pages, seller_id
		FROM books
		WHERE seller_id = $1
		ORDER BY id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		s     Seller
		books = []book.Book{}
	)
	txOpts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pgx.BeginTxFunc(timeoutCtx, r.db, txOpts, func(tx pgx.Tx) error {
		err := tx.QueryRow(timeoutCtx, sellerQuery, id).
			Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Password)
		if err != nil {
			return err
		}

		rows, err := tx.Query(timeoutCtx, booksQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var b book.Book
			if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.CountPages, &b.SellerID); err != nil {
				return err
			}
			books = append(books, b)
		}
		return rows.Err()
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Seller{}, nil, ErrNotFound
		}
		return Seller{}, nil, err
	}
	return s, books, nil
}

func (r *PostgresRepo) Update(ctx context.Context, s *Seller) error {
	const query = `
		UPDATE sellers
		SET first_name = $2, last_name = $3, email = $4, password = $5
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, s.ID, s.FirstName, s.LastName, s.Email, s.Password)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the seller; books owned by it are removed by the
// ON DELETE CASCADE foreign key.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM sellers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
