package repository

import (
	"context"
	"fmt"

	"github.com/shelfmark/shelfmark/internal/model"
)

// CreateBook inserts a new book into the database.
// OwnerID must already be set from the authenticated caller.
func (r *Repository) CreateBook(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, title, author, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.OwnerID,
		book.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// ListBooksByOwner retrieves every book owned by the given user,
// most recently added first. Returns an empty slice, not an error,
// when the user owns none.
func (r *Repository) ListBooksByOwner(ctx context.Context, ownerID string) ([]*model.Book, error) {
	query := `
		SELECT id, title, author, owner_id, created_at
		FROM books
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]*model.Book, 0)
	for rows.Next() {
		var book model.Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.OwnerID,
			&book.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}
