package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/shelfmark/shelfmark/internal/metrics"
	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/validate"
)

const (
	maxTitleLength  = 200
	maxAuthorLength = 100
)

// BookStore is the persistence surface the book service needs.
type BookStore interface {
	CreateBook(ctx context.Context, book *model.Book) error
	ListBooksByOwner(ctx context.Context, ownerID string) ([]*model.Book, error)
}

// BookService handles the per-user book shelf.
// Ownership always comes from the gate-resolved identity, never from
// request input.
type BookService struct {
	books   BookStore
	metrics metrics.Recorder
}

// NewBookService creates a new BookService.
func NewBookService(books BookStore, recorder metrics.Recorder) *BookService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BookService{
		books:   books,
		metrics: recorder,
	}
}

var createBookRules = []validate.Rule{
	validate.Required("title", "Title is required"),
	validate.MaxLength("title", maxTitleLength, "Title cannot exceed 200 characters"),
	validate.Required("author", "Author is required"),
	validate.MaxLength("author", maxAuthorLength, "Author name cannot exceed 100 characters"),
}

// ListBooks returns every book owned by ownerID, most recently added
// first. An empty shelf yields an empty slice.
func (s *BookService) ListBooks(ctx context.Context, ownerID string) ([]*model.Book, error) {
	books, err := s.books.ListBooksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// CreateBook validates and persists a new book owned by ownerID.
func (s *BookService) CreateBook(ctx context.Context, ownerID, title, author string) (*model.Book, error) {
	if errs := validate.Run(map[string]string{"title": title, "author": author}, createBookRules); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	book := &model.Book{
		ID:        ulid.Make().String(),
		Title:     strings.TrimSpace(title),
		Author:    strings.TrimSpace(author),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.metrics.IncBookCreated()

	return book, nil
}
