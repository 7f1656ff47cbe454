package dto

import (
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
)

// CreateBookRequest is the body for adding a book.
// The owner is never taken from the request; it comes from the
// authenticated identity.
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BookResponse represents a book in API responses.
type BookResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToBookResponse converts a Book model to BookResponse.
func ToBookResponse(book *model.Book) BookResponse {
	return BookResponse{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		CreatedAt: book.CreatedAt,
	}
}

// ToBookListResponse converts a slice of Book models to responses.
// Always returns a non-nil slice so an empty shelf encodes as [].
func ToBookListResponse(books []*model.Book) []BookResponse {
	responses := make([]BookResponse, len(books))
	for i, book := range books {
		responses[i] = ToBookResponse(book)
	}
	return responses
}
