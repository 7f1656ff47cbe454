package model

import "time"

// Book represents a book record on a user's private shelf.
// OwnerID is set once at creation and never changes; a book is visible
// only to its owner.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
