package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a user-authored post.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// AuthorEmail is joined in on reads. Empty when the author account
	// no longer exists.
	AuthorEmail string `json:"author_email,omitempty"`
}
