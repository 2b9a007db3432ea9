//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Post is a post record owned by the records API.
type Post struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	AuthorID *uuid.UUID `json:"author_id,omitempty"`
}

// PostCreate is the payload sent to create a Post.
type PostCreate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate validates PostCreate.
func (r PostCreate) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required and cannot be empty")
	}
	return nil
}
