package core

import (
	"context"

	"github.com/target/records-ui/internal/domain/model"
)

// RecordAPI is the remote collection endpoint for one record type.
// T is the record and C its create payload.
type RecordAPI[T any, C any] interface {
	// List returns up to limit records after skipping skip records.
	List(ctx context.Context, skip, limit int) (*model.Listing[T], error)

	// Create submits one create request and returns the stored record.
	Create(ctx context.Context, req C) (*T, error)
}
