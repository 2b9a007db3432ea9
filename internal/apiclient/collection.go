package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/qri-io/jsonschema"

	"github.com/target/records-ui/internal/domain/model"
)

const (
	// JobRolesPath is the job roles collection endpoint.
	JobRolesPath = "/job-roles/"
	// PostsPath is the posts collection endpoint.
	PostsPath = "/posts/"
)

// Collection is a typed view of one records API collection endpoint.
// T is the record type and C the create payload.
type Collection[T any, C any] struct {
	client        *Client
	path          string
	listSchema    *jsonschema.Schema
	createdSchema *jsonschema.Schema
}

// NewCollection binds a collection endpoint. recordSchema is the JSON schema of a single record.
func NewCollection[T any, C any](c *Client, path, recordSchema string) (*Collection[T, C], error) {
	list, err := compileSchema(listingSchema(recordSchema))
	if err != nil {
		return nil, fmt.Errorf("%s list schema: %w", path, err)
	}
	created, err := compileSchema(recordSchema)
	if err != nil {
		return nil, fmt.Errorf("%s record schema: %w", path, err)
	}
	return &Collection[T, C]{client: c, path: path, listSchema: list, createdSchema: created}, nil
}

// JobRoles returns the job roles collection.
func JobRoles(c *Client) (*Collection[model.JobRole, model.JobRoleCreate], error) {
	return NewCollection[model.JobRole, model.JobRoleCreate](c, JobRolesPath, jobRoleSchema)
}

// Posts returns the posts collection.
func Posts(c *Client) (*Collection[model.Post, model.PostCreate], error) {
	return NewCollection[model.Post, model.PostCreate](c, PostsPath, postSchema)
}

// List fetches limit records starting at skip.
func (col *Collection[T, C]) List(ctx context.Context, skip, limit int) (*model.Listing[T], error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var out model.Listing[T]
	err := col.client.do(ctx, request{
		method: http.MethodGet,
		path:   col.path,
		query:  q,
		schema: col.listSchema,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	return &out, nil
}

// Create submits one create request and returns the stored record.
func (col *Collection[T, C]) Create(ctx context.Context, req C) (*T, error) {
	var out T
	err := col.client.do(ctx, request{
		method: http.MethodPost,
		path:   col.path,
		body:   req,
		schema: col.createdSchema,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
