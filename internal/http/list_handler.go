package httpx

import (
	"context"
	"net/http"

	"github.com/target/records-ui/internal/domain/model"
	"github.com/target/records-ui/internal/http/ui/viewmodel"
)

// ListPage is one fetched page of records of type T.
type ListPage[T any] struct {
	Page    int
	Records []T
}

// ListFetcher fetches one page of records, calling the remote when needed.
type ListFetcher[T any] func(ctx context.Context, page int) (*ListPage[T], error)

// ListPeeker returns a page only when it can be served without waiting on the remote.
type ListPeeker[T any] func(ctx context.Context, page int) (*ListPage[T], bool)

// RowProjector converts a record into the cells of one table row.
type RowProjector[T any] func(T) viewmodel.Row

// ListHandlerOpts contains all options needed for the generic list handler.
type ListHandlerOpts[T any] struct {
	// Handler is the UIHandlers instance for rendering (required)
	Handler *UIHandlers
	// W is the HTTP response writer (required)
	W http.ResponseWriter
	// R is the HTTP request (required)
	R *http.Request
	// Fetcher loads the requested page (required unless Peek always hits)
	Fetcher ListFetcher[T]
	// Peek, when set, replaces Fetcher: a miss renders the loading placeholder
	// and leaves fetching to the table fragment endpoint.
	Peek ListPeeker[T]
	// Project converts records to rows (required)
	Project RowProjector[T]
	// Resource describes the collection to the templates
	Resource viewmodel.Resource
	// PageMeta contains page metadata for rendering
	PageMeta PageMeta
	// ErrorMessage is the banner shown when fetching fails
	ErrorMessage string
	// Fragment renders only this template instead of the whole page (e.g. the table)
	Fragment string
}

// HandleList renders one fixed-size page of a collection.
//
// Previous is enabled for every page after the first. Next is enabled only
// when the page came back full, i.e. held exactly PageSize records.
func HandleList[T any](opts ListHandlerOpts[T]) {
	if !validateListHandlerDeps(opts) {
		return
	}

	page := model.NewPageRequest(model.ParsePage(opts.R.URL.Query().Get("page")), opts.Resource.PageSize).Page

	if opts.Peek != nil {
		res, ok := opts.Peek(opts.R.Context(), page)
		if !ok {
			opts.renderLoading(page)
			return
		}
		renderListSuccess(opts, orEmptyPage(res, page))
		return
	}

	res, err := opts.Fetcher(opts.R.Context(), page)
	if err != nil {
		opts.Handler.logger().WarnContext(opts.R.Context(), "list fetch failed",
			"resource", opts.Resource.Key,
			"page", page,
			"error", err,
		)
		opts.renderListError(page, opts.ErrorMessage)
		return
	}
	renderListSuccess(opts, orEmptyPage(res, page))
}

func orEmptyPage[T any](res *ListPage[T], page int) *ListPage[T] {
	if res == nil {
		return &ListPage[T]{Page: page}
	}
	return res
}

// validateListHandlerDeps checks required dependencies and returns false if any are nil.
func validateListHandlerDeps[T any](opts ListHandlerOpts[T]) bool {
	if opts.W == nil || opts.R == nil || opts.Handler == nil || opts.Project == nil ||
		(opts.Fetcher == nil && opts.Peek == nil) {
		if opts.W != nil {
			http.Error(opts.W, "Internal configuration error", http.StatusInternalServerError)
		}
		return false
	}
	return true
}

// builder starts template data shared by every list rendering.
func (lh *ListHandlerOpts[T]) builder() *TemplateDataBuilder {
	return NewTemplateData(lh.R, lh.PageMeta).With("Resource", lh.Resource)
}

// renderLoading renders the table as a single placeholder row that loads the real page.
func (lh *ListHandlerOpts[T]) renderLoading(page int) {
	b := lh.builder().
		With("Loading", true).
		With("LoadURL", buildPageURL(lh.Resource.TableURL(), lh.R.URL.Query(), page)).
		WithPagination(PaginationData{
			Page:     page,
			PageSize: lh.Resource.PageSize,
			HasPrev:  page > model.FirstPage,
			BasePath: lh.Resource.BasePath,
		})
	lh.render(b.Build())
}

// renderListError renders the error banner; Previous follows the page rule, Next stays disabled.
func (lh *ListHandlerOpts[T]) renderListError(page int, errMsg string) {
	b := lh.builder().
		With("Rows", []viewmodel.Row{}).
		WithPagination(PaginationData{
			Page:     page,
			PageSize: lh.Resource.PageSize,
			HasPrev:  page > model.FirstPage,
			BasePath: lh.Resource.BasePath,
		}).
		WithError(errMsg)
	lh.render(b.Build())
}

// renderListSuccess renders the rows and pagination of a fetched page.
func renderListSuccess[T any](lh ListHandlerOpts[T], res *ListPage[T]) {
	req := model.NewPageRequest(res.Page, lh.Resource.PageSize)

	rows := make([]viewmodel.Row, 0, len(res.Records))
	for _, rec := range res.Records {
		rows = append(rows, lh.Project(rec))
	}

	b := lh.builder().
		With("Rows", rows).
		WithPagination(PaginationData{
			Page:     req.Page,
			PageSize: req.Size,
			HasPrev:  req.HasPrev(),
			HasNext:  req.HasNext(len(res.Records)),
			Returned: len(res.Records),
			BasePath: lh.Resource.BasePath,
		})
	lh.render(b.Build())
}

func (lh *ListHandlerOpts[T]) render(data map[string]any) {
	if lh.Fragment != "" {
		lh.Handler.renderFragment(lh.W, lh.R, lh.Fragment, data)
		return
	}
	lh.Handler.renderDashboardPage(lh.W, lh.R, data)
}
