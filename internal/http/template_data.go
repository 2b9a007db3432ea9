package httpx

import (
	"net/http"

	"github.com/target/records-ui/internal/http/ui/viewmodel"
)

// PaginationData contains pagination information for list views.
type PaginationData struct {
	Page     int
	PageSize int
	HasPrev  bool
	HasNext  bool
	// Returned is the number of records on the page; it sets the displayed range.
	Returned int
	// BasePath is the full page path; the table fragment lives at BasePath + "/table".
	BasePath string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds a viewmodel.Pagination under "Pagination" with Prev/Next URLs
// for both the full page and the table fragment.
func (b *TemplateDataBuilder) WithPagination(opts PaginationData) *TemplateDataBuilder {
	p := viewmodel.Pagination{
		Page:     opts.Page,
		PageSize: opts.PageSize,
		HasPrev:  opts.HasPrev,
		HasNext:  opts.HasNext,
	}
	if opts.Returned > 0 {
		offset := (opts.Page - 1) * opts.PageSize
		p.StartIndex = offset + 1
		p.EndIndex = offset + opts.Returned
	}

	q := b.r.URL.Query()
	if opts.HasPrev {
		p.PrevURL = buildPageURL(opts.BasePath, q, opts.Page-1)
		p.PrevFragmentURL = buildPageURL(opts.BasePath+"/table", q, opts.Page-1)
	}
	if opts.HasNext {
		p.NextURL = buildPageURL(opts.BasePath, q, opts.Page+1)
		p.NextFragmentURL = buildPageURL(opts.BasePath+"/table", q, opts.Page+1)
	}

	b.data["Pagination"] = p
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
