package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/target/records-ui/internal/apiclient"
	"github.com/target/records-ui/internal/domain/model"
	apperrors "github.com/target/records-ui/internal/errors"
	"github.com/target/records-ui/internal/http/ui/viewmodel"
	"github.com/target/records-ui/internal/http/validation"
	"github.com/target/records-ui/internal/service"
)

// RecordCollection is the part of service.Collection a Resource depends on.
type RecordCollection[T any, C model.CreateRequest] interface {
	Page(ctx context.Context, page int) (*service.PageResult[T], error)
	Cached(ctx context.Context, page int) (*service.PageResult[T], bool)
	Prefetch(ctx context.Context, page int)
	Create(ctx context.Context, req C) (*T, error)
	PageSize() int
}

var (
	_ RecordCollection[model.JobRole, model.JobRoleCreate] = (*service.Collection[model.JobRole, model.JobRoleCreate])(nil)
	_ RecordCollection[model.Post, model.PostCreate]       = (*service.Collection[model.Post, model.PostCreate])(nil)
)

// ResourceHandler is a Resource with its record types erased, as the router sees it.
type ResourceHandler interface {
	View() viewmodel.Resource
	Register(mux *http.ServeMux, h *UIHandlers)
}

// FieldSpec describes one input of a create form.
type FieldSpec struct {
	Name        string
	Label       string
	Placeholder string
	Required    bool
	Multiline   bool
}

// validators returns the local checks for the field. Optional fields have none.
func (f FieldSpec) validators() []validation.Validator {
	if f.Required {
		return []validation.Validator{validation.Required(f.Label)}
	}
	return nil
}

// ResourceConfig describes one record collection to the UI.
type ResourceConfig[T any, C model.CreateRequest] struct {
	Key      string
	Heading  string
	Label    string
	BasePath string
	// Columns are the table headings; the last one is the row actions column.
	Columns []string
	Fields  []FieldSpec
	Row     RowProjector[T]
	// Build converts trimmed form values keyed by field name into the create payload.
	Build func(values map[string]string) C
	// Values is the inverse of Build, used to refill the form.
	Values         func(C) map[string]string
	SuccessMessage string
	// LoadError is the banner shown when a page cannot be fetched.
	LoadError  string
	Collection RecordCollection[T, C]
}

// Resource serves the list page, table fragment and create modal of one collection.
type Resource[T any, C model.CreateRequest] struct {
	cfg  ResourceConfig[T, C]
	view viewmodel.Resource
}

// NewResource validates cfg and builds a Resource.
func NewResource[T any, C model.CreateRequest](cfg ResourceConfig[T, C]) (*Resource[T, C], error) {
	switch {
	case cfg.Key == "":
		return nil, errors.New("resource key is required")
	case cfg.Collection == nil:
		return nil, fmt.Errorf("%s: collection is required", cfg.Key)
	case cfg.Row == nil || cfg.Build == nil || cfg.Values == nil:
		return nil, fmt.Errorf("%s: row, build and values funcs are required", cfg.Key)
	case len(cfg.Fields) == 0:
		return nil, fmt.Errorf("%s: at least one form field is required", cfg.Key)
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/" + cfg.Key
	}
	return &Resource[T, C]{
		cfg: cfg,
		view: viewmodel.Resource{
			Key:      cfg.Key,
			Heading:  cfg.Heading,
			Label:    cfg.Label,
			BasePath: cfg.BasePath,
			Columns:  cfg.Columns,
			PageSize: cfg.Collection.PageSize(),
		},
	}, nil
}

// NewJobRolesResource describes the job roles collection.
func NewJobRolesResource(col RecordCollection[model.JobRole, model.JobRoleCreate]) (*Resource[model.JobRole, model.JobRoleCreate], error) {
	return NewResource(ResourceConfig[model.JobRole, model.JobRoleCreate]{
		Key:      PageJobRoles,
		Heading:  "Job Roles",
		Label:    "Job Role",
		BasePath: "/" + PageJobRoles,
		Columns:  []string{"Name", "Description", "Actions"},
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Placeholder: "Name", Required: true},
			{Name: "description", Label: "Description", Placeholder: "Description", Multiline: true},
		},
		Row: func(jr model.JobRole) viewmodel.Row {
			return viewmodel.Row{ID: jr.ID.String(), Cells: []string{jr.Name, jr.Description}}
		},
		Build: func(v map[string]string) model.JobRoleCreate {
			return model.JobRoleCreate{Name: v["name"], Description: v["description"]}
		},
		Values: func(c model.JobRoleCreate) map[string]string {
			return map[string]string{"name": c.Name, "description": c.Description}
		},
		SuccessMessage: "Job role created successfully.",
		LoadError:      "Unable to load job roles.",
		Collection:     col,
	})
}

// NewPostsResource describes the posts collection.
func NewPostsResource(col RecordCollection[model.Post, model.PostCreate]) (*Resource[model.Post, model.PostCreate], error) {
	return NewResource(ResourceConfig[model.Post, model.PostCreate]{
		Key:      PagePosts,
		Heading:  "Posts",
		Label:    "Post",
		BasePath: "/" + PagePosts,
		Columns:  []string{"Title", "Content", "Actions"},
		Fields: []FieldSpec{
			{Name: "title", Label: "Title", Placeholder: "Title", Required: true},
			{Name: "content", Label: "Content", Placeholder: "Content", Multiline: true},
		},
		Row: func(p model.Post) viewmodel.Row {
			return viewmodel.Row{ID: p.ID.String(), Cells: []string{p.Title, p.Content}}
		},
		Build: func(v map[string]string) model.PostCreate {
			return model.PostCreate{Title: v["title"], Content: v["content"]}
		},
		Values: func(c model.PostCreate) map[string]string {
			return map[string]string{"title": c.Title, "content": c.Content}
		},
		SuccessMessage: "Post created successfully.",
		LoadError:      "Unable to load posts.",
		Collection:     col,
	})
}

// View returns the template description of the resource.
func (rs *Resource[T, C]) View() viewmodel.Resource { return rs.view }

// Register mounts the resource routes on mux.
func (rs *Resource[T, C]) Register(mux *http.ServeMux, h *UIHandlers) {
	base := rs.cfg.BasePath
	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) { rs.page(h, w, r) })
	mux.HandleFunc("GET "+base+"/table", func(w http.ResponseWriter, r *http.Request) { rs.table(h, w, r) })
	mux.HandleFunc("GET "+base+"/new", func(w http.ResponseWriter, r *http.Request) { rs.newForm(h, w, r) })
	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) { rs.create(h, w, r) })
}

func (rs *Resource[T, C]) pageMeta(h *UIHandlers) PageMeta {
	return PageMeta{
		Title:       rs.cfg.Heading + " - Records UI",
		PageTitle:   rs.cfg.Heading,
		CurrentPage: rs.cfg.Key,
		Nav:         h.navItems(rs.cfg.Key),
	}
}

func (rs *Resource[T, C]) listOpts(h *UIHandlers, w http.ResponseWriter, r *http.Request) ListHandlerOpts[T] {
	return ListHandlerOpts[T]{
		Handler:      h,
		W:            w,
		R:            r,
		Project:      rs.cfg.Row,
		Resource:     rs.view,
		PageMeta:     rs.pageMeta(h),
		ErrorMessage: rs.cfg.LoadError,
	}
}

// page renders the full page from cache, or a placeholder that loads the table.
func (rs *Resource[T, C]) page(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	opts := rs.listOpts(h, w, r)
	opts.Peek = rs.peek
	HandleList(opts)
}

// table renders only the table for the requested page, fetching it when needed.
func (rs *Resource[T, C]) table(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	opts := rs.listOpts(h, w, r)
	opts.Fetcher = rs.fetch
	opts.Fragment = tmplRecordsTable
	HandleList(opts)
}

func (rs *Resource[T, C]) peek(ctx context.Context, page int) (*ListPage[T], bool) {
	res, ok := rs.cfg.Collection.Cached(ctx, page)
	if !ok {
		return nil, false
	}
	if res.HasNext() {
		rs.cfg.Collection.Prefetch(ctx, res.Request.Page+1)
	}
	return &ListPage[T]{Page: res.Request.Page, Records: res.Records}, true
}

func (rs *Resource[T, C]) fetch(ctx context.Context, page int) (*ListPage[T], error) {
	res, err := rs.cfg.Collection.Page(ctx, page)
	if err != nil {
		return nil, err
	}
	return &ListPage[T]{Page: res.Request.Page, Records: res.Records}, nil
}

// newForm renders the create modal with empty defaults.
func (rs *Resource[T, C]) newForm(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	var empty C
	data := NewTemplateData(r, rs.pageMeta(h)).With("FormData", empty).Build()
	rs.renderModal(h, w, r, data)
}

// create validates locally, submits once and either closes the modal or re-renders it.
func (rs *Resource[T, C]) create(h *UIHandlers, w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[C]{
		W:      w,
		R:      r,
		Parser: rs.parse,
		Submit: func(ctx context.Context, req C) error {
			_, err := rs.cfg.Collection.Create(ctx, req)
			if err != nil {
				h.logger().InfoContext(ctx, "create failed", "resource", rs.cfg.Key, "error", err)
			}
			return err
		},
		Renderer: func(w http.ResponseWriter, r *http.Request, data map[string]any) {
			rs.renderModal(h, w, r, data)
		},
		SuccessURL:  rs.cfg.BasePath,
		OnSuccess:   rs.created,
		PageMeta:    rs.pageMeta(h),
		HandleError: rs.createError,
		ToastErrors: true,
	})
}

// created empties the modal root and tells the page to toast and reload the table.
func (rs *Resource[T, C]) created(w http.ResponseWriter, _ *http.Request) {
	HTMX(w).
		Toast(rs.cfg.SuccessMessage, ToastSuccess).
		Trigger(EventRecordsChanged, map[string]any{"entity": rs.cfg.Key})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

// createError turns a failed create into the toast text. A validation failure
// raised before the remote call is shown next to the first required field.
func (rs *Resource[T, C]) createError(err error) (map[string]string, string) {
	var apiErr *apiclient.APIError
	if apperrors.IsValidation(err) && !errors.As(err, &apiErr) {
		for _, f := range rs.cfg.Fields {
			if f.Required {
				return map[string]string{f.Name: f.Label + " is required."}, ""
			}
		}
	}
	return nil, apiclient.UserMessage(err)
}

func (rs *Resource[T, C]) parse(r *http.Request) (C, map[string]string) {
	if err := r.ParseForm(); err != nil {
		var zero C
		return zero, map[string]string{"_form": "Invalid form submission."}
	}

	values := make(map[string]string, len(rs.cfg.Fields))
	v := validation.New()
	for _, f := range rs.cfg.Fields {
		values[f.Name] = r.PostForm.Get(f.Name)
		v.Validate(f.Name, values[f.Name], f.validators()...)
	}
	return rs.cfg.Build(values), v.Errors()
}

// fields merges the field specs with entered values and inline errors.
func (rs *Resource[T, C]) fields(data map[string]any) []viewmodel.FormField {
	var values map[string]string
	if c, ok := data["FormData"].(C); ok {
		values = rs.cfg.Values(c)
	}
	errs, _ := data["Errors"].(map[string]string)

	out := make([]viewmodel.FormField, 0, len(rs.cfg.Fields))
	for _, f := range rs.cfg.Fields {
		out = append(out, viewmodel.FormField{
			Name:        f.Name,
			Label:       f.Label,
			Placeholder: f.Placeholder,
			Value:       values[f.Name],
			Error:       errs[f.Name],
			Required:    f.Required,
			Multiline:   f.Multiline,
		})
	}
	return out
}

// renderModal renders the modal alone for htmx, or the whole page with the
// modal open for plain browser requests.
func (rs *Resource[T, C]) renderModal(h *UIHandlers, w http.ResponseWriter, r *http.Request, data map[string]any) {
	data["Resource"] = rs.view
	data["Fields"] = rs.fields(data)
	if errs, ok := data["Errors"].(map[string]string); ok {
		data["FormError"] = errs["_form"]
	}

	if IsHTMX(r) {
		h.renderFragment(w, r, tmplRecordModal, data)
		return
	}

	data["ModalOpen"] = true
	data["Loading"] = true
	data["LoadURL"] = buildPageURL(rs.view.TableURL(), url.Values{}, model.FirstPage)
	data["Pagination"] = viewmodel.Pagination{Page: model.FirstPage, PageSize: rs.view.PageSize}
	h.renderDashboardPage(w, r, data)
}
