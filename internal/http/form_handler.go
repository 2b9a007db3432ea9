package httpx

import (
	"context"
	"errors"
	"net/http"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormSubmitter sends a parsed, locally valid form to its backing service.
type FormSubmitter[T any] func(ctx context.Context, req T) error

// FormRenderer renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// ErrorHandler maps a submit error to field errors and a general error message.
// Returning neither leaves the error to the default handler.
type ErrorHandler func(err error) (fieldErrors map[string]string, generalError string)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Parser   FormParser[T]
	Submit   FormSubmitter[T]
	Renderer FormRenderer
	// SuccessURL is where a plain (non-htmx) submission is redirected after success.
	SuccessURL string
	// OnSuccess, when set, writes the htmx success response instead of a redirect.
	OnSuccess func(w http.ResponseWriter, r *http.Request)
	PageMeta  PageMeta
	// Optional: additional data to pass to template on error
	ExtraData map[string]any
	// Optional: custom error handler for domain-specific errors
	HandleError ErrorHandler
	// ToastErrors sends general errors as an error toast as well as in the template data.
	ToastErrors bool
}

// HandleForm parses, validates and submits a create form.
//
// Field errors re-render the form with the entered values and never reach Submit.
// A failed Submit re-renders the form with the entered values and a general error.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Submit == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, "", data)
		return
	}

	if err := opts.Submit(opts.R.Context(), data); err != nil {
		handleFormServiceError(opts, err, data)
		return
	}

	switch {
	case IsHTMX(opts.R) && opts.OnSuccess != nil:
		opts.OnSuccess(opts.W, opts.R)
	case IsHTMX(opts.R):
		HTMX(opts.W).Redirect(opts.SuccessURL)
	default:
		http.Redirect(opts.W, opts.R, opts.SuccessURL, http.StatusSeeOther)
	}
}

// handleFormServiceError handles errors from Submit.
func handleFormServiceError[T any](opts FormHandlerOpts[T], err error, data T) {
	// The browser went away; nobody is left to show the form to.
	if errors.Is(err, context.Canceled) && opts.R.Context().Err() != nil {
		http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
		return
	}

	if opts.HandleError != nil {
		fieldErrors, generalError := opts.HandleError(err)
		if fieldErrors != nil || generalError != "" {
			opts.renderFormError(fieldErrors, generalError, data)
			return
		}
	}

	opts.renderFormError(nil, "Unable to save. Please try again.", data)
}

// renderFormError renders the form with errors and preserves form data.
func (fh FormHandlerOpts[T]) renderFormError(fieldErrors map[string]string, generalError string, data T) {
	if fh.ToastErrors && generalError != "" {
		triggerToast(fh.W, generalError, ToastError)
	}

	templateData := NewTemplateData(fh.R, fh.PageMeta).
		WithFieldErrors(fieldErrors)
	if generalError != "" {
		templateData.WithError(generalError)
	}

	// Extra data first so FormData can override if needed
	for k, v := range fh.ExtraData {
		templateData.With(k, v)
	}
	templateData.With("FormData", data)

	fh.Renderer(fh.W, fh.R, templateData.Build())
}
