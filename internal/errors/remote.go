package errors

import (
	"context"
	"errors"
	"net/http"
)

// StatusCoder is implemented by errors that carry the HTTP status of a failed remote call.
type StatusCoder interface {
	StatusCode() int
}

// MapRemoteError maps a records API failure to an AppError.
//
//   - context deadline/cancel → Timeout/Canceled
//   - 400/422 → Validation, 401/403 → Unauthorized, 404 → NotFound, 409 → Conflict
//   - other 4xx → Validation, 5xx → Unavailable
//   - transport errors (no status) → Unavailable
//
// The returned AppError keeps err as its cause. A nil err maps to nil and an
// existing AppError is returned unchanged.
func MapRemoteError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}

	var sc StatusCoder
	if !errors.As(err, &sc) {
		return &AppError{Code: ErrCodeUnavailable, Message: "Records service is unavailable.", Cause: err}
	}

	return &AppError{Code: codeForStatus(sc.StatusCode()), Message: http.StatusText(sc.StatusCode()), Cause: err}
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrCodeUnauthorized
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrCodeTimeout
	case status >= 400 && status < 500:
		return ErrCodeValidation
	case status >= 500:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}
