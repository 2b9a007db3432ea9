package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type statusErr struct{ status int }

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e statusErr) StatusCode() int { return e.status }

func TestMapRemoteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), code: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, code: ErrCodeCanceled},
		{name: "transport", err: errors.New("dial tcp: connection refused"), code: ErrCodeUnavailable},
		{name: "bad request", err: statusErr{http.StatusBadRequest}, code: ErrCodeValidation},
		{name: "unprocessable", err: statusErr{http.StatusUnprocessableEntity}, code: ErrCodeValidation},
		{name: "unauthorized", err: statusErr{http.StatusUnauthorized}, code: ErrCodeUnauthorized},
		{name: "forbidden", err: statusErr{http.StatusForbidden}, code: ErrCodeUnauthorized},
		{name: "not found", err: statusErr{http.StatusNotFound}, code: ErrCodeNotFound},
		{name: "conflict", err: statusErr{http.StatusConflict}, code: ErrCodeConflict},
		{name: "gateway timeout", err: statusErr{http.StatusGatewayTimeout}, code: ErrCodeTimeout},
		{name: "server error", err: fmt.Errorf("wrap: %w", statusErr{http.StatusInternalServerError}), code: ErrCodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapRemoteError(tt.err)
			if code := GetCode(got); code != tt.code {
				t.Fatalf("MapRemoteError() code = %v, want %v", code, tt.code)
			}
			if !errors.Is(got, tt.err) {
				t.Fatalf("MapRemoteError() should keep the original error as cause")
			}
		})
	}
}

func TestMapRemoteError_PassThrough(t *testing.T) {
	if MapRemoteError(nil) != nil {
		t.Fatalf("MapRemoteError(nil) should be nil")
	}

	orig := Validation("Name is required.")
	if got := MapRemoteError(orig); got != error(orig) {
		t.Fatalf("MapRemoteError() should return existing AppError unchanged")
	}
}
