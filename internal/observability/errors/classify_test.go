package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	apperrors "github.com/target/records-ui/internal/errors"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error", err: apperrors.Unavailable("down"), want: "unavailable"},
		{name: "wrapped app error", err: fmt.Errorf("list: %w", apperrors.NotFound("x")), want: "not_found"},
		{name: "op error", err: fmt.Errorf("get: %w", &net.OpError{Op: "dial", Err: errors.New("refused")}), want: "errors_errorstring"},
		{name: "plain", err: errors.New("boom"), want: "errors_errorstring"},
		{name: "deadline", err: context.DeadlineExceeded, want: "context_deadlineexceedederror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
