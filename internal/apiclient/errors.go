package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// DefaultErrorMessage is shown when a failure carries no usable detail.
const DefaultErrorMessage = "Something went wrong."

// detailExpr picks the first validation message, a plain detail string, or a message field.
const detailExpr = "detail[0].msg || detail || message"

// APIError is a non-2xx response from the records API.
type APIError struct {
	Status int
	Body   []byte
	Detail string
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Body: body, Detail: extractDetail(body)}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("records api %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("records api %d: %s", e.Status, http.StatusText(e.Status))
}

// StatusCode returns the HTTP status of the failed call.
func (e *APIError) StatusCode() int { return e.Status }

// extractDetail returns the human readable detail of an error body, or "".
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}
	res, err := jmespath.Search(detailExpr, data)
	if err != nil {
		return ""
	}
	s, ok := res.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// UserMessage converts any client error into text fit for a toast.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return DefaultErrorMessage
}
