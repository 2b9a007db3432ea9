//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Listing is the list envelope returned by the records API collection endpoints.
// Count is the total number of records the caller may see; it is informational only.
type Listing[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// Len returns the number of records on this page.
func (l *Listing[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Data)
}

// CreateRequest is implemented by create payloads that can be checked before submission.
type CreateRequest interface {
	Validate() error
}
