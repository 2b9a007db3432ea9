//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"math"
	"strconv"
	"strings"
)

// FirstPage is the page shown when no valid page number is supplied.
const FirstPage = 1

// PageRequest identifies one fixed-size page of a collection.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest builds a PageRequest. Page numbers below 1, and pages whose
// offset would not fit in an int, are normalized to FirstPage.
func NewPageRequest(page, size int) PageRequest {
	if page < FirstPage || page > MaxPage(size) {
		page = FirstPage
	}
	return PageRequest{Page: page, Size: size}
}

// MaxPage is the last page number whose offset plus size still fits in an int.
func MaxPage(size int) int {
	if size <= 0 {
		return math.MaxInt
	}
	return (math.MaxInt-size)/size + 1
}

// Offset is the number of records skipped before this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// Limit is the maximum number of records on this page.
func (p PageRequest) Limit() int {
	return p.Size
}

// HasPrev reports whether a previous page exists.
func (p PageRequest) HasPrev() bool {
	return p.Page > FirstPage
}

// HasNext reports whether a following page may exist given the number of
// records returned for this page. Only a full page implies another one.
func (p PageRequest) HasNext(returned int) bool {
	return p.Size > 0 && returned == p.Size && p.Page < MaxPage(p.Size)
}

// Next returns the following page. The last addressable page is its own successor.
func (p PageRequest) Next() PageRequest {
	if p.Page >= MaxPage(p.Size) {
		return p
	}
	return PageRequest{Page: p.Page + 1, Size: p.Size}
}

// Prev returns the preceding page, never going below FirstPage.
func (p PageRequest) Prev() PageRequest {
	return NewPageRequest(p.Page-1, p.Size)
}

// ParsePage parses a page query value. Missing, non-numeric and
// non-positive values yield FirstPage.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < FirstPage {
		return FirstPage
	}
	return n
}
