package viewmodel

// Pagination contains pagination metadata for list views.
//
// PrevURL and NextURL address the full page and go into the browser history;
// PrevFragmentURL and NextFragmentURL address the table fragment that htmx swaps in.
type Pagination struct {
	Page       int
	PageSize   int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int

	PrevURL         string
	NextURL         string
	PrevFragmentURL string
	NextFragmentURL string
}
