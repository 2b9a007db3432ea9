package viewmodel

// NavItem is one entry of the sidebar navigation.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Layout captures shared chrome metadata (titles, navigation state, CSRF token).
type Layout struct {
	Title       string
	PageTitle   string
	CurrentPage string
	CSRFToken   string
	Nav         []NavItem
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
