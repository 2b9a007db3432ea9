package httpx

// CurrentPage identifiers used for navigation state and template lookup.
const (
	PageJobRoles = "job-roles"
	PagePosts    = "posts"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Client-side events sent through the Hx-Trigger response header.
const (
	EventShowToast      = "showToast"
	EventRecordsChanged = "recordsChanged"
	EventNavActivate    = "nav:activate"
)

// Toast types understood by the client toast listener.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Fragment templates rendered for htmx swaps.
const (
	tmplRecordsTable = "records-table"
	tmplRecordModal  = "record-modal"
)

// Every records page shares one content template; the Resource in the data decides what it shows.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageJobRoles: "records-content",
	PagePosts:    "records-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to records-content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "records-content"
}
