package viewmodel

// Resource describes one record collection to the shared records templates.
type Resource struct {
	// Key is the URL segment and DOM id prefix, e.g. "job-roles".
	Key string
	// Heading is the page heading, e.g. "Job Roles".
	Heading string
	// Label is the singular display name, e.g. "Job Role".
	Label    string
	BasePath string
	Columns  []string
	PageSize int
}

// TableURL is the address of the table fragment.
func (r Resource) TableURL() string { return r.BasePath + "/table" }

// NewURL is the address of the create modal.
func (r Resource) NewURL() string { return r.BasePath + "/new" }

// Row is one table row; Cells line up with Resource.Columns minus the trailing Actions column.
type Row struct {
	ID    string
	Cells []string
}

// FormField is one input of the create modal.
type FormField struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
	Error       string
	Required    bool
	Multiline   bool
}
