package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/target/records-ui/internal/domain/model"
)

// RecordsAPI is an in-memory stand-in for the records API served over httptest.
// It answers GET and POST on /api/v1/job-roles/ and /api/v1/posts/.
type RecordsAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	jobRoles []model.JobRole
	posts    []model.Post
	requests []RecordedRequest
	failNext map[string]int
}

// RecordedRequest is one request observed by RecordsAPI.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// NewRecordsAPI starts a fake records API and closes it when the test ends.
func NewRecordsAPI(t testing.TB) *RecordsAPI {
	t.Helper()
	api := &RecordsAPI{failNext: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/job-roles/", api.handleJobRoles)
	mux.HandleFunc("/api/v1/posts/", api.handlePosts)
	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Server.Close)
	return api
}

// BaseURL is the API root to configure clients with.
func (a *RecordsAPI) BaseURL() string { return a.Server.URL + "/api/v1" }

// SeedJobRoles appends n job roles named "Role 1".."Role n" after any existing ones.
func (a *RecordsAPI) SeedJobRoles(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	start := len(a.jobRoles)
	for i := 1; i <= n; i++ {
		a.jobRoles = append(a.jobRoles, model.JobRole{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("Role %d", start+i),
			Description: fmt.Sprintf("Description %d", start+i),
		})
	}
}

// SeedPosts appends n posts titled "Post 1".."Post n" after any existing ones.
func (a *RecordsAPI) SeedPosts(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	start := len(a.posts)
	for i := 1; i <= n; i++ {
		a.posts = append(a.posts, model.Post{
			ID:      uuid.New(),
			Title:   fmt.Sprintf("Post %d", start+i),
			Content: fmt.Sprintf("Content %d", start+i),
		})
	}
}

// FailNext makes the next n requests with the given method answer 500.
func (a *RecordsAPI) FailNext(method string, n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failNext[method] = n
}

// Requests returns a copy of the observed requests.
func (a *RecordsAPI) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]RecordedRequest(nil), a.requests...)
}

// CountRequests counts observed requests by method and path.
func (a *RecordsAPI) CountRequests(method, path string) int {
	n := 0
	for _, r := range a.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (a *RecordsAPI) record(r *http.Request) (string, bool) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
	})
	if a.failNext[r.Method] > 0 {
		a.failNext[r.Method]--
		return string(body), true
	}
	return string(body), false
}

func (a *RecordsAPI) handleJobRoles(w http.ResponseWriter, r *http.Request) {
	body, fail := a.record(r)
	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "records api unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.mu.Lock()
		page := window(a.jobRoles, r)
		total := len(a.jobRoles)
		a.mu.Unlock()
		writeJSON(w, http.StatusOK, model.Listing[model.JobRole]{Data: page, Count: total})
	case http.MethodPost:
		var in model.JobRoleCreate
		if err := json.Unmarshal([]byte(body), &in); err != nil || strings.TrimSpace(in.Name) == "" {
			writeJSON(w, http.StatusUnprocessableEntity, validationDetail("name", "field required"))
			return
		}
		role := model.JobRole{ID: uuid.New(), Name: in.Name, Description: in.Description}
		a.mu.Lock()
		a.jobRoles = append(a.jobRoles, role)
		a.mu.Unlock()
		writeJSON(w, http.StatusOK, role)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *RecordsAPI) handlePosts(w http.ResponseWriter, r *http.Request) {
	body, fail := a.record(r)
	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "records api unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.mu.Lock()
		page := window(a.posts, r)
		total := len(a.posts)
		a.mu.Unlock()
		writeJSON(w, http.StatusOK, model.Listing[model.Post]{Data: page, Count: total})
	case http.MethodPost:
		var in model.PostCreate
		if err := json.Unmarshal([]byte(body), &in); err != nil || strings.TrimSpace(in.Title) == "" {
			writeJSON(w, http.StatusUnprocessableEntity, validationDetail("title", "field required"))
			return
		}
		post := model.Post{ID: uuid.New(), Title: in.Title, Content: in.Content}
		a.mu.Lock()
		a.posts = append(a.posts, post)
		a.mu.Unlock()
		writeJSON(w, http.StatusOK, post)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// window applies skip/limit to all, copying the slice.
func window[T any](all []T, r *http.Request) []T {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 100
	}
	if skip < 0 || skip >= len(all) || limit <= 0 {
		return []T{}
	}
	end := min(skip+limit, len(all))
	return append([]T(nil), all[skip:end]...)
}

func validationDetail(field, msg string) map[string]any {
	return map[string]any{
		"detail": []map[string]any{{"loc": []string{"body", field}, "msg": msg, "type": "value_error.missing"}},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
