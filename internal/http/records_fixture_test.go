package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/target/records-ui/internal/apiclient"
	"github.com/target/records-ui/internal/data"
	"github.com/target/records-ui/internal/domain/model"
	"github.com/target/records-ui/internal/service"
	"github.com/target/records-ui/internal/testutil"
)

const testCSRFToken = "test-csrf-token"

// recordsFixture is the whole UI router backed by the fake records API and an in-memory cache.
type recordsFixture struct {
	API      *testutil.RecordsAPI
	JobRoles *service.Collection[model.JobRole, model.JobRoleCreate]
	Posts    *service.Collection[model.Post, model.PostCreate]
	Handler  http.Handler
}

func newRecordsFixture(t *testing.T) *recordsFixture {
	t.Helper()
	api := testutil.NewRecordsAPI(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := apiclient.NewClient(apiclient.Config{
		BaseURL: api.BaseURL(),
		Timeout: 2 * time.Second,
		Logger:  logger,
	})
	require.NoError(t, err)
	jobRolesAPI, err := apiclient.JobRoles(client)
	require.NoError(t, err)
	postsAPI, err := apiclient.Posts(client)
	require.NoError(t, err)

	cache := data.NewMemoryCacheRepo(nil)
	jobRoles, err := service.NewCollection(service.CollectionOptions[model.JobRole, model.JobRoleCreate]{
		Entity:   "job_roles",
		PageSize: 10,
		API:      jobRolesAPI,
		Cache:    cache,
		Logger:   logger,
	})
	require.NoError(t, err)
	posts, err := service.NewCollection(service.CollectionOptions[model.Post, model.PostCreate]{
		Entity:   "posts",
		PageSize: 5,
		API:      postsAPI,
		Cache:    cache,
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		jobRoles.Wait()
		posts.Wait()
	})

	jobRolesRes, err := NewJobRolesResource(jobRoles)
	require.NoError(t, err)
	postsRes, err := NewPostsResource(posts)
	require.NoError(t, err)

	handler, err := NewRouter(RouterServices{
		Resources: []ResourceHandler{jobRolesRes, postsRes},
		Cache:     cache,
		Logger:    logger,
	})
	require.NoError(t, err)

	return &recordsFixture{API: api, JobRoles: jobRoles, Posts: posts, Handler: handler}
}

func (f *recordsFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.Handler.ServeHTTP(rec, req)
	return rec
}

// settle waits for background prefetches so request counts are stable.
func (f *recordsFixture) settle() {
	f.JobRoles.Wait()
	f.Posts.Wait()
}

func browserGet(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept", "text/html")
	return req
}

func htmxGet(target string) *http.Request {
	req := browserGet(target)
	req.Header.Set("Hx-Request", "true")
	return req
}

// formPost builds a form submission carrying a valid CSRF cookie and header.
func formPost(target string, form url.Values, htmx bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	if htmx {
		req.Header.Set("Hx-Request", "true")
	}
	return req
}

func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func findByID(n *html.Node, id string) *html.Node {
	nodes := findAll(n, func(n *html.Node) bool { return attr(n, "id") == id })
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// dataRows returns the record rows of a rendered table.
func dataRows(doc *html.Node) []*html.Node {
	return findAll(doc, func(n *html.Node) bool { return n.Data == "tr" && hasAttr(n, "data-id") })
}

// pagerButton returns the pager button labeled label ("Previous" or "Next").
func pagerButton(t *testing.T, doc *html.Node, label string) *html.Node {
	t.Helper()
	buttons := findAll(doc, func(n *html.Node) bool { return n.Data == "button" && textContent(n) == label })
	require.Len(t, buttons, 1, "pager button %q", label)
	return buttons[0]
}
