package httpx

import (
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/records-ui/internal/http/ui/viewmodel"
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T         *TemplateRenderer
	Resources []ResourceHandler
	IsDev     bool // Development mode flag for enhanced error reporting
	Logger    *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// navItems lists every registered resource, marking current as active.
func (h *UIHandlers) navItems(current string) []viewmodel.NavItem {
	items := make([]viewmodel.NavItem, 0, len(h.Resources))
	for _, res := range h.Resources {
		v := res.View()
		items = append(items, viewmodel.NavItem{Label: v.Heading, Href: v.BasePath, Active: v.Key == current})
	}
	return items
}

// homePath is where "/" sends the browser: the first registered resource.
func (h *UIHandlers) homePath() string {
	if len(h.Resources) == 0 {
		return ""
	}
	return h.Resources[0].View().BasePath
}

// Index redirects to the first resource's list page.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	target := h.homePath()
	if target == "" {
		h.NotFound(w, r)
		return
	}
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// buildPageURL returns basePath with page set, preserving other query params.
// htmx bookkeeping params and blank values are dropped.
func buildPageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(page))
	return basePath + "?" + qq.Encode()
}

// triggerToast sends a standardized HX-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	SetHXTrigger(w, EventShowToast, map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
	Nav         []viewmodel.NavItem
}

// buildLayout constructs shared layout metadata from the request context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	return viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		Nav:         meta.Nav,
	}
}

// basePageData constructs the common page data map.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":       layout.Title,
		"PageTitle":   layout.PageTitle,
		"CurrentPage": layout.CurrentPage,
		"Nav":         layout.Nav,
	}
	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	return data
}

// renderDashboardPage renders a page with proper HTMX partial support.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// For HTMX requests, render the content plus out-of-band header updates
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Hint client JS to update nav active state based on current path
	SetHXTrigger(w, EventNavActivate, map[string]string{"path": r.URL.Path})

	layout := extractLayoutInfo(data)

	// Include a <title> element so htmx updates document.title on partial swaps
	safeDocTitle := html.EscapeString(layout.Title)
	if _, err := w.Write([]byte(`<title>` + safeDocTitle + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}

	safeTitle := html.EscapeString(layout.PageTitle)
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + safeTitle + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.RenderNamed(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// renderFragment renders a single named template, for htmx swaps below page level.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.T.RenderNamed(w, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "fragment "+name)
	}
}

func extractLayoutInfo(data any) viewmodel.Layout {
	switch v := data.(type) {
	case viewmodel.LayoutProvider:
		if l := v.LayoutData(); l != nil {
			return *l
		}
	case viewmodel.Layout:
		return v
	case *viewmodel.Layout:
		if v != nil {
			return *v
		}
	case map[string]any:
		layout := viewmodel.Layout{}
		layout.Title, _ = v["Title"].(string)
		layout.PageTitle, _ = v["PageTitle"].(string)
		layout.CurrentPage, _ = v["CurrentPage"].(string)
		return layout
	}
	return viewmodel.Layout{}
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		if _, writeErr := w.Write([]byte(`
			<div class="template-error">
				<h2>Template Rendering Error</h2>
				<p><strong>Context:</strong> ` + contextHTML + `</p>
				<p><strong>Path:</strong> ` + pathHTML + `</p>
				<pre>` + errHTML + `</pre>
			</div>
		`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
