package httpx

import (
	"errors"
	"net/http"
)

// NotFound renders the 404 page for browsers and a JSON error for API clients.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}

	data := map[string]any{
		"Title":   "Page Not Found - Records UI",
		"Code":    "404",
		"Message": "The page you're looking for doesn't exist.",
		"Nav":     h.navItems(""),
		"Home":    h.homePath(),
	}

	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("failed to render not found page", "error", err, "path", r.URL.Path)
	}
}
