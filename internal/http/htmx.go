package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

const hxTriggerHeader = "Hx-Trigger"

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsHistoryRestore reports true when htmx is restoring history (Hx-History-Restore-Request: true).
func IsHistoryRestore(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-History-Restore-Request"), "true")
}

// WantsPartial returns true when the handler should return only the main fragment (not full layout).
// History restores need the whole document because htmx swaps it into the body.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsHistoryRestore(r)
}

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXTrigger adds a client-side event with optional payload to the Hx-Trigger
// response header. Events already set on w are kept, so a response can fire
// several events. A nil payload is sent as true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}

	events := existingTriggers(w.Header().Get(hxTriggerHeader))
	events[event] = value

	b, err := json.Marshal(events)
	if err != nil {
		// Fall back to a boolean trigger if payload cannot be serialized
		w.Header().Set(hxTriggerHeader, "{\""+event+"\":true}")
		return
	}
	w.Header().Set(hxTriggerHeader, string(b))
}

// existingTriggers decodes a previously set Hx-Trigger value. htmx also
// accepts a comma separated list of bare event names, which become true.
func existingTriggers(raw string) map[string]any {
	events := map[string]any{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return events
	}
	if strings.HasPrefix(raw, "{") {
		if err := json.Unmarshal([]byte(raw), &events); err == nil {
			return events
		}
		return map[string]any{}
	}
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			events[name] = true
		}
	}
	return events
}
