package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	if !IsHTMX(r) {
		t.Fatal("expected IsHTMX true")
	}

	r2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	if IsHTMX(r2) || IsHistoryRestore(r2) {
		t.Fatal("expected defaults to false")
	}
}

func TestHTMX_HistoryRestore_WantsFullPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	if !WantsPartial(r) {
		t.Fatal("htmx request should want partial")
	}
	r.Header.Set("Hx-History-Restore-Request", "true")
	if WantsPartial(r) {
		t.Fatal("history restore needs the whole document")
	}
}

func TestHTMX_SetHXTrigger_MergesEvents(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXTrigger(rr, EventShowToast, map[string]any{"message": "Saved", "type": ToastSuccess})
	SetHXTrigger(rr, EventRecordsChanged, map[string]any{"entity": PagePosts})
	SetHXTrigger(rr, "plain", nil)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload); err != nil {
		t.Fatalf("unmarshal trigger: %v", err)
	}
	if len(payload) != 3 {
		t.Fatalf("expected three events, got %v", payload)
	}
	if string(payload["plain"]) != "true" {
		t.Fatalf("nil payload should be true, got %s", payload["plain"])
	}
	var changed map[string]string
	if err := json.Unmarshal(payload[EventRecordsChanged], &changed); err != nil || changed["entity"] != PagePosts {
		t.Fatalf("recordsChanged payload: %s (%v)", payload[EventRecordsChanged], err)
	}
}

func TestHTMX_SetHXTrigger_KeepsBareEventNames(t *testing.T) {
	rr := httptest.NewRecorder()
	rr.Header().Set("Hx-Trigger", "first, second")
	SetHXTrigger(rr, "third", "x")

	var payload map[string]any
	if err := json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload); err != nil {
		t.Fatalf("unmarshal trigger: %v", err)
	}
	for _, name := range []string{"first", "second", "third"} {
		if _, ok := payload[name]; !ok {
			t.Fatalf("missing %q in %v", name, payload)
		}
	}
}
