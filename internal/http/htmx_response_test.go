package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMXResponse_Redirect(t *testing.T) {
	for _, target := range []string{"/", "/job-roles", "/posts?page=2"} {
		t.Run(target, func(t *testing.T) {
			w := httptest.NewRecorder()
			HTMX(w).Redirect(target)

			assert.Equal(t, target, w.Header().Get("Hx-Redirect"))
			assert.Equal(t, http.StatusNoContent, w.Code)
		})
	}
}

func TestHTMXResponse_Trigger(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		payload any
		want    string
	}{
		{name: "bare event", event: "closeModal", want: `{"closeModal":true}`},
		{name: "string detail", event: "notify", payload: "Saved", want: `{"notify":"Saved"}`},
		{
			name:    "records changed",
			event:   EventRecordsChanged,
			payload: map[string]string{"entity": PageJobRoles},
			want:    `{"recordsChanged":{"entity":"job-roles"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HTMX(w).Trigger(tt.event, tt.payload)
			assert.JSONEq(t, tt.want, w.Header().Get("Hx-Trigger"))
		})
	}
}

func TestHTMXResponse_ToastAndTriggerShareOneHeader(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).
		Toast("Post created successfully.", ToastSuccess).
		Trigger(EventRecordsChanged, map[string]string{"entity": PagePosts})

	require.Len(t, w.Header().Values("Hx-Trigger"), 1)
	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("Hx-Trigger")), &got))
	assert.Equal(t, map[string]string{"message": "Post created successfully.", "type": ToastSuccess}, got[EventShowToast])
	assert.Equal(t, map[string]string{"entity": PagePosts}, got[EventRecordsChanged])
}

func TestHTMXResponse_BlankToastIsDropped(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Toast("   ", ToastError)
	assert.Empty(t, w.Header().Get("Hx-Trigger"))
}

func TestHTMXResponse_ChainingLeavesStatusAlone(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Trigger("closeModal", nil).Toast("Job role created successfully.", ToastSuccess)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, w.Flushed)
}
