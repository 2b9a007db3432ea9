package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFormData is a simple struct for testing the generic form handler.
type testFormData struct {
	Name  string
	Value string
}

// mockFormParser creates a parser function for testing.
func mockFormParser(data testFormData, errs map[string]string) FormParser[testFormData] {
	return func(_ *http.Request) (testFormData, map[string]string) {
		return data, errs
	}
}

// recordingRenderer captures the data of the last render.
type recordingRenderer struct {
	data  map[string]any
	calls int
}

func (rr *recordingRenderer) render(w http.ResponseWriter, _ *http.Request, data map[string]any) {
	rr.data = data
	rr.calls++
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("form rendered"))
}

// countingSubmitter returns err and counts calls.
func countingSubmitter(err error, calls *int) FormSubmitter[testFormData] {
	return func(_ context.Context, _ testFormData) error {
		*calls++
		return err
	}
}

func testFormOpts(w http.ResponseWriter, r *http.Request) FormHandlerOpts[testFormData] {
	return FormHandlerOpts[testFormData]{
		W:          w,
		R:          r,
		SuccessURL: "/success",
		PageMeta:   PageMeta{Title: "Test", PageTitle: "Test", CurrentPage: "test"},
	}
}

func htmxPost(target string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, nil)
	r.Header.Set("Hx-Request", "true")
	return r
}

func TestHandleForm_SuccessUsesOnSuccessForHTMX(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	var submits, successes int
	rr := &recordingRenderer{}

	opts := testFormOpts(w, htmxPost("/test"))
	opts.Parser = mockFormParser(testFormData{Name: "test"}, nil)
	opts.Submit = countingSubmitter(nil, &submits)
	opts.Renderer = rr.render
	opts.OnSuccess = func(w http.ResponseWriter, _ *http.Request) {
		successes++
		w.WriteHeader(http.StatusOK)
	}
	HandleForm(opts)

	assert.Equal(t, 1, submits)
	assert.Equal(t, 1, successes)
	assert.Zero(t, rr.calls, "the form is not rendered again")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleForm_SuccessRedirects(t *testing.T) {
	t.Parallel()

	t.Run("htmx without OnSuccess", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		var submits int
		opts := testFormOpts(w, htmxPost("/test"))
		opts.Parser = mockFormParser(testFormData{Name: "test"}, nil)
		opts.Submit = countingSubmitter(nil, &submits)
		opts.Renderer = (&recordingRenderer{}).render
		HandleForm(opts)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "/success", w.Header().Get("Hx-Redirect"))
	})

	t.Run("plain form post", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		var submits int
		opts := testFormOpts(w, httptest.NewRequest(http.MethodPost, "/test", nil))
		opts.Parser = mockFormParser(testFormData{Name: "test"}, nil)
		opts.Submit = countingSubmitter(nil, &submits)
		opts.Renderer = (&recordingRenderer{}).render
		opts.OnSuccess = func(http.ResponseWriter, *http.Request) { t.Error("OnSuccess is for htmx only") }
		HandleForm(opts)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/success", w.Header().Get("Location"))
	})
}

func TestHandleForm_FieldErrorsSkipSubmit(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	var submits int
	rr := &recordingRenderer{}

	opts := testFormOpts(w, htmxPost("/test"))
	opts.Parser = mockFormParser(testFormData{Value: "kept"}, map[string]string{"name": "Name is required."})
	opts.Submit = countingSubmitter(nil, &submits)
	opts.Renderer = rr.render
	opts.ToastErrors = true
	HandleForm(opts)

	assert.Zero(t, submits)
	require.Equal(t, 1, rr.calls)
	assert.Equal(t, map[string]string{"name": "Name is required."}, rr.data["Errors"])
	assert.Equal(t, testFormData{Value: "kept"}, rr.data["FormData"])
	assert.NotContains(t, rr.data, "ErrorMessage")
	assert.Empty(t, w.Header().Get("Hx-Trigger"), "field errors are inline only")
}

func TestHandleForm_SubmitErrorToastsAndKeepsValues(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	var submits int
	rr := &recordingRenderer{}

	opts := testFormOpts(w, htmxPost("/test"))
	opts.Parser = mockFormParser(testFormData{Name: "n", Value: "v"}, nil)
	opts.Submit = countingSubmitter(errors.New("boom"), &submits)
	opts.Renderer = rr.render
	opts.HandleError = func(error) (map[string]string, string) { return nil, "Remote said no." }
	opts.ToastErrors = true
	opts.ExtraData = map[string]any{"Extra": 1}
	HandleForm(opts)

	assert.Equal(t, 1, submits)
	require.Equal(t, 1, rr.calls)
	assert.Equal(t, "Remote said no.", rr.data["ErrorMessage"])
	assert.Equal(t, testFormData{Name: "n", Value: "v"}, rr.data["FormData"])
	assert.Equal(t, 1, rr.data["Extra"])

	var events map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("Hx-Trigger")), &events))
	assert.Equal(t, "Remote said no.", events[EventShowToast]["message"])
	assert.Equal(t, ToastError, events[EventShowToast]["type"])
}

func TestHandleForm_SubmitErrorFallsBackToGenericMessage(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	var submits int
	rr := &recordingRenderer{}

	opts := testFormOpts(w, htmxPost("/test"))
	opts.Parser = mockFormParser(testFormData{Name: "n"}, nil)
	opts.Submit = countingSubmitter(errors.New("boom"), &submits)
	opts.Renderer = rr.render
	opts.HandleError = func(error) (map[string]string, string) { return nil, "" }
	HandleForm(opts)

	assert.Equal(t, "Unable to save. Please try again.", rr.data["ErrorMessage"])
	assert.Empty(t, w.Header().Get("Hx-Trigger"), "toasts are opt-in")
}

func TestHandleForm_ClientGoneSkipsRender(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	rr := &recordingRenderer{}

	opts := testFormOpts(w, htmxPost("/test").WithContext(ctx))
	opts.Parser = mockFormParser(testFormData{Name: "n"}, nil)
	opts.Submit = func(ctx context.Context, _ testFormData) error { return ctx.Err() }
	opts.Renderer = rr.render
	HandleForm(opts)

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Zero(t, rr.calls)
}

func TestHandleForm_Misconfigured(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	HandleForm(testFormOpts(w, htmxPost("/test")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
