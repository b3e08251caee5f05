package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/formbus/app/forms"

	"github.com/shashiranjanraj/formbus/app/listeners"
	"github.com/shashiranjanraj/formbus/app/routes"
	"github.com/shashiranjanraj/formbus/pkg/alter"
	"github.com/shashiranjanraj/formbus/pkg/builder"
	"github.com/shashiranjanraj/formbus/pkg/container"
	"github.com/shashiranjanraj/formbus/pkg/event"
	"github.com/shashiranjanraj/formbus/pkg/formcache"
	"github.com/shashiranjanraj/formbus/pkg/router"
	"github.com/shashiranjanraj/formbus/pkg/storage"
	"github.com/shashiranjanraj/formbus/pkg/testkit"
	"github.com/shashiranjanraj/formbus/pkg/ws"
)

// memDisk is an in-memory storage.Disk so upload tests never touch the
// filesystem.
type memDisk struct {
	files map[string][]byte
}

func newMemDisk() *memDisk { return &memDisk{files: map[string][]byte{}} }

func (d *memDisk) Put(_ context.Context, p string, content []byte) error {
	d.files[p] = content
	return nil
}

func (d *memDisk) Get(_ context.Context, p string) ([]byte, error) {
	return d.files[p], nil
}

func (d *memDisk) Exists(_ context.Context, p string) bool {
	_, ok := d.files[p]
	return ok
}

func (d *memDisk) Delete(_ context.Context, p string) error {
	delete(d.files, p)
	return nil
}

func (d *memDisk) URL(p string) string { return "https://cdn.test/" + p }

var (
	setupOnce sync.Once
	handler   http.Handler
)

// apiHandler wires the real routes against an isolated bus and an
// in-memory cache, with the application's listeners registered once.
func apiHandler(t *testing.T) http.Handler {
	t.Helper()

	setupOnce.Do(func() {
		formcache.SetStore(formcache.NewMemoryStore())

		bus := event.NewBus()
		listeners.Register(bus, nil)

		container.Reset()
		container.Singleton(container.KeyBus, func() interface{} { return bus })
		container.Singleton(container.KeyDispatcher, func() interface{} {
			return alter.NewDispatcher(bus)
		})
		container.Singleton(container.KeyBuilder, func() interface{} {
			return builder.New(container.Make(container.KeyDispatcher).(*alter.Dispatcher))
		})
		container.Singleton(container.KeyFeed, func() interface{} { return ws.NewFeed() })

		r := router.New()
		routes.RegisterAPI(r)
		handler = r.Handler()
	})
	return handler
}

func TestAPIScenarios(t *testing.T) {
	testkit.RunDir(t, apiHandler(t), "testdata")
}

// TestSubmitRoundTrip exercises the full build → submit cycle, which the
// scenario files cannot cover because the build id changes every run.
func TestSubmitRoundTrip(t *testing.T) {
	h := apiHandler(t)

	buildID := buildForm(t, h, "user_form")

	// Missing required values come back as element errors.
	rec := postJSON(t, h, "/api/forms/user_form", map[string]any{
		"form_build_id": buildID,
		"values":        map[string]any{"name": "Ada"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var invalid struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invalid))
	assert.Equal(t, "The Email address field is required.", invalid.Errors["mail"])

	// A valid submission consumes the build id.
	rec = postJSON(t, h, "/api/forms/user_form", map[string]any{
		"form_build_id": buildID,
		"values":        map[string]any{"name": "Ada", "mail": "ada@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var ok struct {
		Data struct {
			Submitted bool           `json:"submitted"`
			Values    map[string]any `json:"values"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.True(t, ok.Data.Submitted)
	assert.Equal(t, "ada@example.com", ok.Data.Values["mail"])

	// Replaying the consumed build id is rejected.
	rec = postJSON(t, h, "/api/forms/user_form", map[string]any{
		"form_build_id": buildID,
		"values":        map[string]any{"name": "Ada", "mail": "ada@example.com"},
	})
	assert.Equal(t, http.StatusGone, rec.Code)
}

// TestSubmitMultipartUpload covers the file-upload path: the picture part
// is written to the default disk and its URL becomes the submitted value.
func TestSubmitMultipartUpload(t *testing.T) {
	h := apiHandler(t)

	disk := newMemDisk()
	storage.RegisterDisk("local", disk)

	buildID := buildForm(t, h, "user_form")
	picture := []byte("fake png bytes")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("form_build_id", buildID))
	require.NoError(t, mw.WriteField("name", "Ada"))
	require.NoError(t, mw.WriteField("mail", "ada@example.com"))
	part, err := mw.CreateFormFile("picture", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(picture)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/forms/user_form", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var resp struct {
		Data struct {
			Values map[string]any `json:"values"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	url, _ := resp.Data.Values["picture"].(string)
	require.True(t, strings.HasPrefix(url, "https://cdn.test/uploads/user_form/"), "url: %s", url)
	require.True(t, strings.HasSuffix(url, "-avatar.png"), "url: %s", url)

	stored, err := disk.Get(context.Background(), strings.TrimPrefix(url, "https://cdn.test/"))
	require.NoError(t, err)
	assert.Equal(t, picture, stored)

	// Regular fields travel alongside the upload.
	assert.Equal(t, "Ada", resp.Data.Values["name"])
}

func TestBuildRendersListenerAdditions(t *testing.T) {
	h := apiHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/user_form", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Form map[string]any `json:"form"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Data.Form, "mi_campo_custom",
		"listener-added element should be rendered")
}

func buildForm(t *testing.T, h http.Handler, formID string) string {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/"+formID, nil))
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var body struct {
		Data struct {
			FormBuildID string `json:"form_build_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.FormBuildID)
	return body.Data.FormBuildID
}

func postJSON(t *testing.T, h http.Handler, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
