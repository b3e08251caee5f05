package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/formbus/app/listeners"
	"github.com/shashiranjanraj/formbus/pkg/builder"
	"github.com/shashiranjanraj/formbus/pkg/logger"
	"github.com/shashiranjanraj/formbus/pkg/response"
	"github.com/shashiranjanraj/formbus/pkg/storage"
)

// maxUploadBytes bounds multipart submissions (8 MiB).
const maxUploadBytes = 8 << 20

type FormController struct {
	builder *builder.Builder
}

func NewFormController(b *builder.Builder) *FormController {
	return &FormController{builder: b}
}

// Index lists the registered form ids.
func (c *FormController) Index(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{"forms": builder.FormIDs()})
}

// Listeners lists the alter listeners in registration order.
func (c *FormController) Listeners(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{"listeners": listeners.Registered()})
}

// Show builds a form and renders it. The returned form_build_id must come
// back with the submission.
func (c *FormController) Show(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	f, state, err := c.builder.Build(r.Context(), formID)
	if err != nil {
		if errors.Is(err, builder.ErrUnknownForm) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("build form", "form_id", formID, "error", err)
		response.Error(w, http.StatusInternalServerError, "Form could not be built")
		return
	}

	payload := map[string]any{
		"form_id":       formID,
		"form_build_id": state.BuildID(),
		"form":          f,
	}
	if base, ok := state.BaseFormID(); ok {
		payload["base_form_id"] = base
	}
	response.Success(w, payload)
}

// Submit processes a submission against a previously built form. Accepts a
// JSON body or multipart/form-data; multipart file parts are stored and
// their URLs become the submitted values.
func (c *FormController) Submit(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	buildID, values, ok := c.readSubmission(w, r, formID)
	if !ok {
		return
	}
	if buildID == "" {
		response.BadRequest(w, "form_build_id is required")
		return
	}

	state, err := c.builder.Submit(r.Context(), formID, buildID, values)
	switch {
	case err == nil:
	case errors.Is(err, builder.ErrUnknownForm):
		response.NotFound(w)
		return
	case errors.Is(err, builder.ErrNoBuild):
		response.Gone(w, "The form has expired. Reload and try again.")
		return
	case errors.Is(err, builder.ErrFormMismatch):
		response.BadRequest(w, "form_build_id does not belong to this form")
		return
	default:
		logger.WithCtx(r.Context()).Error("submit form", "form_id", formID, "error", err)
		response.Error(w, http.StatusInternalServerError, "Submission failed")
		return
	}

	if state.HasErrors() {
		response.ValidationError(w, state.Errors())
		return
	}
	response.Success(w, map[string]any{
		"form_id":   formID,
		"submitted": true,
		"values":    state.Values(),
	})
}

// readSubmission extracts the build id and value map from either body
// encoding. A false return means a response has already been written.
func (c *FormController) readSubmission(w http.ResponseWriter, r *http.Request, formID string) (string, map[string]any, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return c.readMultipart(w, r, formID)
	}

	var body struct {
		FormBuildID string         `json:"form_build_id"`
		Values      map[string]any `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return "", nil, false
	}
	if body.Values == nil {
		body.Values = map[string]any{}
	}
	return body.FormBuildID, body.Values, true
}

func (c *FormController) readMultipart(w http.ResponseWriter, r *http.Request, formID string) (string, map[string]any, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart body")
		return "", nil, false
	}

	values := make(map[string]any)
	for key, vals := range r.MultipartForm.Value {
		if key == "form_build_id" || len(vals) == 0 {
			continue
		}
		values[key] = vals[0]
	}

	for key, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		file, err := headers[0].Open()
		if err != nil {
			response.BadRequest(w, "Unreadable file upload")
			return "", nil, false
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			response.BadRequest(w, "Unreadable file upload")
			return "", nil, false
		}

		url, err := storage.SaveUpload(r.Context(), formID, headers[0].Filename, content)
		if err != nil {
			logger.WithCtx(r.Context()).Error("store upload", "form_id", formID, "field", key, "error", err)
			response.Error(w, http.StatusInternalServerError, "Upload could not be stored")
			return "", nil, false
		}
		values[key] = url
	}

	return r.FormValue("form_build_id"), values, true
}
