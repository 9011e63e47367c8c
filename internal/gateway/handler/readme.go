package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"

	"readmegen/internal/failure"
	docrepo "readmegen/internal/gateway/repository/document"
	readmesvc "readmegen/internal/gateway/service/readme"
)

const ReadmeIDHeader = "X-Readme-Id"

// ReadmeService is what the HTTP surface needs from the generation pipeline.
type ReadmeService interface {
	Generate(ctx context.Context, repoURL string) (readmesvc.Result, error)
	Document(ctx context.Context, id string) (docrepo.Document, error)
}

// ReadmeHandler serves README generation and download.
type ReadmeHandler struct {
	svc ReadmeService
	dev bool
	log logger.FieldLogger
}

// NewReadmeHandler builds the handler. dev enables error stacks in 500 bodies.
func NewReadmeHandler(svc ReadmeService, dev bool, log logger.FieldLogger) *ReadmeHandler {
	if log == nil {
		log = logger.StandardLogger()
	}
	return &ReadmeHandler{svc: svc, dev: dev, log: log}
}

type generateRequest struct {
	RepoURL string `json:"repoUrl"`
}

type generateResponse struct {
	Readme string `json:"readme"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stack string `json:"stack,omitempty"`
}

// HandleGenerate serves POST /generate-readme.
func (h *ReadmeHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var in generateRequest
	// An empty body carries no repoUrl; the service reports it as missing.
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	res, err := h.svc.Generate(r.Context(), in.RepoURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if res.ID != "" {
		w.Header().Set(ReadmeIDHeader, res.ID)
	}
	writeJSON(w, http.StatusOK, generateResponse{Readme: res.Readme})
}

// HandleDocument serves GET /readmes/{id} as a README.md download.
func (h *ReadmeHandler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id is required"})
		return
	}
	doc, err := h.svc.Document(r.Context(), id)
	if errors.Is(err, docrepo.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "README not found"})
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("id", id).Error("document lookup failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load README"})
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="README.md"`)
	_, _ = w.Write([]byte(doc.Content))
}

// HandleHealth serves GET /healthz.
func (h *ReadmeHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *ReadmeHandler) writeError(w http.ResponseWriter, err error) {
	if readmesvc.IsClientError(err) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.log.WithError(err).WithField("kind", failure.KindOf(err)).Error("Error in generate-readme")
	out := errorResponse{Error: err.Error()}
	if h.dev {
		out.Stack = failure.StackOf(err)
	}
	writeJSON(w, http.StatusInternalServerError, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
