package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dockspace/pkg/buildinfo"
	derrors "github.com/matzehuels/dockspace/pkg/errors"
	"github.com/matzehuels/dockspace/pkg/layout"
	"github.com/matzehuels/dockspace/pkg/observability"
	"github.com/matzehuels/dockspace/pkg/render/treeviz"
	"github.com/matzehuels/dockspace/pkg/store"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type listResponse struct {
	Layouts []store.Summary `json:"layouts"`
}

type validateResponse struct {
	Valid    bool         `json:"valid"`
	Stats    layout.Stats `json:"stats"`
	Problems []string     `json:"problems,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    derrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Layouts: list})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handlePut stores the layout in the request body. The layout must decode
// and pass layout.Validate. Responds 201 for a new name and 200 for an
// overwrite.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	if err := derrors.ValidateLayoutName(name); err != nil {
		s.writeError(w, r, err)
		return
	}

	l, err := readLayout(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := layout.Validate(l); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := store.NewSnapshot(name, l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Put keeps the ID of an existing snapshot, so a fresh ID means the
	// name was new.
	id := snap.ID
	if err := s.store.Put(ctx, snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if snap.ID == id {
		status = http.StatusCreated
	}
	writeJSON(w, status, snap.Summary())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Stats)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap, err := s.store.Get(ctx, chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := snap.Decode()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	dot := treeviz.ToDOT(l, treeviz.Options{Detailed: detailed})

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, dot)
	case "svg":
		svg, err := treeviz.RenderSVG(ctx, dot)
		if err != nil {
			s.writeError(w, r, derrors.Wrap(derrors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		w.Write(svg)
	default:
		s.writeError(w, r, derrors.New(derrors.ErrCodeInvalidInput, "unsupported format %q (want dot or svg)", format))
	}
}

// handleValidate reports validation problems in the body. Bodies that are
// not a layout at all are rejected with 400 or 422 like PUT.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	l, err := readLayout(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := validateResponse{Valid: true, Stats: layout.Measure(l)}
	for _, p := range derrors.Split(layout.Validate(l)) {
		resp.Valid = false
		resp.Problems = append(resp.Problems, derrors.UserMessage(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func readLayout(w http.ResponseWriter, r *http.Request) (layout.Layout, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return layout.Layout{}, derrors.New(derrors.ErrCodeInvalidInput, "body exceeds %d bytes", MaxBodyBytes)
		}
		return layout.Layout{}, derrors.Wrap(derrors.ErrCodeInvalidInput, err, "read body")
	}
	return layout.Decode(data)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch derrors.GetCode(err) {
	case derrors.ErrCodeParse, derrors.ErrCodeInvalidInput, derrors.ErrCodeInvalidName:
		return http.StatusBadRequest
	case derrors.ErrCodeMalformedLayout, derrors.ErrCodeInvalidLayout:
		return http.StatusUnprocessableEntity
	case derrors.ErrCodeNotFound, derrors.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	case derrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if store.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := derrors.GetCode(err)
	if code == "" {
		code = derrors.ErrCodeInternal
	}
	parts := derrors.Split(err)
	msgs := make([]string, len(parts))
	for i, p := range parts {
		msgs[i] = derrors.UserMessage(p)
	}
	msg := strings.Join(msgs, "; ")
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
