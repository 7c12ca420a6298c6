package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/kinetree/pkg/assembly"
	"github.com/matzehuels/kinetree/pkg/buildinfo"
	"github.com/matzehuels/kinetree/pkg/errors"
	"github.com/matzehuels/kinetree/pkg/pipeline"
)

// Response formats of POST /v1/export.
const (
	FormatXML  = "xml"
	FormatJSON = "json"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

// handleExport exports the posted assembly. The model XML is returned by
// default; format=json returns the full result including base64 meshes.
// Meshes are only generated for format=json.
//
// Query parameters: format, root, model, cells, refresh.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = FormatXML
	}
	if format != FormatXML && format != FormatJSON {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want xml or json)", format))
		return
	}

	opts := pipeline.Options{
		Root:       q.Get("root"),
		SkipMeshes: format == FormatXML,
		Refresh:    q.Get("refresh") == "true",
		Logger:     s.logger,
	}
	opts.Document.Model = q.Get("model")
	if v := q.Get("cells"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "cells"))
			return
		}
		opts.Cells = n
	}

	a, err := readAssembly(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Export(r.Context(), a, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, result.CacheHit)

	if format == FormatJSON {
		writeJSON(w, http.StatusOK, result)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.ModelFile()}))
	w.WriteHeader(http.StatusOK)
	w.Write(result.XML)
}

// handleGraph renders the connectivity graph of the posted assembly.
//
// Query parameters: format (dot, svg), root, detailed, refresh.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.GraphOptions{
		Format:   q.Get("format"),
		Root:     q.Get("root"),
		Detailed: q.Get("detailed") == "true",
		Refresh:  q.Get("refresh") == "true",
	}
	if opts.Format == "" {
		opts.Format = pipeline.FormatDOT
	}
	if err := pipeline.ValidateGraphFormat(opts.Format); err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := readAssembly(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, hit, err := s.runner.RenderGraph(r.Context(), a, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)

	switch opts.Format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// readAssembly decodes the request body as YAML or JSON by content type.
func readAssembly(w http.ResponseWriter, r *http.Request) (*assembly.Assembly, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return assembly.ReadYAML(body)
	default:
		return assembly.ReadJSON(body)
	}
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidName, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeConfiguration, errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	resp := errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestIDFrom(r.Context()),
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", resp.RequestID, "error", err)
		resp.Error = "internal error"
		resp.Code = errors.ErrCodeInternal
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
