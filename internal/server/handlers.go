package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pdext/pkg/buildinfo"
	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/geometry"
	"github.com/matzehuels/pdext/pkg/observability"
	"github.com/matzehuels/pdext/pkg/pipeline"
	"github.com/matzehuels/pdext/pkg/render/calendar"
	"github.com/matzehuels/pdext/pkg/render/sink"
	"github.com/matzehuels/pdext/pkg/render/stripes"
	"github.com/matzehuels/pdext/pkg/render/wedge"
)

// Response headers describing how an artifact was produced.
const (
	HeaderCache     = "X-Cache"
	HeaderFrameHash = "X-Frame-Hash"
)

// RenderRequest is the body of POST /v1/render/{chart}.
type RenderRequest struct {
	// CSV is the headed input table.
	CSV        string `json:"csv"`
	TimeColumn string `json:"time_column,omitempty"`
	TimeLayout string `json:"time_layout,omitempty"`
	DPI        int    `json:"dpi,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`
	// Options are decoded onto the chart's defaults.
	Options json.RawMessage `json:"options,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ChartInfo describes one chart on /v1/charts.
type ChartInfo struct {
	Name    string   `json:"name"`
	Formats []string `json:"formats"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) charts(w http.ResponseWriter, r *http.Request) {
	out := make([]ChartInfo, 0, len(pipeline.ValidCharts))
	for _, chart := range pipeline.ValidCharts {
		info := ChartInfo{Name: chart}
		for _, f := range sink.ValidFormats {
			if pipeline.ValidateFormat(chart, string(f)) == nil {
				info.Formats = append(info.Formats, string(f))
			}
		}
		out = append(out, info)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	if s.counters == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "stats are not enabled"))
		return
	}
	s.writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	chart := strings.ToLower(chi.URLParam(r, "chart"))
	if err := pipeline.ValidateChart(chart); err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	f, err := sink.ParseFormat(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req RenderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.CSV) == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "csv is required"))
		return
	}
	df, err := frame.ReadCSV(strings.NewReader(req.CSV), frame.ReadOptions{
		TimeColumn: req.TimeColumn,
		TimeLayout: req.TimeLayout,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Chart:   chart,
		Formats: []string{string(f)},
		DPI:     req.DPI,
		Refresh: req.Refresh,
		Logger:  s.logger.With("request_id", RequestID(r.Context())),
	}
	if err := decodeChartOptions(&opts, req.Options); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), df, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set(HeaderCache, cacheStatus(result.CacheInfo.RenderHit))
	w.Header().Set(HeaderFrameHash, result.FrameHash)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Artifacts[string(f)])))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[string(f)])
}

// decodeChartOptions decodes raw onto the defaults of the selected chart.
func decodeChartOptions(opts *pipeline.Options, raw json.RawMessage) error {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	var target any
	switch opts.Chart {
	case pipeline.ChartStripes:
		def := stripes.DefaultOptions()
		opts.Stripes = &def
		target = opts.Stripes
	case pipeline.ChartWedge:
		def := wedge.DefaultOptions()
		opts.Wedge = &def
		target = opts.Wedge
	case pipeline.ChartCalendar:
		def := calendar.DefaultOptions()
		opts.Calendar = &def
		target = opts.Calendar
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s options", opts.Chart)
	}
	return nil
}

func (s *Server) geometry(w http.ResponseWriter, r *http.Request) {
	shape := geometry.Shape(strings.ToLower(chi.URLParam(r, "shape")))
	radius := r.URL.Query().Get("radius")

	df, err := frame.ReadCSV(http.MaxBytesReader(w, r.Body, s.maxBody), frame.ReadOptions{})
	if err != nil {
		s.writeError(w, r, bodyError(err))
		return
	}
	data, cached, err := s.runner.Geometry(r.Context(), df, shape, radius)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set(HeaderCache, cacheStatus(cached))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Encoding
// =============================================================================

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return bodyError(err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// errTooLarge is answered with 413.
type errTooLarge struct{ limit int64 }

func (e errTooLarge) Error() string {
	return "request body exceeds " + strconv.FormatInt(e.limit, 10) + " bytes"
}

// bodyError maps an oversized body to errTooLarge.
func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if stderrors.As(err, &mbe) {
		return errTooLarge{limit: mbe.Limit}
	}
	return err
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

// writeError answers with the status of err's code. Internal errors keep
// their detail in the log only.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	var tl errTooLarge
	if stderrors.As(err, &tl) {
		s.writeStatus(w, r, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), tl.Error())
		return
	}
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		msg = "internal error"
	}
	s.writeStatus(w, r, status, string(code), msg)
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	s.writeJSON(w, status, ErrorResponse{Code: code, Message: msg})
}
