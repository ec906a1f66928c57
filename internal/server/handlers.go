package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/export"
	"github.com/sells-group/ppc-cli/internal/fetcher"
	"github.com/sells-group/ppc-cli/internal/settings"
)

// multipart parts above this size spill to disk.
const formMemory = 8 << 20

// analyzeResponse is the JSON body of /v1/analyze.
type analyzeResponse struct {
	*analyzer.Result
	Message string `json:"message,omitempty"`
}

// httpError is a client error with the status to answer with.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	res, err := s.analyze(w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := analyzeResponse{Result: res}
	if !res.HasRecommendations() {
		resp.Message = analyzer.NoRecommendationsMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := export.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	// Decisions only exist in enhanced mode.
	res, err := s.analyze(w, r, kind == export.KindDecisions)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	table, err := export.Build(kind, res)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.Filename))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, table.Records); err != nil {
		zap.L().Warn("server: write csv",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
	}
}

// analyze reads the uploaded report and form fields and runs the pipeline.
// forceEnhanced overrides the enhanced field.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request, forceEnhanced bool) (*analyzer.Result, error) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &httpError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("upload exceeds %d MB", s.cfg.MaxUploadMB),
			}
		}
		return nil, badRequest("expected multipart/form-data: %v", err)
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	enhanced := s.analysis.Enhanced
	overrides := map[string]string{}
	for key, vals := range r.MultipartForm.Value {
		if len(vals) == 0 {
			continue
		}
		switch {
		case key == "enhanced":
			b, err := strconv.ParseBool(vals[0])
			if err != nil {
				return nil, badRequest("enhanced must be a boolean, got %q", vals[0])
			}
			enhanced = b
		case settings.IsKey(key):
			overrides[key] = vals[0]
		}
	}
	if forceEnhanced {
		enhanced = true
	}

	st, err := s.store.Load(ctx)
	if err != nil {
		// Load still returns usable defaults.
		zap.L().Warn("server: load settings", zap.Error(err))
	}
	st, err = settings.Apply(st, overrides)
	if err != nil {
		return nil, badRequest("%v", err)
	}
	if err := analyzer.ValidateSettings(st); err != nil {
		return nil, badRequest("%v", err)
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, badRequest("file is required")
	}
	defer file.Close() //nolint:errcheck

	raw, err := fetcher.Read(ctx, file, hdr.Filename)
	switch {
	case eris.Is(err, fetcher.ErrUnsupportedFormat):
		return nil, &httpError{status: http.StatusUnsupportedMediaType, msg: err.Error()}
	case eris.Is(err, fetcher.ErrEmptyReport):
		raw = nil
	case err != nil:
		return nil, badRequest("could not read report: %v", err)
	}

	res := analyzer.Analyze(raw, st, analyzer.Options{
		Enhanced:     enhanced,
		Now:          s.now,
		RecentWindow: s.analysis.RecentWindow(),
	})
	s.metrics.Analyses.WithLabelValues(modeLabel(enhanced)).Inc()
	s.metrics.RowsProcessed.Add(float64(len(res.ProcessedData)))

	zap.L().Info("server: analysis complete",
		zap.String("request_id", RequestID(ctx)),
		zap.String("run_id", res.RunID),
		zap.String("file", hdr.Filename),
		zap.Int("rows", len(res.ProcessedData)),
		zap.Bool("enhanced", enhanced),
	)
	return res, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var he *httpError
	switch {
	case errors.As(err, &he):
		writeError(w, he.status, he.msg)
	case eris.Is(err, export.ErrNotAvailable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		zap.L().Error("server: request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
