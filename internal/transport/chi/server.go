package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
	"github.com/kailas-cloud/lexiscreen/internal/export/document"
	"github.com/kailas-cloud/lexiscreen/internal/export/table"
	"github.com/kailas-cloud/lexiscreen/internal/metrics"
	assembleuc "github.com/kailas-cloud/lexiscreen/internal/usecase/assemble"
	healthuc "github.com/kailas-cloud/lexiscreen/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/lexiscreen/internal/usecase/ranking"
	screeninguc "github.com/kailas-cloud/lexiscreen/internal/usecase/screening"
)

const maxBodyBytes = 64 << 10

// Export formats selected by the Accept header or the ?format= query parameter.
const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatPDF  = "pdf"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the screening HTTP API.
type Server struct {
	screening     *screeninguc.Service
	assembler     *assembleuc.Service
	ranking       *rankinguc.Service
	health        *healthuc.Service
	renderer      *document.Renderer
	defaultTopK   int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	screening *screeninguc.Service,
	assembler *assembleuc.Service,
	ranking *rankinguc.Service,
	health *healthuc.Service,
	renderer *document.Renderer,
	defaultTopK int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		screening:   screening,
		assembler:   assembler,
		ranking:     ranking,
		health:      health,
		renderer:    renderer,
		defaultTopK: defaultTopK,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		// Inference wraps out-of-range probabilities, so it must come first.
		sentinelHandler(domain.ErrInference, http.StatusUnprocessableEntity, CodeInferenceFailed),
		sentinelHandler(domain.ErrDomain, http.StatusUnprocessableEntity, CodeProbabilityRange),
		sentinelHandler(domain.ErrSchema, http.StatusInternalServerError, CodeSchemaError),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r gochi.Router) {
		r.Get("/schema", s.GetSchema)
		r.Get("/importances", s.GetImportances)
		r.Post("/screenings", s.CreateScreening)
	})
}

// GetSchema handles GET /api/v1/schema.
func (s *Server) GetSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schemaToDTO(s.assembler.Schema(), s.assembler.Defaults()))
}

// GetImportances handles GET /api/v1/importances.
func (s *Server) GetImportances(w http.ResponseWriter, r *http.Request) {
	k := s.defaultTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "k must be an integer")
			return
		}
		k = parsed
	}

	top, err := s.ranking.TopFeatures(k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ImportancesResponse{
		Total:    s.ranking.Total(),
		Features: importancesToDTO(top),
	})
}

// CreateScreening handles POST /api/v1/screenings.
// The report is returned as JSON, or as a CSV/PDF attachment when requested.
func (s *Server) CreateScreening(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := decodeScreeningRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	useDefaults := true
	if req.UseDefaults != nil {
		useDefaults = *req.UseDefaults
	}

	rep, err := s.screening.Screen(r.Context(), screeninguc.Request{
		Overrides:   req.Overrides,
		UseDefaults: useDefaults,
		TopK:        req.TopK,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("X-Screening-ID", rep.ID())

	switch negotiateFormat(r) {
	case formatCSV:
		data, err := table.Marshal(rep)
		if err != nil {
			s.handleDomainError(w, fmt.Errorf("encode csv: %w", err))
			return
		}
		writeAttachment(w, table.ContentType, exportFilename(rep, formatCSV), formatCSV, data)
	case formatPDF:
		data, err := s.renderer.Marshal(rep)
		if err != nil {
			s.handleDomainError(w, fmt.Errorf("render pdf: %w", err))
			return
		}
		writeAttachment(w, document.ContentType, exportFilename(rep, formatPDF), formatPDF, data)
	default:
		writeJSON(w, http.StatusOK, reportToDTO(rep))
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	checks := make(map[string]string, len(rep.Checks))
	for k, v := range rep.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if rep.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(rep.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// negotiateFormat picks the export format. ?format= wins over Accept.
func negotiateFormat(r *http.Request) string {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case formatCSV:
		return formatCSV
	case formatPDF:
		return formatPDF
	case formatJSON:
		return formatJSON
	}

	accept := r.Header.Get("Accept")
	switch {
	case strings.Contains(accept, "text/csv"):
		return formatCSV
	case strings.Contains(accept, "application/pdf"):
		return formatPDF
	default:
		return formatJSON
	}
}

func exportFilename(r report.Report, ext string) string {
	return "dyslexia_screening_" + r.Timestamp().Format("20060102T150405Z") + "." + ext
}

func writeAttachment(w http.ResponseWriter, contentType, filename, format string, data []byte) {
	metrics.ExportBytes.WithLabelValues(format).Observe(float64(len(data)))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError maps err to a status code. Domain error messages name the
// offending features or value and are returned as-is.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := err.Error()
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
