package chi

import (
	"time"

	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/importance"
	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeNotFound         ErrorCode = "not_found"
	CodeInferenceFailed  ErrorCode = "inference_failed"
	CodeProbabilityRange ErrorCode = "probability_out_of_range"
	CodeSchemaError      ErrorCode = "schema_error"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ScreeningRequest is the body of POST /api/v1/screenings.
type ScreeningRequest struct {
	Overrides   map[string]float64 `json:"overrides"`
	UseDefaults *bool              `json:"use_defaults"` // default true
	TopK        int                `json:"top_k"`
}

// ScreeningResponse is the JSON form of a screening report.
type ScreeningResponse struct {
	ID             string          `json:"id"`
	Timestamp      string          `json:"timestamp"`
	Age            float64         `json:"age"`
	PredictedClass int             `json:"predicted_class"`
	Probability    float64         `json:"probability_dyslexia"`
	RiskLevel      string          `json:"risk_level"`
	Alert          string          `json:"alert"`
	Interpretation string          `json:"interpretation"`
	TopFeatures    []ImportanceDTO `json:"top_features"`
}

// ImportanceDTO is one ranked feature.
type ImportanceDTO struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// ImportancesResponse is the body of GET /api/v1/importances.
type ImportancesResponse struct {
	Total    float64         `json:"total"`
	Features []ImportanceDTO `json:"features"`
}

// FeatureDTO describes one schema feature.
type FeatureDTO struct {
	Name    string   `json:"name"`
	Typical *float64 `json:"typical,omitempty"`
	Default float64  `json:"default"` // value used when use_defaults is true and no override is given
}

// SchemaResponse is the body of GET /api/v1/schema.
type SchemaResponse struct {
	Features []FeatureDTO `json:"features"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func reportToDTO(r report.Report) ScreeningResponse {
	return ScreeningResponse{
		ID:             r.ID(),
		Timestamp:      r.Timestamp().Format(time.RFC3339),
		Age:            r.Age(),
		PredictedClass: r.PredictedClass(),
		Probability:    r.Probability(),
		RiskLevel:      r.Tier().String(),
		Alert:          r.Alert(),
		Interpretation: r.Tier().Interpretation(),
		TopFeatures:    importancesToDTO(r.TopFeatures()),
	}
}

func importancesToDTO(entries []importance.Entry) []ImportanceDTO {
	out := make([]ImportanceDTO, len(entries))
	for i, e := range entries {
		out[i] = ImportanceDTO{Feature: e.Feature(), Score: e.Score()}
	}
	return out
}

func schemaToDTO(s feature.Schema, d feature.Defaults) SchemaResponse {
	out := make([]FeatureDTO, s.Len())
	for i, name := range s.Names() {
		f := FeatureDTO{Name: name, Default: d.Value(name)}
		if v, ok := d.Typical(name); ok {
			f.Typical = &v
		}
		out[i] = f
	}
	return SchemaResponse{Features: out}
}
