package api

// =============================================================================
// Error Codes
// =============================================================================

// Error codes returned in ErrorResponse.Code. Not-found codes are derived
// from the entity kind, e.g. "hive_not_found".
const (
	CodeValidation     = "validation_error"
	CodeConflict       = "code_conflict"
	CodeNotSoftDeleted = "not_soft_deleted"
	CodeInternal       = "internal_error"
)

// =============================================================================
// Response Types
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the response for readiness check.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
