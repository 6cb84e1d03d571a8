package auth

import "net/http"

// =============================================================================
// Catalogue Authorization
// =============================================================================

// IsMutation reports whether the HTTP method changes catalogue state.
func IsMutation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// CanModifyCatalogue checks if the caller may create, update or remove records.
// Reads are open to everyone; writes need an identity so audit fields can be stamped.
// Returns (true, "") if allowed, or (false, reason) if not allowed.
func CanModifyCatalogue(ctx Context) (bool, string) {
	if !ctx.Authenticated {
		return false, "authentication required"
	}
	if ctx.UserID <= 0 {
		return false, "user id must be a positive integer"
	}
	return true, ""
}
