// Package auth provides the request authentication context.
// Identity is asserted by an upstream gateway; nothing here verifies it.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// =============================================================================
// Context Key
// =============================================================================

type contextKey string

const authContextKey contextKey = "auth"

// =============================================================================
// Types
// =============================================================================

// Context represents the authentication context for a request.
type Context struct {
	// UserID is the numeric user id stamped into audit fields. Zero when anonymous.
	UserID int

	// ReferenceID is the raw identity string as received from the gateway.
	ReferenceID string

	// Authenticated indicates whether the request carried an identity.
	Authenticated bool
}

// =============================================================================
// Header Constants
// =============================================================================

const (
	// HeaderUserID is the header containing the authenticated user's ID
	HeaderUserID = "X-User-ID"

	// HeaderAuthorization carries a bearer token when X-User-ID is absent
	HeaderAuthorization = "Authorization"
)

// =============================================================================
// Context Extraction
// =============================================================================

// HeaderGetter is an interface for getting header values.
// This allows testing without requiring an http.Request.
type HeaderGetter interface {
	Get(key string) string
}

// ExtractFromRequest extracts auth context from HTTP request headers.
func ExtractFromRequest(r *http.Request) Context {
	return ExtractFromHeaders(r.Header)
}

// ExtractFromHeaders extracts auth context from headers.
//
// Identity sources (checked in order):
//  1. X-User-ID header
//  2. Authorization: Bearer {jwt}, using the sub claim of the payload
//
// A non-numeric identity is still authenticated but maps to UserID 0.
func ExtractFromHeaders(headers HeaderGetter) Context {
	referenceID := strings.TrimSpace(headers.Get(HeaderUserID))
	if referenceID == "" {
		claims := parseBearer(headers.Get(HeaderAuthorization))
		if claims == nil || claims.Sub == "" {
			return Context{Authenticated: false}
		}
		referenceID = claims.Sub
	}

	return Context{
		UserID:        ParseUserID(referenceID),
		ReferenceID:   referenceID,
		Authenticated: true,
	}
}

// ParseUserID converts a reference id to a positive numeric user id, or 0.
func ParseUserID(referenceID string) int {
	id, err := strconv.Atoi(referenceID)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// jwtClaims holds the fields extracted from a JWT payload.
type jwtClaims struct {
	Sub string `json:"sub"`
}

// parseBearer extracts claims from a Bearer token by base64-decoding the payload.
// The signature is not checked.
func parseBearer(authHeader string) *jwtClaims {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil
	}
	parts := strings.Split(authHeader[7:], ".")
	if len(parts) != 3 {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}
	var claims jwtClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil
	}
	return &claims
}

// =============================================================================
// Context Storage
// =============================================================================

// WithContext stores the auth context in the request context.
func WithContext(ctx context.Context, authCtx Context) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

// FromContext retrieves the auth context from the request context.
// If no auth context is found, returns an unauthenticated context.
func FromContext(ctx context.Context) Context {
	if authCtx, ok := ctx.Value(authContextKey).(Context); ok {
		return authCtx
	}
	return Context{Authenticated: false}
}

// =============================================================================
// Request User
// =============================================================================

// RequestUser resolves the acting user from the auth context carried by ctx.
type RequestUser struct{}

// UserID returns the user id stored in ctx, or 0 for anonymous requests.
func (RequestUser) UserID(ctx context.Context) int {
	return FromContext(ctx).UserID
}

// =============================================================================
// Helper Types for Testing
// =============================================================================

// MapHeaderGetter wraps a map to implement HeaderGetter interface.
type MapHeaderGetter map[string]string

func (m MapHeaderGetter) Get(key string) string {
	return m[key]
}
