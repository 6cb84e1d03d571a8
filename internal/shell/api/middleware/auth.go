// Package middleware provides HTTP middleware for the Katla API.
package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/artpar/katla/internal/core/auth"
)

// =============================================================================
// Auth Configuration
// =============================================================================

// Auth modes.
const (
	// ModeHeader trusts the identity asserted by the gateway and rejects
	// anonymous writes.
	ModeHeader = "header"

	// ModeDev stamps DevUserID on requests that carry no identity.
	ModeDev = "dev"

	// ModeNone reads an identity when present and never rejects.
	ModeNone = "none"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Mode is one of ModeHeader, ModeDev or ModeNone. Empty means ModeHeader.
	Mode string

	// DevUserID is the user assumed in dev mode.
	DevUserID int

	// Logger for auth middleware logging.
	Logger *slog.Logger
}

// Validate checks the mode and, in dev mode, the dev user id.
func (c AuthConfig) Validate() error {
	switch c.Mode {
	case "", ModeHeader, ModeNone:
		return nil
	case ModeDev:
		if c.DevUserID <= 0 {
			return fmt.Errorf("auth: dev mode requires a positive dev user id, got %d", c.DevUserID)
		}
		return nil
	default:
		return fmt.Errorf("auth: unknown mode %q", c.Mode)
	}
}

// =============================================================================
// Auth Middleware
// =============================================================================

// AuthMiddleware extracts the caller identity from request headers and stores
// it in the request context.
type AuthMiddleware struct {
	config AuthConfig
}

// NewAuthMiddleware creates a new auth middleware with the given config.
func NewAuthMiddleware(cfg AuthConfig) *AuthMiddleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeHeader
	}
	return &AuthMiddleware{config: cfg}
}

// Handler returns the middleware handler function.
// In header mode, mutating requests without a usable identity get 401.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.ExtractFromRequest(r)

		switch m.config.Mode {
		case ModeDev:
			if !ctx.Authenticated {
				ctx = auth.Context{
					UserID:        m.config.DevUserID,
					ReferenceID:   strconv.Itoa(m.config.DevUserID),
					Authenticated: true,
				}
			}
		case ModeHeader:
			if auth.IsMutation(r.Method) {
				if allowed, reason := auth.CanModifyCatalogue(ctx); !allowed {
					m.config.Logger.Warn("unauthenticated write rejected",
						"remote_addr", r.RemoteAddr,
						"path", r.URL.Path,
						"method", r.Method,
						"reason", reason,
					)
					writeJSONError(w, http.StatusUnauthorized, reason)
					return
				}
			}
		}

		r = r.WithContext(auth.WithContext(r.Context(), ctx))
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Require Auth Middleware
// =============================================================================

// RequireAuth is a middleware that requires authentication for every method.
// Must be used AFTER AuthMiddleware.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.FromContext(r.Context())

			if !ctx.Authenticated {
				logger.Warn("unauthenticated request to protected endpoint",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
				)
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// JSON Error Response
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message, Code: "unauthorized"})
}
