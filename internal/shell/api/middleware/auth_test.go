package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artpar/katla/internal/core/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

// testHandler is a simple handler that returns the auth context from request.
func testHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.FromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"authenticated": ctx.Authenticated,
			"user_id":       ctx.UserID,
			"reference_id":  ctx.ReferenceID,
		})
	})
}

func serve(t *testing.T, cfg AuthConfig, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	NewAuthMiddleware(cfg).Handler(testHandler()).ServeHTTP(rec, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

// =============================================================================
// AuthMiddleware Tests
// =============================================================================

func TestAuthMiddleware_ModeNone_AllowsAnonymousWrite(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/hives", nil)

	rec, resp := serve(t, AuthConfig{Mode: ModeNone}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["authenticated"])
}

func TestAuthMiddleware_ModeNone_StillExtracts(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/hives", nil)
	req.Header.Set("X-User-ID", "12")

	_, resp := serve(t, AuthConfig{Mode: ModeNone}, req)

	assert.Equal(t, true, resp["authenticated"])
	assert.Equal(t, float64(12), resp["user_id"])
}

func TestAuthMiddleware_HeaderMode_ExtractsContext(t *testing.T) {
	req := httptest.NewRequest("PUT", "/api/v1/hives/1", nil)
	req.Header.Set("X-User-ID", "42")

	rec, resp := serve(t, AuthConfig{Mode: ModeHeader}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["authenticated"])
	assert.Equal(t, float64(42), resp["user_id"])
	assert.Equal(t, "42", resp["reference_id"])
}

func TestAuthMiddleware_HeaderMode_AnonymousRead(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/hives", nil)

	rec, resp := serve(t, AuthConfig{Mode: ModeHeader}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["authenticated"])
}

func TestAuthMiddleware_HeaderMode_AnonymousWrite(t *testing.T) {
	for _, method := range []string{"POST", "PUT", "DELETE"} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/api/v1/hives", nil)

			rec, resp := serve(t, AuthConfig{Mode: ModeHeader}, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", resp["code"])
			assert.Equal(t, "authentication required", resp["error"])
		})
	}
}

func TestAuthMiddleware_HeaderMode_NonNumericUserWrite(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/hives", nil)
	req.Header.Set("X-User-ID", "user_123")

	rec, resp := serve(t, AuthConfig{Mode: ModeHeader}, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user id must be a positive integer", resp["error"])
}

func TestAuthMiddleware_EmptyMode_DefaultsToHeader(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/api/v1/hives/1", nil)

	rec, _ := serve(t, AuthConfig{}, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_DevMode_StampsDevUser(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/hives", nil)

	rec, resp := serve(t, AuthConfig{Mode: ModeDev, DevUserID: 3}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["authenticated"])
	assert.Equal(t, float64(3), resp["user_id"])
}

func TestAuthMiddleware_DevMode_HeaderWins(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/hives", nil)
	req.Header.Set("X-User-ID", "9")

	_, resp := serve(t, AuthConfig{Mode: ModeDev, DevUserID: 3}, req)

	assert.Equal(t, float64(9), resp["user_id"])
}

func TestAuthConfig_Validate(t *testing.T) {
	assert.NoError(t, AuthConfig{}.Validate())
	assert.NoError(t, AuthConfig{Mode: ModeHeader}.Validate())
	assert.NoError(t, AuthConfig{Mode: ModeNone}.Validate())
	assert.NoError(t, AuthConfig{Mode: ModeDev, DevUserID: 1}.Validate())
	assert.Error(t, AuthConfig{Mode: ModeDev}.Validate())
	assert.Error(t, AuthConfig{Mode: "apigate"}.Validate())
}

// =============================================================================
// RequireAuth Tests
// =============================================================================

func TestRequireAuth_Authenticated(t *testing.T) {
	handler := RequireAuth(nil)(testHandler())
	req := httptest.NewRequest("GET", "/api/v1/hives", nil)
	req = req.WithContext(auth.WithContext(req.Context(), auth.Context{UserID: 1, Authenticated: true}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	handler := RequireAuth(nil)(testHandler())
	req := httptest.NewRequest("GET", "/api/v1/hives", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()

	writeJSONError(rec, http.StatusUnauthorized, "nope")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "nope", resp.Error)
	assert.Equal(t, "unauthorized", resp.Code)
}
