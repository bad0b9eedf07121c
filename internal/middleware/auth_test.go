package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/car-rental/backend/internal/domain"
	"github.com/pkordes/car-rental/backend/internal/middleware"
)

var testSecret = []byte("test-secret")

// mintToken signs an HS256 token with the given subject and role claims,
// matching what the external identity provider issues.
func mintToken(t *testing.T, secret []byte, sub, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
	})
	signed, err := tok.SignedString(secret)
	require.NoError(t, err)
	return signed
}

// identityProbe records the identity the authenticator placed on the context.
func identityProbe(got *domain.Identity, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = middleware.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator_ValidToken_InjectsIdentity(t *testing.T) {
	userID := uuid.New()

	var ident domain.Identity
	var ok bool
	h := middleware.NewAuthenticator(testSecret)(identityProbe(&ident, &ok))

	req := httptest.NewRequest(http.MethodGet, "/me/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, userID.String(), "admin"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, userID, ident.UserID)
	assert.Equal(t, domain.RoleAdmin, ident.Role)
}

func TestAuthenticator_UnknownRole_DefaultsToUser(t *testing.T) {
	var ident domain.Identity
	var ok bool
	h := middleware.NewAuthenticator(testSecret)(identityProbe(&ident, &ok))

	req := httptest.NewRequest(http.MethodGet, "/me/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, uuid.NewString(), "superuser"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, domain.RoleUser, ident.Role)
}

func TestAuthenticator_MissingHeader_401(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret)(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/me/bookings", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_WrongSecret_401(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret)(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/me/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, []byte("other-secret"), uuid.NewString(), "user"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_NonHMACAlgorithm_401(t *testing.T) {
	// alg=none tokens must never be accepted, even with a valid-looking body.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	h := middleware.NewAuthenticator(testSecret)(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/me/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_NonUUIDSubject_401(t *testing.T) {
	h := middleware.NewAuthenticator(testSecret)(trivialHandler)

	req := httptest.NewRequest(http.MethodGet, "/me/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "not-a-uuid", "user"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_MatchingRole_Passes(t *testing.T) {
	h := middleware.RequireRole(domain.RoleAdmin)(trivialHandler)

	req := httptest.NewRequest(http.MethodPost, "/cars", nil)
	ctx := middleware.WithIdentity(req.Context(), domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_WrongRole_403(t *testing.T) {
	h := middleware.RequireRole(domain.RoleAdmin)(trivialHandler)

	req := httptest.NewRequest(http.MethodPost, "/cars", nil)
	ctx := middleware.WithIdentity(req.Context(), domain.Identity{UserID: uuid.New(), Role: domain.RoleUser})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoIdentity_401(t *testing.T) {
	h := middleware.RequireRole(domain.RoleAdmin)(trivialHandler)

	req := httptest.NewRequest(http.MethodPost, "/cars", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
