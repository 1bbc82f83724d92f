package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims authClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString("user_id"),
			"role":   c.GetString("role"),
		})
	})
	return r
}

func get(r *gin.Engine, path string, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	token := signToken(t, "test-secret", authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "interviewer",
	})

	w := get(r, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"user-1","role":"interviewer"}`, w.Body.String())
}

func TestJWTAuthQueryParamFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	token := signToken(t, "test-secret", authClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})

	// WebSocket upgrades carry the token in the query string.
	w := get(r, "/protected?token="+token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"user-1","role":"candidate"}`, w.Body.String())
}

func TestJWTAuthRejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	w := get(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/protected", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	wrongKey := signToken(t, "other-secret", authClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	w = get(r, "/protected", "Bearer "+wrongKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := signToken(t, "test-secret", authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	w = get(r, "/protected", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	noSubject := signToken(t, "test-secret", authClaims{})
	w = get(r, "/protected", "Bearer "+noSubject)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	r := newAuthRouter()

	w := get(r, "/protected", "Bearer whatever")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
