package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier(testSecret, "access")
	exp := time.Now().Add(time.Hour).Unix()

	p, err := v.Verify(sign(t, jwt.MapClaims{"sub": "b1", "role": "buyer", "typ": "access", "exp": exp}, testSecret))
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: "b1", Role: "buyer"}, p)

	tests := []struct {
		name   string
		claims jwt.MapClaims
		secret string
	}{
		{"wrong secret", jwt.MapClaims{"sub": "u1", "role": "user", "typ": "access"}, "other"},
		{"refresh token", jwt.MapClaims{"sub": "u1", "role": "user", "typ": "refresh"}, testSecret},
		{"expired", jwt.MapClaims{"sub": "u1", "role": "user", "typ": "access", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret},
		{"no role", jwt.MapClaims{"sub": "u1", "typ": "access"}, testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(sign(t, tt.claims, tt.secret))
			assert.Error(t, err)
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := NewVerifier(testSecret, "")
	r := gin.New()
	r.GET("/me", Middleware(v), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer garbage").Code)

	w := call("Bearer " + sign(t, jwt.MapClaims{"user_id": "u1", "role": "user"}, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","role":"user"}`, w.Body.String())
}
