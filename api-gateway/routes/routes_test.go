package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yashrajoria/marketplace/api-gateway/proxy"
	"github.com/yashrajoria/marketplace/api-gateway/routes"
	"github.com/yashrajoria/marketplace/services/common/auth"
)

const secret = "gateway-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type seen struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  string `json:"query"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// echoUpstream answers with what it received.
func echoUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_ = json.NewEncoder(w).Encode(seen{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			UserID: r.Header.Get(proxy.HeaderUserID),
			Role:   r.Header.Get(proxy.HeaderUserRole),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func token(t *testing.T, id, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"typ":     "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func setupGateway(t *testing.T) *gin.Engine {
	up := echoUpstream(t)
	r := gin.New()
	routes.RegisterAllRoutes(r, proxy.NewForwarder(5*time.Second, zap.NewNop()), auth.NewVerifier(secret, "access"), routes.Upstreams{
		Catalog:  up.URL,
		Wishlist: up.URL,
	})
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) seen {
	t.Helper()
	var s seen
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestCategories_ArePublic(t *testing.T) {
	r := setupGateway(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/categories/metals/products?brand=Acme", nil)
	req.Header.Set(proxy.HeaderUserID, "spoofed")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, "/categories/metals/products", got.Path)
	assert.Equal(t, "brand=Acme", got.Query)
	assert.Empty(t, got.UserID, "client identity headers are dropped")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWishlist_RequiresToken(t *testing.T) {
	r := setupGateway(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wishlist/user", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWishlist_ForwardsPrincipal(t *testing.T) {
	r := setupGateway(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/wishlist/buyer/p1", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "b-9", "buyer"))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/wishlist/buyer/p1", got.Path)
	assert.Equal(t, "b-9", got.UserID)
	assert.Equal(t, "buyer", got.Role)
}

func TestWishlist_UnreachableUpstream(t *testing.T) {
	r := gin.New()
	routes.RegisterAllRoutes(r, proxy.NewForwarder(time.Second, zap.NewNop()), auth.NewVerifier(secret, "access"), routes.Upstreams{
		Catalog:  "http://127.0.0.1:1",
		Wishlist: "http://127.0.0.1:1",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wishlist/user", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "u-1", "user"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
