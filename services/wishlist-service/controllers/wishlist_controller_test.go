package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/marketplace/pkg/catalog"
	"github.com/yashrajoria/marketplace/services/common/auth"
	"github.com/yashrajoria/marketplace/services/wishlist-service/controllers"
	"github.com/yashrajoria/marketplace/services/wishlist-service/models"
	"github.com/yashrajoria/marketplace/services/wishlist-service/routes"
	"github.com/yashrajoria/marketplace/services/wishlist-service/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock WishlistService ---

type mockWishlistService struct {
	listFn   func(ctx context.Context, owner models.Owner) ([]catalog.Product, *services.ServiceError)
	addFn    func(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *services.ServiceError)
	removeFn func(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *services.ServiceError)
}

func (m *mockWishlistService) List(ctx context.Context, owner models.Owner) ([]catalog.Product, *services.ServiceError) {
	return m.listFn(ctx, owner)
}
func (m *mockWishlistService) Add(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *services.ServiceError) {
	return m.addFn(ctx, owner, productID)
}
func (m *mockWishlistService) Remove(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *services.ServiceError) {
	return m.removeFn(ctx, owner, productID)
}

// --- Helpers ---

// asPrincipal stands in for the JWT middleware.
func asPrincipal(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != "" {
			c.Set(auth.ContextUserID, id)
			c.Set(auth.ContextRole, role)
		}
		c.Next()
	}
}

func setupRouter(svc services.WishlistService, id, role string) *gin.Engine {
	r := gin.New()
	routes.RegisterWishlistRoutes(r, controllers.NewWishlistController(svc), asPrincipal(id, role))
	return r
}

func decodeItems(t *testing.T, w *httptest.ResponseRecorder) []catalog.Product {
	t.Helper()
	var resp models.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Items
}

var rod = catalog.Product{ID: "p1", Name: "Steel Rod"}

// --- Tests ---

func TestGetWishlist_ScopesByRoleAndPrincipal(t *testing.T) {
	var got models.Owner
	svc := &mockWishlistService{
		listFn: func(ctx context.Context, owner models.Owner) ([]catalog.Product, *services.ServiceError) {
			got = owner
			return []catalog.Product{rod}, nil
		},
	}
	r := setupRouter(svc, "b-1", "buyer")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wishlist/buyer", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Owner{Role: "buyer", ID: "b-1"}, got)
	assert.Equal(t, []catalog.Product{rod}, decodeItems(t, w))
}

func TestGetWishlist_UnknownRole(t *testing.T) {
	r := setupRouter(&mockWishlistService{}, "u-1", "user")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wishlist/admin", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWishlist_RoleMismatch(t *testing.T) {
	r := setupRouter(&mockWishlistService{}, "u-1", "user")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wishlist/buyer", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "does not match")
}

func TestGetWishlist_NoPrincipal(t *testing.T) {
	r := setupRouter(&mockWishlistService{}, "", "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wishlist/user", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddItem_Success(t *testing.T) {
	var gotID string
	svc := &mockWishlistService{
		addFn: func(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *services.ServiceError) {
			gotID = productID
			return []catalog.Product{rod}, nil
		},
	}
	r := setupRouter(svc, "u-1", "user")

	body, _ := json.Marshal(models.AddRequest{ProductID: "p1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/wishlist/user", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", gotID)
	assert.Len(t, decodeItems(t, w), 1)
}

func TestAddItem_MissingProductID(t *testing.T) {
	r := setupRouter(&mockWishlistService{}, "u-1", "user")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/wishlist/user", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItem_ServiceError(t *testing.T) {
	svc := &mockWishlistService{
		addFn: func(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *services.ServiceError) {
			return nil, &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
		},
	}
	r := setupRouter(svc, "u-1", "user")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/wishlist/user", bytes.NewBufferString(`{"product_id":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())
}

func TestRemoveItem_Success(t *testing.T) {
	var gotID string
	svc := &mockWishlistService{
		removeFn: func(ctx context.Context, owner models.Owner, productID string) ([]catalog.Product, *services.ServiceError) {
			gotID = productID
			return []catalog.Product{}, nil
		},
	}
	r := setupRouter(svc, "b-1", "buyer")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/wishlist/buyer/p-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p-1", gotID)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}
