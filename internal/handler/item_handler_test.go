package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookerp/internal/apperr"
	"bookerp/internal/middleware"
	"bookerp/internal/model"
	"bookerp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubItemService returns canned results so handler tests exercise only
// routing, auth, binding, and error mapping.
type stubItemService struct {
	createErr error
	getErr    error
}

func (s *stubItemService) Create(ctx context.Context, userID string, req service.CreateItemRequest) (service.ItemResponse, error) {
	if s.createErr != nil {
		return service.ItemResponse{}, s.createErr
	}
	return service.ItemResponse{SKU: req.SKU, Title: req.Title}, nil
}

func (s *stubItemService) Update(ctx context.Context, userID, id string, req service.UpdateItemRequest) (service.ItemResponse, error) {
	return service.ItemResponse{ID: id, Title: req.Title}, nil
}

func (s *stubItemService) Get(ctx context.Context, id string) (service.ItemResponse, error) {
	if s.getErr != nil {
		return service.ItemResponse{}, s.getErr
	}
	return service.ItemResponse{ID: id}, nil
}

func (s *stubItemService) List(ctx context.Context, page, limit int, search string) ([]service.ItemResponse, int64, error) {
	return []service.ItemResponse{}, 0, nil
}

func itemRouter(svc service.ItemService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewItemHandler(svc).RegisterRoutes(router.Group(""))
	return router
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "9a3e6c21-1b70-4d33-8f7e-2a45d1c90b11",
		"username": "tester",
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestCreateItemEndpoint(t *testing.T) {
	router := itemRouter(&stubItemService{})

	body := `{"sku":"MATH-9-2025","title":"Mathematics Class 9"}`
	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, model.RoleBilling))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "MATH-9-2025")
}

func TestCreateItemForbiddenForWarehouseRole(t *testing.T) {
	router := itemRouter(&stubItemService{})

	body := `{"sku":"MATH-9-2025","title":"Mathematics Class 9"}`
	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, model.RoleWarehouse))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateItemRejectsMissingFields(t *testing.T) {
	router := itemRouter(&stubItemService{})

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"sku":"MATH-9-2025"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, model.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateItemMapsDuplicateTo409(t *testing.T) {
	router := itemRouter(&stubItemService{
		createErr: &apperr.DuplicateKeyError{Key: "sku", Value: "MATH-9-2025"},
	})

	body := `{"sku":"MATH-9-2025","title":"Mathematics Class 9"}`
	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, model.RoleAdmin))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetItemMapsNotFoundTo404(t *testing.T) {
	router := itemRouter(&stubItemService{
		getErr: &apperr.NotFoundError{Entity: "item", Ref: "missing"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/items/missing", nil)
	req.Header.Set("Authorization", bearerToken(t, model.RoleAccounts))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListItemsRequiresAuth(t *testing.T) {
	router := itemRouter(&stubItemService{})

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
