package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookerp/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedCapabilityTable(t *testing.T) {
	tests := []struct {
		role string
		cap  Capability
		want bool
	}{
		{model.RoleAdmin, CapManageUsers, true},
		{model.RoleAdmin, CapDispatch, true},
		{model.RoleAdmin, CapRecordPayment, true},

		{model.RoleWarehouse, CapDispatch, true},
		{model.RoleWarehouse, CapAdjustStock, true},
		{model.RoleWarehouse, CapPostReturns, true},
		{model.RoleWarehouse, CapInvoice, false},
		{model.RoleWarehouse, CapManageUsers, false},

		{model.RoleBilling, CapManageOrders, true},
		{model.RoleBilling, CapInvoice, true},
		{model.RoleBilling, CapManageCatalog, true},
		{model.RoleBilling, CapAdjustStock, false},
		{model.RoleBilling, CapRecordPayment, false},

		{model.RoleAccounts, CapRecordPayment, true},
		{model.RoleAccounts, CapViewStatements, true},
		{model.RoleAccounts, CapViewAudit, true},
		{model.RoleAccounts, CapDispatch, false},
		{model.RoleAccounts, CapManageCatalog, false},

		{"UNKNOWN", CapViewStock, false},
		{"", CapViewStock, false},
	}
	for _, tt := range tests {
		got := Allowed(tt.role, tt.cap)
		assert.Equal(t, tt.want, got, "role=%s cap=%s", tt.role, tt.cap)
	}
}

func signTestToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "9a3e6c21-1b70-4d33-8f7e-2a45d1c90b11",
		"username": "tester",
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	})
	signed, err := token.SignedString(GetJWTSecret())
	require.NoError(t, err)
	return signed
}

func performRequest(handler gin.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", handler, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireCapabilityAllowsGrantedRole(t *testing.T) {
	token := signTestToken(t, model.RoleWarehouse, time.Hour)
	w := performRequest(RequireCapability(CapDispatch), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCapabilityForbidsUngrantedRole(t *testing.T) {
	token := signTestToken(t, model.RoleWarehouse, time.Hour)
	w := performRequest(RequireCapability(CapInvoice), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireCapabilityRejectsMissingToken(t *testing.T) {
	w := performRequest(RequireCapability(CapViewStock), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireCapabilityRejectsExpiredToken(t *testing.T) {
	token := signTestToken(t, model.RoleAdmin, -time.Hour)
	w := performRequest(RequireCapability(CapViewStock), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthSetsUserContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var gotRole string
	router.GET("/me", RequireAuth(), func(c *gin.Context) {
		role, _ := c.Get("userRole")
		gotRole, _ = role.(string)
		c.Status(http.StatusOK)
	})

	token := signTestToken(t, model.RoleBilling, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.RoleBilling, gotRole)
}
