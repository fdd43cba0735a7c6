package middleware

import (
	"net/http"
	"os"
	"strings"

	"bookerp/internal/model"
	"bookerp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// Capability names one guarded operation class. Grants are a static
// compile-time table keyed by role; there is no per-user override.
type Capability string

const (
	CapManageCatalog  Capability = "catalog:manage"
	CapManageParties  Capability = "parties:manage"
	CapAdjustStock    Capability = "stock:adjust"
	CapViewStock      Capability = "stock:view"
	CapManageOrders   Capability = "orders:manage"
	CapDispatch       Capability = "orders:dispatch"
	CapInvoice        Capability = "invoices:manage"
	CapRecordPayment  Capability = "payments:record"
	CapViewStatements Capability = "statements:view"
	CapPostReturns    Capability = "returns:post"
	CapViewAudit      Capability = "audit:view"
	CapManageUsers    Capability = "users:manage"
)

var roleGrants = map[string]map[Capability]bool{
	model.RoleAdmin: {
		CapManageCatalog: true, CapManageParties: true,
		CapAdjustStock: true, CapViewStock: true,
		CapManageOrders: true, CapDispatch: true,
		CapInvoice: true, CapRecordPayment: true,
		CapViewStatements: true, CapPostReturns: true,
		CapViewAudit: true, CapManageUsers: true,
	},
	model.RoleWarehouse: {
		CapViewStock: true, CapAdjustStock: true,
		CapDispatch: true, CapPostReturns: true,
	},
	model.RoleBilling: {
		CapManageCatalog: true, CapManageParties: true,
		CapViewStock: true, CapManageOrders: true,
		CapInvoice: true, CapViewStatements: true,
	},
	model.RoleAccounts: {
		CapViewStock: true, CapRecordPayment: true,
		CapViewStatements: true, CapViewAudit: true,
	},
}

// Allowed reports whether the role holds the capability.
func Allowed(role string, cap Capability) bool {
	grants, ok := roleGrants[role]
	if !ok {
		return false
	}
	return grants[cap]
}

// extractToken reads the access token from cookie first, then the
// Authorization header.
func extractToken(c *gin.Context) (string, bool) {
	tokenString, cookieErr := c.Cookie("access_token")
	if cookieErr == nil && tokenString != "" {
		return tokenString, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireCapability validates the JWT and checks the caller's role against
// the static grant table. On success userID and userRole are set on the
// request context.
func RequireCapability(cap Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}

		if !Allowed(userRole, cap) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		c.Set("userID", claims["sub"])
		c.Set("userRole", userRole)

		c.Next()
	}
}

// RequireAuth validates the JWT without a capability check. Used for
// endpoints any signed-in user may call.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		c.Set("userID", claims["sub"])
		if role, ok := claims["role"].(string); ok {
			c.Set("userRole", role)
		}

		c.Next()
	}
}
