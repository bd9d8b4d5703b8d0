package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/chargeconnect/charge-api/internal/config"
	"github.com/chargeconnect/charge-api/internal/models"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newAuthRouter(cfg *config.Config, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthMiddleware(cfg))
	group.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet(ContextUserID)})
	})
	group.GET("/gated", RequireRole(role), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGet(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := newAuthRouter(cfg, models.RoleProvider)

	valid := signToken(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  float64(7),
		"role": "customer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doGet(r, "/open", "").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doGet(r, "/open", "Token abc").Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		bad := signToken(t, "other-secret", jwt.MapClaims{
			"sub": float64(7), "role": "customer", "exp": time.Now().Add(time.Hour).Unix(),
		})
		assert.Equal(t, http.StatusUnauthorized, doGet(r, "/open", "Bearer "+bad).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub": float64(7), "role": "customer", "exp": time.Now().Add(-time.Hour).Unix(),
		})
		assert.Equal(t, http.StatusUnauthorized, doGet(r, "/open", "Bearer "+expired).Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		bad := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub": float64(7), "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
		})
		assert.Equal(t, http.StatusUnauthorized, doGet(r, "/open", "Bearer "+bad).Code)
	})

	t.Run("valid token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doGet(r, "/open", "Bearer "+valid).Code)
	})

	t.Run("role mismatch is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, doGet(r, "/gated", "Bearer "+valid).Code)
	})
}
