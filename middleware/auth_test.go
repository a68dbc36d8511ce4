package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LovationAdmin/fintrack-api/models"
	"github.com/LovationAdmin/fintrack-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key-at-least-32-chars"

func newTestToken(t *testing.T, m *utils.JWTManager) string {
	t.Helper()
	token, err := m.GenerateAccessToken("u2", "bob@x.com")
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager(testSecret, time.Hour)
	validToken := newTestToken(t, jwtManager)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + validToken, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var session models.Session
			router := gin.New()
			router.Use(AuthMiddleware(jwtManager))
			router.GET("/test", func(c *gin.Context) {
				session = GetSession(c)
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "u2", session.UserID)
				assert.Equal(t, "bob@x.com", session.Email)
				assert.Equal(t, validToken, session.AccessToken)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := utils.NewJWTManager(testSecret, time.Hour)

	run := func(header string) *models.Identity {
		var identity *models.Identity
		router := gin.New()
		router.Use(OptionalAuth(jwtManager))
		router.GET("/test", func(c *gin.Context) {
			identity = GetIdentity(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return identity
	}

	t.Run("anonymous", func(t *testing.T) {
		assert.Nil(t, run(""))
	})

	t.Run("invalid token is treated as anonymous", func(t *testing.T) {
		assert.Nil(t, run("Bearer garbage"))
	})

	t.Run("signed in", func(t *testing.T) {
		identity := run("Bearer " + newTestToken(t, jwtManager))
		require.NotNil(t, identity)
		assert.Equal(t, "u2", identity.UserID)
		assert.Equal(t, "bob@x.com", identity.Email)
	})
}

func TestGetSession_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	session := GetSession(c)
	assert.Empty(t, session.UserID)
	assert.Empty(t, session.AccessToken)
	assert.Empty(t, GetUserID(c))
}
