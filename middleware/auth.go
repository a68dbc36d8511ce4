package middleware

import (
	"net/http"
	"strings"

	"github.com/LovationAdmin/fintrack-api/models"
	"github.com/LovationAdmin/fintrack-api/utils"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey      = "user_id"
	userEmailKey   = "user_email"
	accessTokenKey = "access_token"
	bearerPrefix   = "Bearer "
)

// TokenVerifier checks a bearer credential and returns its claims.
type TokenVerifier interface {
	ParseAccessToken(token string) (*utils.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := verifier.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets anonymous requests through otherwise.
func OptionalAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := verifier.ParseAccessToken(token); err == nil {
				setIdentity(c, claims, token)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *utils.Claims, token string) {
	c.Set(userIDKey, claims.Subject)
	c.Set(userEmailKey, claims.Email)
	c.Set(accessTokenKey, token)
}

func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// GetIdentity returns nil for anonymous requests.
func GetIdentity(c *gin.Context) *models.Identity {
	userID := GetUserID(c)
	if userID == "" {
		return nil
	}
	return &models.Identity{UserID: userID, Email: c.GetString(userEmailKey)}
}

// GetSession returns the caller's identity with the token it presented.
func GetSession(c *gin.Context) models.Session {
	var session models.Session
	if identity := GetIdentity(c); identity != nil {
		session.Identity = *identity
		session.AccessToken = c.GetString(accessTokenKey)
	}
	return session
}
