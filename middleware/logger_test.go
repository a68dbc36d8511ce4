package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LovationAdmin/fintrack-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{status: http.StatusOK, level: zapcore.InfoLevel},
		{status: http.StatusNotFound, level: zapcore.WarnLevel},
		{status: http.StatusBadGateway, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)

			router := gin.New()
			router.Use(RequestLogger(zap.New(core)))
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

			logs := recorded.FilterMessage("HTTP request").All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			assert.Equal(t, int64(tt.status), logs[0].ContextMap()["status"])
		})
	}
}

func TestRequestLogger_MasksPathInProduction(t *testing.T) {
	utils.IsProduction = true
	defer func() { utils.IsProduction = false }()

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/api/v1/invitations/:token", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token := "0b9a6a58-7d4b-4c59-9d2e-7f3c1c1f0001"
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/invitations/"+token, nil))

	logs := recorded.All()
	require.Len(t, logs, 1)
	path := logs[0].ContextMap()["path"].(string)
	assert.NotContains(t, path, token)
	assert.Contains(t, path, "0b9a6a58...")
}
