// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks personal data in production logs
// ============================================================================

package utils

import (
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// IsProduction switches masking on. Set once at startup.
var IsProduction = false

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	uuidRegex  = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// ============================================================================
// LOGGER
// ============================================================================

// NewLogger builds a console logger for development and a JSON logger for
// production.
func NewLogger(production bool, level string) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if production {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), parseLevel(level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ============================================================================
// MASKING
// ============================================================================

// MaskString masks emails and shortens UUIDs inside free text.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}
	result := emailRegex.ReplaceAllString(input, "***@***.***")
	return uuidRegex.ReplaceAllStringFunc(result, shortenID)
}

// MaskID keeps the first 8 characters of an ID.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	return shortenID(id)
}

// MaskEmail keeps the domain so delivery problems stay diagnosable.
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "***"
	}
	return "***" + email[at:]
}

func shortenID(id string) string {
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// ============================================================================
// FIELDS
// ============================================================================

func EmailField(key, email string) zap.Field {
	return zap.String(key, MaskEmail(email))
}

func IDField(key, id string) zap.Field {
	return zap.String(key, MaskID(id))
}

// PathField masks UUIDs and tokens embedded in a request path.
func PathField(path string) zap.Field {
	return zap.String("path", MaskString(path))
}
