package logging

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const contextKey = "logger"

// New builds the application logger. Production logs are JSON; everything
// else gets the console encoder. Stack traces are attached from error level.
func New(production bool, level zapcore.Level, fields ...zap.Field) *zap.Logger {
	var encoderConfig zapcore.EncoderConfig
	if production {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.LevelKey = "level"
	encoderConfig.NameKey = "name"
	encoderConfig.MessageKey = "msg"
	encoderConfig.CallerKey = "caller"
	encoderConfig.StacktraceKey = "stacktrace"

	var encoder zapcore.Encoder
	if production {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).With(fields...)
}

// Set stores the request-scoped logger on the gin context.
func Set(c *gin.Context, logger *zap.Logger) {
	c.Set(contextKey, logger)
}

// FromContext returns the request-scoped logger, or fallback when none was set.
func FromContext(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get(contextKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}
