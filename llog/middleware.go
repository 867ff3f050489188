package llog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mangohow/gostack/errors"
	"github.com/mangohow/gostack/transport/http"
	"go.uber.org/zap"
)

type loggerKey struct{}

const (
	requestIdKeyName = "X-Request-ID"
)

// WithLogger 将 logger 注入 context
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext 从 context 获取 logger（不存在则返回默认 logger）
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return log
}

// LoggerInjectMiddleware 中间件：注入带 RequestID 的 logger
func LoggerInjectMiddleware(requestIdKey string) http.Middleware {
	if requestIdKey == "" {
		requestIdKey = requestIdKeyName
	}

	return func(ctx context.Context, req any, handler http.Handler) (any, error) {
		c := http.FromContext(ctx)
		if c == nil {
			return handler(ctx, req)
		}

		// 1. 获取/生成 RequestID
		rid := c.Request().Header.Get(requestIdKey)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.SetHeader(requestIdKeyName, rid)

		// 2. 注入带 RequestID 的 logger
		return handler(WithLogger(ctx, log.With("requestId", rid)), req)
	}
}

func RequestLoggingMiddleware() http.Middleware {
	return func(ctx context.Context, req any, handler http.Handler) (any, error) {
		c := http.FromContext(ctx)
		if c == nil {
			return handler(ctx, req)
		}

		var (
			logger  = FromContext(ctx)
			request = c.Request()
			start   = time.Now()
		)

		resp, err := handler(ctx, req)

		clientIP := request.Header.Get("X-Real-IP")
		if clientIP == "" {
			clientIP = request.Header.Get("X-Forwarded-For")
		}
		if clientIP == "" {
			clientIP = request.RemoteAddr
		}

		fields := []any{
			"method", request.Method,
			"path", request.URL.Path,
			"query", request.URL.RawQuery,
			"ip", clientIP,
			"latency", time.Since(start),
		}

		if err != nil {
			e := errors.FromAny(err)
			fields = append(fields,
				"status", e.HttpStatus(),
				"errCode", e.Code(),
				"errReason", e.Reason(),
				"error", err.Error(),
			)
			// 4xx 是调用方的问题, 只记录 warn
			if e.HttpStatus() < 500 {
				logger.Warnw("Request failed", fields...)
			} else {
				logger.Errorw("Server error", fields...)
			}
			return resp, err
		}

		logger.Infow("Request", fields...)
		return resp, nil
	}
}
