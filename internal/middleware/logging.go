package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger writes one line per request. It must run after the RequestID
// middleware so the id is available on the response.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the status before logging it
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			status := res.Status
			level := zapcore.InfoLevel
			switch {
			case status >= 500:
				level = zapcore.ErrorLevel
			case status >= 400:
				level = zapcore.WarnLevel
			}

			fields := []zap.Field{
				zap.String("id", res.Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if id, ok := IdentityFrom(c); ok {
				fields = append(fields, zap.String("uid", id.UID))
			}
			if err != nil && status >= 500 {
				fields = append(fields, zap.Error(err))
			}
			log.Check(level, "request").Write(fields...)
			return nil
		}
	}
}
