package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// AccessLogMiddleware writes one line per request, keyed by the request id
// that also lands in the response envelope. Authenticated requests carry the
// user id so per-user analytics traffic can be traced end to end.
type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)

		err := c.Next()

		uid := "-"
		if v, ok := c.Locals(CtxUserIDKey).(uuid.UUID); ok {
			uid = v.String()
		}

		if m != nil && m.logger != nil {
			m.logger.Printf(
				"http %s %s | rid=%s uid=%s status=%d latency=%s ip=%s bytes_in=%d bytes_out=%d ua=%q",
				c.Method(), c.OriginalURL(),
				rid, uid,
				c.Response().StatusCode(), time.Since(start),
				c.IP(),
				c.Request().Header.ContentLength(), c.Response().Header.ContentLength(),
				c.Get("User-Agent"),
			)
		}

		return err
	}
}
