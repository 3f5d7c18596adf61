package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"doclib/internal/logging"
)

// ErrorLocalKey carries an error a handler already answered, so it is logged with the request.
const ErrorLocalKey = "error"

// Logger logs each HTTP request as one structured entry with
// request_id, method, path, status, latency (ms) and, once authenticated, user_id.
func Logger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		fields := logrus.Fields{
			"request_id": RequestIDFromCtx(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if p, ok := PrincipalFromCtx(c); ok {
			fields["user_id"] = p.UserID
		}
		if handled, ok := c.Locals(ErrorLocalKey).(error); ok {
			fields[logrus.ErrorKey] = handled.Error()
		} else if err != nil {
			fields[logrus.ErrorKey] = err.Error()
		}

		entry := log.WithFields(fields)
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
		return err
	}
}

// LoggerWithWriter is Logger over a fresh JSON logger writing to w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, loc, "info"))
}
