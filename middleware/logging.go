package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"ringstats-backend/logger"
	"ringstats-backend/metrics"
)

// RequestLogger logs every request and records its metrics. It must run
// after the requestid middleware.
func RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	duration := time.Since(start)

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	route := c.Route().Path
	metrics.RecordRequest(c.Method(), route, strconv.Itoa(status), duration.Seconds())

	requestID, _ := c.Locals("requestid").(string)
	entry := logger.Log.WithFields(logrus.Fields{
		"method":      c.Method(),
		"path":        c.Path(),
		"route":       route,
		"status":      status,
		"duration":    duration.String(),
		"request_id":  requestID,
		"remote_addr": c.IP(),
	})
	if status >= fiber.StatusInternalServerError {
		entry.Warn("Request failed")
	} else {
		entry.Info("Request processed")
	}
	return err
}
