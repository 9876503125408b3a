package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"ringstats-backend/logger"
	"ringstats-backend/metrics"
	"ringstats-backend/wrestlers"
)

const dashboardKey = "dashboard"

// StatsController serves the collection-wide dashboard, cached for ttl. A
// non-positive ttl disables the cache and recomputes on every request.
type StatsController struct {
	repo  wrestlers.Repository
	cache *expirable.LRU[string, *wrestlers.Dashboard]
}

func NewStatsController(repo wrestlers.Repository, ttl time.Duration) *StatsController {
	sc := &StatsController{repo: repo}
	if ttl > 0 {
		sc.cache = expirable.NewLRU[string, *wrestlers.Dashboard](1, nil, ttl)
	}
	return sc
}

func (sc *StatsController) GetDashboard(c *fiber.Ctx) error {
	if sc.cache != nil {
		if d, ok := sc.cache.Get(dashboardKey); ok {
			metrics.RecordStatsCache(true)
			return c.JSON(fiber.Map{"dashboard": d})
		}
		metrics.RecordStatsCache(false)
	}

	ws, err := sc.repo.List(c.UserContext(), "")
	if err != nil {
		logger.Log.WithError(err).Error("Error computing dashboard")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	d := wrestlers.ComputeDashboard(ws)
	if sc.cache != nil {
		sc.cache.Add(dashboardKey, d)
	}
	return c.JSON(fiber.Map{"dashboard": d})
}

type HealthController struct {
	environment string
	now         func() time.Time
}

func NewHealthController(environment string) *HealthController {
	return &HealthController{environment: environment, now: time.Now}
}

func (hc *HealthController) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":     "RingStats API is running successfully!",
		"timestamp":   hc.now().UTC().Format(time.RFC3339Nano),
		"environment": hc.environment,
	})
}
