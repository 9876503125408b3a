package routes

import (
	"github.com/gofiber/fiber/v2"

	"ringstats-backend/controllers"
)

// WrestlerRoutes mounts the wrestler, dashboard and health routes. Static
// segments are registered before /:id so they are not captured as ids.
func WrestlerRoutes(api fiber.Router, wc *controllers.WrestlerController, sc *controllers.StatsController, hc *controllers.HealthController) {
	api.Get("/health", hc.GetHealth)
	api.Get("/stats", sc.GetDashboard)

	api.Get("/wrestlers", wc.GetWrestlers)
	api.Get("/wrestlers/filter", wc.FilterWrestlers)
	api.Get("/wrestlers/filter/options", wc.GetFilterOptions)
	api.Get("/wrestlers/daily", wc.GetDailyWrestler)
	api.Get("/wrestlers/:id/stats", wc.GetWrestlerStats)
	api.Get("/wrestlers/:id", wc.GetWrestler)
}
