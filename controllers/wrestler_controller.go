package controllers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"ringstats-backend/logger"
	"ringstats-backend/wrestlers"
)

type WrestlerController struct {
	repo wrestlers.Repository
	now  func() time.Time
}

func NewWrestlerController(repo wrestlers.Repository) *WrestlerController {
	return &WrestlerController{repo: repo, now: time.Now}
}

// GetWrestlers lists wrestlers whose name contains ?search=.
func (wc *WrestlerController) GetWrestlers(c *fiber.Ctx) error {
	ws, err := wc.repo.List(c.UserContext(), c.Query("search"))
	if err != nil {
		logger.Log.WithError(err).Error("Error fetching wrestlers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"wrestlers": ws, "total": len(ws)})
}

func (wc *WrestlerController) GetWrestler(c *fiber.Ctx) error {
	id := wrestlerID(c)
	w, err := wc.repo.Get(c.UserContext(), id)
	if errors.Is(err, wrestlers.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Wrestler not found"})
	}
	if err != nil {
		logger.Log.WithError(err).WithField("id", id).Error("Error fetching wrestler")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(w)
}

func (wc *WrestlerController) FilterWrestlers(c *fiber.Ctx) error {
	f := wrestlers.FilterFromQuery(queryLookup(c))
	ws, err := wc.repo.List(c.UserContext(), "")
	if err != nil {
		logger.Log.WithError(err).Error("Error filtering wrestlers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	matched := f.Apply(ws)
	return c.JSON(fiber.Map{"wrestlers": matched, "total": len(matched)})
}

func (wc *WrestlerController) GetFilterOptions(c *fiber.Ctx) error {
	ws, err := wc.repo.List(c.UserContext(), "")
	if err != nil {
		logger.Log.WithError(err).Error("Error fetching filter options")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(wrestlers.Options(ws))
}

// GetDailyWrestler returns today's (UTC) featured wrestler.
func (wc *WrestlerController) GetDailyWrestler(c *fiber.Ctx) error {
	w, err := wc.repo.Daily(c.UserContext(), wc.now().UTC())
	if errors.Is(err, wrestlers.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No wrestler scheduled for today"})
	}
	if err != nil {
		logger.Log.WithError(err).Error("Error when querying daily_wrestlers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(w)
}

func (wc *WrestlerController) GetWrestlerStats(c *fiber.Ctx) error {
	w, err := wc.repo.Get(c.UserContext(), wrestlerID(c))
	if errors.Is(err, wrestlers.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Wrestler not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(wrestlers.StatsFor(w))
}

// wrestlerID is the decoded :id route parameter, so escaped ids such as
// "cm%2F691" reach the repository as "cm/691".
func wrestlerID(c *fiber.Ctx) string {
	raw := c.Params("id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// queryLookup adapts c.Query to the single-argument lookups the parsers take.
func queryLookup(c *fiber.Ctx) func(string) string {
	return func(key string) string { return c.Query(key) }
}
