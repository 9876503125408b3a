package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ringstats-backend/logger"
	"ringstats-backend/models"
	"ringstats-backend/news"
	"ringstats-backend/validation"
)

type CreateSourceRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	RSSURL      string   `json:"rssUrl" validate:"omitempty,url"`
	BaseURL     string   `json:"baseUrl" validate:"omitempty,url"`
	SourceScore *float64 `json:"sourceScore" validate:"omitempty,gte=0,lte=1"`
}

// AdminController manages news sources and triggers ingest runs.
type AdminController struct {
	sources  news.SourceStore
	ingester *news.Ingester
}

func NewAdminController(sources news.SourceStore, ingester *news.Ingester) *AdminController {
	return &AdminController{sources: sources, ingester: ingester}
}

func (ac *AdminController) ListSources(c *fiber.Ctx) error {
	sources, err := ac.sources.ListSources(c.UserContext(), false)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list sources")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list sources"})
	}
	return c.JSON(sources)
}

func (ac *AdminController) CreateSource(c *fiber.Ctx) error {
	var req CreateSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.RSSURL = strings.TrimSpace(req.RSSURL)
	req.BaseURL = strings.TrimSpace(req.BaseURL)
	if err := validation.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	if req.RSSURL == "" && req.BaseURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rssUrl or baseUrl is required"})
	}

	score := 0.5
	if req.SourceScore != nil {
		score = *req.SourceScore
	}
	src, err := ac.sources.CreateSource(c.UserContext(), models.Source{
		Name:        req.Name,
		RSSURL:      req.RSSURL,
		BaseURL:     req.BaseURL,
		SourceScore: score,
	})
	if errors.Is(err, news.ErrSourceExists) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Source already exists"})
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create source")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create source"})
	}
	return c.Status(fiber.StatusCreated).JSON(src)
}

// RunIngest ingests the listed sources, or every active source when the body
// names none.
func (ac *AdminController) RunIngest(c *fiber.Ctx) error {
	var body struct {
		SourceIDs []int64 `json:"sourceIds"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}

	res, err := ac.ingester.Run(c.UserContext(), body.SourceIDs)
	if err != nil {
		logger.Log.WithError(err).Error("Ingest failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ingest failed"})
	}
	return c.JSON(res)
}
