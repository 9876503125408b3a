package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ringstats-backend/favorites"
	"ringstats-backend/logger"
	"ringstats-backend/middleware"
	"ringstats-backend/wrestlers"
)

type FavoritesController struct {
	registry  *favorites.Registry
	wrestlers wrestlers.Repository
}

func NewFavoritesController(registry *favorites.Registry, repo wrestlers.Repository) *FavoritesController {
	return &FavoritesController{registry: registry, wrestlers: repo}
}

// FavoritesKey is the persistence key of a user's favorites.
func FavoritesKey(userID int) string {
	return fmt.Sprintf("favorites:%d", userID)
}

func (fc *FavoritesController) store(c *fiber.Ctx) (*favorites.Store, error) {
	return fc.registry.Get(c.UserContext(), FavoritesKey(middleware.UserID(c)))
}

func (fc *FavoritesController) GetFavorites(c *fiber.Ctx) error {
	s, err := fc.store(c)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load favorites")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load favorites"})
	}
	list := s.List()
	return c.JSON(fiber.Map{"favorites": list, "total": len(list)})
}

func (fc *FavoritesController) AddFavorite(c *fiber.Ctx) error {
	var body struct {
		WrestlerID string `json:"wrestlerId"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.WrestlerID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wrestlerId is required"})
	}

	w, err := fc.wrestlers.Get(c.UserContext(), strings.TrimSpace(body.WrestlerID))
	if errors.Is(err, wrestlers.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Wrestler not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	s, err := fc.store(c)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load favorites")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load favorites"})
	}
	if err := s.Add(c.UserContext(), w); err != nil {
		if errors.Is(err, favorites.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Wrestler is already a favorite"})
		}
		logger.Log.WithError(err).Error("Failed to save favorite")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save favorite"})
	}
	list := s.List()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"favorites": list, "total": len(list)})
}

func (fc *FavoritesController) RemoveFavorite(c *fiber.Ctx) error {
	s, err := fc.store(c)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load favorites")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load favorites"})
	}
	if err := s.Remove(c.UserContext(), wrestlerID(c)); err != nil {
		logger.Log.WithError(err).Error("Failed to remove favorite")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove favorite"})
	}
	list := s.List()
	return c.JSON(fiber.Map{"favorites": list, "total": len(list)})
}
