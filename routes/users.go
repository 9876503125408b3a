package routes

import (
	"github.com/gofiber/fiber/v2"

	"ringstats-backend/controllers"
)

func AuthRoutes(api fiber.Router, ac *controllers.AuthController, requireAuth fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/register", ac.Register)
	auth.Get("/verify", ac.VerifyEmail)
	auth.Post("/resend", ac.ResendVerification)
	auth.Post("/login", ac.Login)
	auth.Get("/me", requireAuth, ac.GetMe)
	auth.Post("/promote", requireAuth, ac.Promote)
}

func FavoritesRoutes(api fiber.Router, fc *controllers.FavoritesController, requireAuth fiber.Handler) {
	fav := api.Group("/favorites", requireAuth)
	fav.Get("/", fc.GetFavorites)
	fav.Post("/", fc.AddFavorite)
	fav.Delete("/:id", fc.RemoveFavorite)
}
