package routes

import (
	"github.com/gofiber/fiber/v2"

	"ringstats-backend/controllers"
	"ringstats-backend/middleware"
)

func NewsRoutes(api fiber.Router, nc *controllers.NewsController, tc *controllers.TipsController, requireAuth fiber.Handler) {
	api.Get("/articles", nc.ListArticles)
	api.Post("/articles", requireAuth, nc.CreateArticle)
	api.Get("/articles/:id", nc.GetArticle)
	api.Get("/articles/:id/comments", nc.ListComments)
	api.Post("/articles/:id/comments", requireAuth, nc.AddComment)
	api.Post("/vote", requireAuth, nc.Vote)
	api.Post("/news/tips", requireAuth, tc.SubmitTip)
}

func AdminRoutes(api fiber.Router, ac *controllers.AdminController, requireAuth fiber.Handler) {
	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin)
	admin.Get("/sources", ac.ListSources)
	admin.Post("/sources", ac.CreateSource)
	admin.Post("/ingest", ac.RunIngest)
}
