package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ringstats-backend/logger"
	"ringstats-backend/middleware"
	"ringstats-backend/news"
	"ringstats-backend/validation"
)

const maxCommentLength = 2000

type NewsController struct {
	repo news.Repository
}

func NewNewsController(repo news.Repository) *NewsController {
	return &NewsController{repo: repo}
}

func articleID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func (nc *NewsController) ListArticles(c *fiber.Ctx) error {
	articles, err := nc.repo.ListArticles(c.UserContext(), news.ParseArticleQuery(queryLookup(c)))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list articles")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list articles"})
	}
	return c.JSON(articles)
}

func (nc *NewsController) GetArticle(c *fiber.Ctx) error {
	id, ok := articleID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid article id"})
	}
	a, err := nc.repo.GetArticle(c.UserContext(), id)
	if errors.Is(err, news.ErrArticleNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Article not found"})
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load article")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load article"})
	}
	return c.JSON(a)
}

func (nc *NewsController) CreateArticle(c *fiber.Ctx) error {
	var in news.NewArticle
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	in.Title = strings.TrimSpace(in.Title)
	in.ContentSnippet = news.Snippet(in.ContentSnippet)
	if err := validation.Struct(in); err != nil {
		return validationFailed(c, err)
	}

	a, err := nc.repo.CreateArticle(c.UserContext(), in)
	if errors.Is(err, news.ErrSourceNotFound) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown source"})
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create article")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create article"})
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (nc *NewsController) Vote(c *fiber.Ctx) error {
	var body struct {
		ArticleID int64  `json:"articleId"`
		Direction string `json:"direction"`
	}
	if err := c.BodyParser(&body); err != nil || body.ArticleID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "articleId and direction are required"})
	}
	dir, err := news.ParseDirection(body.Direction)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "direction must be up, down or clear"})
	}

	res, err := nc.repo.Vote(c.UserContext(), middleware.UserID(c), body.ArticleID, dir)
	if errors.Is(err, news.ErrArticleNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Article not found"})
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to record vote")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record vote"})
	}
	return c.JSON(res)
}

func (nc *NewsController) ListComments(c *fiber.Ctx) error {
	id, ok := articleID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid article id"})
	}
	comments, err := nc.repo.ListComments(c.UserContext(), id)
	if errors.Is(err, news.ErrArticleNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Article not found"})
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list comments")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list comments"})
	}
	return c.JSON(comments)
}

func (nc *NewsController) AddComment(c *fiber.Ctx) error {
	id, ok := articleID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid article id"})
	}
	var body struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	text := news.CleanText(body.Body)
	if text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Comment cannot be empty"})
	}
	if len(text) > maxCommentLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Comment is too long"})
	}

	comment, err := nc.repo.AddComment(c.UserContext(), id, middleware.UserID(c), text)
	if errors.Is(err, news.ErrArticleNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Article not found"})
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to add comment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add comment"})
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
