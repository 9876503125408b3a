package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"ringstats-backend/logger"
	"ringstats-backend/mail"
	"ringstats-backend/middleware"
	"ringstats-backend/users"
	"ringstats-backend/validation"
)

type TipForm struct {
	Name     string `json:"name" validate:"max=100"`
	Headline string `json:"headline" validate:"required,max=300"`
	Link     string `json:"link" validate:"omitempty,url"`
	Message  string `json:"message"`
}

// TipsController forwards reader news tips to the editor.
type TipsController struct {
	users  users.Repository
	mailer mail.Mailer
}

func NewTipsController(repo users.Repository, mailer mail.Mailer) *TipsController {
	return &TipsController{users: repo, mailer: mailer}
}

func (tc *TipsController) SubmitTip(c *fiber.Ctx) error {
	user, err := tc.users.ByID(c.UserContext(), middleware.UserID(c))
	if err != nil || strings.TrimSpace(user.Email) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User email not found",
		})
	}

	form := new(TipForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validation.Struct(form); err != nil {
		return validationFailed(c, err)
	}

	if len(strings.TrimSpace(form.Message)) < 15 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is too short",
		})
	}

	err = tc.mailer.SendNewsTip(c.UserContext(), mail.Tip{
		FromEmail: user.Email,
		Name:      strings.TrimSpace(form.Name),
		Headline:  strings.TrimSpace(form.Headline),
		Link:      form.Link,
		Message:   strings.TrimSpace(form.Message),
	})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to send news tip")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send message",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
