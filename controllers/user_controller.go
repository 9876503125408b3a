package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"ringstats-backend/logger"
	"ringstats-backend/mail"
	"ringstats-backend/middleware"
	"ringstats-backend/models"
	"ringstats-backend/users"
	"ringstats-backend/validation"
)

type AuthConfig struct {
	JWTSecret   string
	FrontendURL string
	Production  bool
	// BcryptCost defaults to 14.
	BcryptCost int
}

type AuthController struct {
	users  users.Repository
	mailer mail.Mailer
	cfg    AuthConfig
}

func NewAuthController(repo users.Repository, mailer mail.Mailer, cfg AuthConfig) *AuthController {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 14
	}
	return &AuthController{users: repo, mailer: mailer, cfg: cfg}
}

func generateVerificationToken() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (ac *AuthController) verificationURL(token, email string) string {
	return fmt.Sprintf("%s/verify-email?token=%s&email=%s",
		ac.cfg.FrontendURL,
		url.QueryEscape(token),
		url.QueryEscape(email))
}

func validationFailed(c *fiber.Ctx, err error) error {
	var ve *validation.Error
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "fields": ve.Fields})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var data models.Credentials
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if err := validation.Struct(data); err != nil {
		return validationFailed(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), ac.cfg.BcryptCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	token, err := generateVerificationToken()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate verification token"})
	}

	user, err := ac.users.Create(c.UserContext(), data.Email, string(hash), token)
	if errors.Is(err, users.ErrExists) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User already exists"})
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to register user")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register user"})
	}

	// Delivery failures are logged, never reported to the caller.
	if err := ac.mailer.SendVerificationEmail(c.UserContext(), user.Email, ac.verificationURL(token, user.Email)); err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Warn("Failed to send verification email")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":              "User registered successfully. Please check your email to verify your account.",
		"requiresVerification": true,
	})
}

func (ac *AuthController) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	email := c.Query("email")

	if token == "" || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid verification link"})
	}

	ok, err := ac.users.Verify(c.UserContext(), email, token)
	if err != nil {
		logger.Log.WithError(err).Error("Verification failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Verification failed"})
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or expired verification link"})
	}

	return c.JSON(fiber.Map{"message": "Email verified successfully. You can now log in."})
}

func (ac *AuthController) ResendVerification(c *fiber.Ctx) error {
	var data struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if err := validation.Struct(data); err != nil {
		return validationFailed(c, err)
	}

	user, err := ac.users.ByEmail(c.UserContext(), data.Email)
	if err != nil {
		// Don't reveal if email exists
		return c.JSON(fiber.Map{"message": "If your email exists in our system, a verification link has been sent"})
	}

	if user.Verified {
		return c.JSON(fiber.Map{"message": "Your email is already verified"})
	}

	token := user.VerificationToken
	if token == "" {
		token, err = generateVerificationToken()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate verification token"})
		}
		if err := ac.users.SetVerificationToken(c.UserContext(), user.Email, token); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update verification token"})
		}
	}

	if err := ac.mailer.SendVerificationEmail(c.UserContext(), user.Email, ac.verificationURL(token, user.Email)); err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Warn("Failed to send verification email")
	}

	return c.JSON(fiber.Map{"message": "Verification email has been sent"})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	user, err := ac.users.ByEmail(c.UserContext(), data.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(data.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if !user.Verified {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":                "Email not verified",
			"requiresVerification": true,
		})
	}

	tokenString, err := middleware.IssueToken(ac.cfg.JWTSecret, user.ID, user.IsAdmin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": tokenString})
}

func (ac *AuthController) GetMe(c *fiber.Ctx) error {
	user, err := ac.users.ByID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

// Promote makes the caller an admin and returns a fresh token carrying the
// flag. It exists for local development only.
func (ac *AuthController) Promote(c *fiber.Ctx) error {
	if ac.cfg.Production {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Promotion is disabled in production"})
	}
	id := middleware.UserID(c)
	if err := ac.users.SetAdmin(c.UserContext(), id, true); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to promote user"})
	}
	tokenString, err := middleware.IssueToken(ac.cfg.JWTSecret, id, true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	return c.JSON(fiber.Map{"token": tokenString, "isAdmin": true})
}
