package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"resumewise/resume-analyzer/internal/models"
	"resumewise/resume-analyzer/internal/services"
)

type AuthHandler struct {
	auth         services.AuthService
	validate     *validator.Validate
	tokenTTL     time.Duration
	secureCookie bool
}

func NewAuthHandler(auth services.AuthService, validate *validator.Validate, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		validate:     validate,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// HandleSignIn handles POST /auth/sign-in
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req models.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	req.Username = strings.TrimSpace(req.Username)

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err),
		})
	}

	token, user, err := h.auth.SignIn(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("❌ Sign-in failed for %s: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to sign in",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(models.SignInResponse{
		Token: token,
		User:  models.UserPublic{Username: user.Username},
		Next:  safeNext(c.Query("next")),
	})
}

// HandleSignOut handles POST /auth/sign-out
func (h *AuthHandler) HandleSignOut(c *fiber.Ctx) error {
	c.ClearCookie(SessionCookie)
	return c.JSON(fiber.Map{
		"message": "signed out",
		"next":    "/auth",
	})
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	username, err := h.auth.ParseToken(tokenFromRequest(c))
	if err != nil {
		return c.JSON(models.SessionResponse{IsAuthenticated: false})
	}
	return c.JSON(models.SessionResponse{
		IsAuthenticated: true,
		User:            &models.UserPublic{Username: username},
	})
}

// safeNext only allows local paths as the post sign-in target.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// NewValidator reports fields by their form or json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return v
}
