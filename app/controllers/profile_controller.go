package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jkimani/PairMatch/app/repository"
	"github.com/jkimani/PairMatch/internal/pkg/env"
	"github.com/jkimani/PairMatch/internal/pkg/phone"
)

// HandleMe returns the logged-in member's own profile.
func HandleMe(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
	return c.JSON(user)
}

type profileUpdateBody struct {
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
	Religion *string `json:"religion"`
	Bio      *string `json:"bio"`
}

// HandleProfileUpdate changes the member's editable profile fields. Name,
// email and gender are fixed after registration.
func HandleProfileUpdate(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	var body profileUpdateBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Phone != nil {
		user.Phone = phone.NormalizeOrKeep(*body.Phone, env.GetEnv("DEFAULT_PHONE_REGION", "CI"))
	}
	if body.City != nil {
		user.City = strings.TrimSpace(*body.City)
	}
	if body.Religion != nil {
		user.Religion = strings.TrimSpace(*body.Religion)
	}
	if body.Bio != nil {
		user.Bio = strings.TrimSpace(*body.Bio)
	}
	if err := user.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := repository.GetGlobalRepositories().User.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update failed")
	}
	return c.JSON(user)
}
