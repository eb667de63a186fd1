package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shareed2k/goth_fiber"
	log "github.com/sirupsen/logrus"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/app/repository"
)

// HandleOAuthBegin redirects to the provider's consent screen.
func HandleOAuthBegin(c *fiber.Ctx) error {
	return goth_fiber.BeginAuthHandler(c)
}

// HandleOAuthCallback completes the provider handshake. Existing accounts are
// logged in; unknown emails get a pending account created from the provider
// profile and still go through admin approval.
func HandleOAuthCallback(c *fiber.Ctx) error {
	gothUser, err := goth_fiber.CompleteUserAuth(c)
	if err != nil {
		log.WithError(err).Warn("oauth handshake failed")
		return jsonError(c, fiber.StatusUnauthorized, "authentication failed")
	}

	email := strings.ToLower(strings.TrimSpace(gothUser.Email))
	if email == "" {
		return jsonError(c, fiber.StatusBadRequest, "provider returned no email address")
	}

	userRepo := repository.GetGlobalRepositories().User
	user, err := userRepo.GetByEmail(email)
	if err != nil || user == nil {
		firstName := gothUser.FirstName
		lastName := gothUser.LastName
		if firstName == "" {
			firstName = gothUser.Name
		}
		if firstName == "" {
			firstName = "Member"
		}
		if lastName == "" {
			lastName = "Member"
		}

		user = &models.User{
			FirstName:     firstName,
			LastName:      lastName,
			Email:         email,
			Role:          models.ROLE_USER,
			Status:        models.STATUS_PENDING,
			EmailVerified: true,
		}
		// OAuth accounts have no usable password; store an unguessable one.
		if err := user.GenerateActivationToken(); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "authentication failed")
		}
		if err := user.SetPassword(user.ActivationToken); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "authentication failed")
		}
		user.ActivationToken = ""
		if err := userRepo.Create(user); err != nil {
			log.WithError(err).Error("oauth user creation failed")
			return jsonError(c, fiber.StatusInternalServerError, "authentication failed")
		}
	}
	if user.Status == models.STATUS_DISABLED {
		return jsonError(c, fiber.StatusForbidden, "account disabled")
	}

	if err := loginSession(c, user); err != nil {
		log.WithError(err).Error("session save failed")
		return jsonError(c, fiber.StatusInternalServerError, "login failed")
	}

	return c.JSON(fiber.Map{
		"user_id": user.ID,
		"name":    user.DisplayName(),
		"status":  user.Status,
	})
}
