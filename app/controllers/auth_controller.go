package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/app/repository"
	"github.com/jkimani/PairMatch/internal/pkg/env"
	"github.com/jkimani/PairMatch/internal/pkg/hcaptcha"
	"github.com/jkimani/PairMatch/internal/pkg/mail"
	"github.com/jkimani/PairMatch/internal/pkg/phone"
	"github.com/jkimani/PairMatch/internal/pkg/session"
	"github.com/jkimani/PairMatch/internal/pkg/usercontext"
)

type registerRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	BirthYear    int    `json:"birth_year"`
	City         string `json:"city"`
	Religion     string `json:"religion"`
	Bio          string `json:"bio"`
	Password     string `json:"password"`
	CaptchaToken string `json:"h-captcha-response"`
}

// HandleRegister creates a pending member account and mails the activation link.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if hcaptcha.Enabled() {
		ok, err := hcaptcha.Verify(req.CaptchaToken)
		if err != nil {
			log.WithError(err).Warn("captcha verification unreachable")
		}
		if err == nil && !ok {
			return jsonError(c, fiber.StatusBadRequest, "captcha verification failed")
		}
	}

	normalizedPhone := phone.NormalizeOrKeep(req.Phone, env.GetEnv("DEFAULT_PHONE_REGION", "CI"))

	user, err := models.CreateUser(req.FirstName, req.LastName, strings.ToLower(strings.TrimSpace(req.Email)), normalizedPhone, req.Gender, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	user.BirthYear = req.BirthYear
	user.City = strings.TrimSpace(req.City)
	user.Religion = strings.TrimSpace(req.Religion)
	user.Bio = strings.TrimSpace(req.Bio)

	if err := user.GenerateActivationToken(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "registration failed")
	}

	userRepo := repository.GetGlobalRepositories().User
	if existing, err := userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "an account with this email already exists")
	}

	if err := userRepo.Create(user); err != nil {
		log.WithError(err).Error("user creation failed")
		return jsonError(c, fiber.StatusInternalServerError, "registration failed")
	}

	go func() {
		if err := mail.SendActivationMail(user.Email, user.DisplayName(), user.ActivationToken); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Warn("activation mail failed")
		}
	}()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "account created, check your email to activate it",
		"user_id": user.ID,
	})
}

// HandleActivate confirms the email activation token. The account stays
// "pending" for admin approval until an operator flips it to active.
func HandleActivate(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "missing activation token")
	}

	userRepo := repository.GetGlobalRepositories().User
	user, err := userRepo.GetByActivationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "invalid activation token")
		}
		return jsonError(c, fiber.StatusInternalServerError, "activation failed")
	}

	user.EmailVerified = true
	user.ActivationToken = ""
	if err := userRepo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "activation failed")
	}

	return c.JSON(fiber.Map{"message": "email confirmed, your profile is awaiting review"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates with email and password and opens a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	userRepo := repository.GetGlobalRepositories().User
	user, err := userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || user == nil || !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
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
		"role":    user.Role,
	})
}

// HandleLogout destroys the session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// loginSession writes the identity into the session store.
func loginSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.DisplayName())
	sess.Set(usercontext.KeyGender, user.Gender)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)
	return sess.Save()
}
