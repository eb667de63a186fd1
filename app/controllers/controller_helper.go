package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/internal/pkg/database"
	"github.com/jkimani/PairMatch/internal/pkg/usercontext"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination reads ?page= and ?page_size= with sane bounds.
func pagination(c *fiber.Ctx) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// currentUser loads the full user record behind the session context.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "login required")
	}
	var user models.User
	if err := database.GetDB().First(&user, userCtx.UserID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unknown user")
	}
	return &user, nil
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
