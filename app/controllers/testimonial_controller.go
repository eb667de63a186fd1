package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/app/repository"
)

// HandleTestimonialsList returns approved member reviews for the public site.
func HandleTestimonialsList(c *fiber.Ctx) error {
	_, pageSize := pagination(c)
	items, err := repository.GetGlobalRepositories().Testimonial.ListApproved(pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "testimonials unavailable")
	}
	return c.JSON(fiber.Map{"testimonials": items})
}

type testimonialBody struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// HandleTestimonialCreate submits a review; it stays hidden until an
// operator approves it.
func HandleTestimonialCreate(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	var body testimonialBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	t := &models.Testimonial{
		UserID:  user.ID,
		Content: strings.TrimSpace(body.Content),
		Rating:  body.Rating,
	}
	if err := t.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := repository.GetGlobalRepositories().Testimonial.Create(t); err != nil {
		log.WithError(err).Error("testimonial creation failed")
		return jsonError(c, fiber.StatusInternalServerError, "testimonial could not be saved")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      t.ID,
		"message": "thank you, your review will appear after moderation",
	})
}
