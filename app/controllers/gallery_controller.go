package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/app/repository"
	"github.com/jkimani/PairMatch/internal/pkg/database"
	"github.com/jkimani/PairMatch/internal/pkg/entitlements"
	"github.com/jkimani/PairMatch/internal/pkg/metrics/counter"
	"github.com/jkimani/PairMatch/internal/pkg/usercontext"
	"github.com/jkimani/PairMatch/internal/pkg/utils"
)

// memberCard is the gallery projection of a member profile. PhotoURL points
// at the blurred or the clear variant depending on the viewer's entitlement.
type memberCard struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	BirthYear int    `json:"birth_year,omitempty"`
	City      string `json:"city,omitempty"`
	Religion  string `json:"religion,omitempty"`
	Bio       string `json:"bio,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Revealed  bool   `json:"photo_revealed"`
}

// viewerCanSeePhotos resolves the entitlement gate for the current session.
func viewerCanSeePhotos(c *fiber.Ctx) bool {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return false
	}
	var sub models.Subscription
	err := database.GetDB().Where("user_id = ?", userCtx.UserID).First(&sub).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false
		}
		return entitlements.CanViewPhotos(userCtx.Gender, nil, time.Now())
	}
	return entitlements.CanViewPhotos(userCtx.Gender, &sub, time.Now())
}

func cardFor(user *models.User, revealed bool) memberCard {
	card := memberCard{
		ID:        user.ID,
		Name:      user.DisplayName(),
		Gender:    user.Gender,
		BirthYear: user.BirthYear,
		City:      user.City,
		Religion:  user.Religion,
		Bio:       user.Bio,
		Revealed:  revealed,
	}

	photo, err := repository.GetGlobalRepositories().Photo.GetPrimaryByUserID(user.ID)
	if err != nil || photo == nil {
		card.PhotoURL = utils.GetGravatarURL(user.Email, 360)
		return card
	}
	variant := "blurred"
	if revealed {
		variant = "original"
	}
	card.PhotoURL = fmt.Sprintf("/api/v1/photos/%s/%s", photo.UUID, variant)
	return card
}

// HandleGalleryList returns the browsable member gallery. Optional
// ?gender= filter; always only admin-approved profiles.
func HandleGalleryList(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	gender := c.Query("gender")
	if gender != "" && gender != models.GENDER_FEMALE && gender != models.GENDER_MALE {
		return jsonError(c, fiber.StatusBadRequest, "invalid gender filter")
	}

	users, err := repository.GetGlobalRepositories().User.ListActive(gender, (page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "gallery unavailable")
	}

	revealed := viewerCanSeePhotos(c)
	cards := make([]memberCard, 0, len(users))
	for i := range users {
		cards = append(cards, cardFor(&users[i], revealed))
	}

	return c.JSON(fiber.Map{
		"members":   cards,
		"page":      page,
		"page_size": pageSize,
	})
}

// HandleGalleryMember returns a single approved profile.
func HandleGalleryMember(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid member id")
	}

	user, err := repository.GetGlobalRepositories().User.GetByID(id)
	if err != nil || user == nil || !user.IsActive() {
		return jsonError(c, fiber.StatusNotFound, "member not found")
	}

	if viewerID := usercontext.GetUserID(c); viewerID != user.ID {
		if err := counter.AddProfileView(user.ID); err != nil {
			log.WithError(err).Debug("profile view counter unavailable")
		}
	}

	return c.JSON(cardFor(user, viewerCanSeePhotos(c)))
}
