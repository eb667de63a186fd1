package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/app/repository"
	"github.com/jkimani/PairMatch/internal/pkg/database"
	"github.com/jkimani/PairMatch/internal/pkg/mail"
	"github.com/jkimani/PairMatch/internal/pkg/notifications"
	"github.com/jkimani/PairMatch/internal/pkg/usercontext"
)

// HandleAdminDashboard returns the operator counters.
func HandleAdminDashboard(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	total, _ := repos.User.Count()
	pending, _ := repos.User.CountByStatus(models.STATUS_PENDING)
	active, _ := repos.User.CountByStatus(models.STATUS_ACTIVE)
	paid, _ := repos.Ledger.CountTransactionsByStatus(models.PaymentStatusPaid)
	open, _ := repos.Ledger.CountTransactionsByStatus(models.PaymentStatusPending)

	return c.JSON(fiber.Map{
		"members_total":    total,
		"members_pending":  pending,
		"members_active":   active,
		"payments_paid":    paid,
		"payments_pending": open,
	})
}

// HandleAdminRegistrationsList lists profiles awaiting approval.
func HandleAdminRegistrationsList(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	users, err := repository.GetGlobalRepositories().User.ListByStatus(models.STATUS_PENDING, (page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "registrations unavailable")
	}
	return c.JSON(fiber.Map{"registrations": users, "page": page})
}

// HandleAdminMemberStatus flips a member between active and disabled. Approval
// is what makes a profile visible in the gallery.
func HandleAdminMemberStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid member id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Status != models.STATUS_ACTIVE && body.Status != models.STATUS_DISABLED {
		return jsonError(c, fiber.StatusBadRequest, "status must be active or disabled")
	}

	userRepo := repository.GetGlobalRepositories().User
	user, err := userRepo.GetByID(id)
	if err != nil || user == nil {
		return jsonError(c, fiber.StatusNotFound, "member not found")
	}

	approved := body.Status == models.STATUS_ACTIVE && user.Status == models.STATUS_PENDING
	user.Status = body.Status
	if err := userRepo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update failed")
	}

	if approved {
		if err := notifications.Notify(database.GetDB(), user.ID, models.NotificationTypeSystem,
			"Your profile was approved and is now visible in the gallery", user.ID); err != nil {
			log.WithError(err).Warn("approval notification failed")
		}
	}

	return c.JSON(fiber.Map{"message": "member " + body.Status})
}

// HandleAdminTransactionsList returns the payment ledger.
func HandleAdminTransactionsList(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	items, err := repository.GetGlobalRepositories().Ledger.ListTransactions((page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "ledger unavailable")
	}
	return c.JSON(fiber.Map{"transactions": items, "page": page})
}

// HandleAdminSubscriptionsList returns the entitlement records.
func HandleAdminSubscriptionsList(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	items, err := repository.GetGlobalRepositories().Ledger.ListSubscriptions((page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "subscriptions unavailable")
	}
	return c.JSON(fiber.Map{"subscriptions": items, "page": page})
}

// HandleAdminTestimonialsList returns all reviews including unapproved ones.
func HandleAdminTestimonialsList(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	items, err := repository.GetGlobalRepositories().Testimonial.ListAll((page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "testimonials unavailable")
	}
	return c.JSON(fiber.Map{"testimonials": items, "page": page})
}

// HandleAdminTestimonialApprove toggles a review's visibility.
func HandleAdminTestimonialApprove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid testimonial id")
	}
	var body struct {
		Approved bool `json:"approved"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := repository.GetGlobalRepositories().Testimonial.SetApproved(id, body.Approved); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update failed")
	}
	return c.JSON(fiber.Map{"message": "testimonial updated"})
}

// HandleAdminTestimonialDelete removes a review.
func HandleAdminTestimonialDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid testimonial id")
	}
	if err := repository.GetGlobalRepositories().Testimonial.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "delete failed")
	}
	return c.JSON(fiber.Map{"message": "testimonial deleted"})
}

type matchBody struct {
	MemberAID uint       `json:"member_a_id"`
	MemberBID uint       `json:"member_b_id"`
	MeetingAt *time.Time `json:"meeting_at"`
	Note      string     `json:"note"`
	Status    string     `json:"status"`
}

// HandleAdminMatchCreate arranges an introduction between two members and
// tells both by mail and in-app notification.
func HandleAdminMatchCreate(c *fiber.Ctx) error {
	var body matchBody
	if err := c.BodyParser(&body); err != nil || body.MemberAID == 0 || body.MemberBID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "member_a_id and member_b_id are required")
	}
	if body.MemberAID == body.MemberBID {
		return jsonError(c, fiber.StatusBadRequest, "cannot match a member with themselves")
	}

	repos := repository.GetGlobalRepositories()
	memberA, err := repos.User.GetByID(body.MemberAID)
	if err != nil || memberA == nil {
		return jsonError(c, fiber.StatusNotFound, "member_a not found")
	}
	memberB, err := repos.User.GetByID(body.MemberBID)
	if err != nil || memberB == nil {
		return jsonError(c, fiber.StatusNotFound, "member_b not found")
	}

	match := &models.Match{
		MemberAID:   memberA.ID,
		MemberBID:   memberB.ID,
		CreatedByID: usercontext.GetUserID(c),
		Status:      models.MatchStatusProposed,
		MeetingAt:   body.MeetingAt,
		Note:        body.Note,
	}
	if body.MeetingAt != nil {
		match.Status = models.MatchStatusScheduled
	}
	if err := repos.Match.Create(match); err != nil {
		log.WithError(err).Error("match creation failed")
		return jsonError(c, fiber.StatusInternalServerError, "match could not be created")
	}

	db := database.GetDB()
	for _, pair := range []struct{ member, other *models.User }{
		{memberA, memberB},
		{memberB, memberA},
	} {
		if err := notifications.Notify(db, pair.member.ID, models.NotificationTypeMatch,
			"You have been introduced to "+pair.other.DisplayName(), match.ID); err != nil {
			log.WithError(err).Warn("match notification failed")
		}
		member, other := pair.member, pair.other
		go func() {
			if err := mail.SendMatchMail(member.Email, member.DisplayName(), other.DisplayName()); err != nil {
				log.WithError(err).Warn("match mail failed")
			}
		}()
	}

	return c.Status(fiber.StatusCreated).JSON(match)
}

// HandleAdminMatchesList returns arranged introductions.
func HandleAdminMatchesList(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	items, err := repository.GetGlobalRepositories().Match.ListAll((page-1)*pageSize, pageSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "matches unavailable")
	}
	return c.JSON(fiber.Map{"matches": items, "page": page})
}

// HandleAdminMatchUpdate updates status, meeting time or note.
func HandleAdminMatchUpdate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid match id")
	}
	var body matchBody
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	match, err := repos.Match.GetByID(id)
	if err != nil || match == nil {
		return jsonError(c, fiber.StatusNotFound, "match not found")
	}

	if body.Status != "" {
		switch body.Status {
		case models.MatchStatusProposed, models.MatchStatusScheduled, models.MatchStatusCompleted, models.MatchStatusCancelled:
			match.Status = body.Status
		default:
			return jsonError(c, fiber.StatusBadRequest, "unknown match status")
		}
	}
	if body.MeetingAt != nil {
		match.MeetingAt = body.MeetingAt
	}
	if body.Note != "" {
		match.Note = body.Note
	}

	if err := repos.Match.Update(match); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update failed")
	}
	return c.JSON(match)
}

// HandleAdminMatchDelete removes an arranged introduction.
func HandleAdminMatchDelete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid match id")
	}
	if err := repository.GetGlobalRepositories().Match.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "delete failed")
	}
	return c.JSON(fiber.Map{"message": "match deleted"})
}
