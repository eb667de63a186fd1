package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/app/repository"
	"github.com/jkimani/PairMatch/internal/pkg/database"
	"github.com/jkimani/PairMatch/internal/pkg/notifications"
)

type createRequestBody struct {
	ReceiverID uint   `json:"receiver_id"`
	Message    string `json:"message"`
}

// HandleRequestCreate sends an interest request to another member. One open
// request per member pair.
func HandleRequestCreate(c *fiber.Ctx) error {
	sender, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	var body createRequestBody
	if err := c.BodyParser(&body); err != nil || body.ReceiverID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "receiver_id is required")
	}
	if body.ReceiverID == sender.ID {
		return jsonError(c, fiber.StatusBadRequest, "cannot send a request to yourself")
	}

	repos := repository.GetGlobalRepositories()
	receiver, err := repos.User.GetByID(body.ReceiverID)
	if err != nil || receiver == nil || !receiver.IsActive() {
		return jsonError(c, fiber.StatusNotFound, "member not found")
	}

	if existing, err := repos.Request.GetBetween(sender.ID, receiver.ID); err == nil && existing != nil && existing.IsOpen() {
		return jsonError(c, fiber.StatusConflict, "a request to this member is already pending")
	}

	req := &models.MatchRequest{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Message:    strings.TrimSpace(body.Message),
		Status:     models.RequestStatusPending,
	}
	if err := repos.Request.Create(req); err != nil {
		log.WithError(err).Error("request creation failed")
		return jsonError(c, fiber.StatusInternalServerError, "request could not be sent")
	}

	if err := notifications.Notify(database.GetDB(), receiver.ID, models.NotificationTypeRequest,
		sender.DisplayName()+" sent you an interest request", req.ID); err != nil {
		log.WithError(err).Warn("request notification failed")
	}

	return c.Status(fiber.StatusCreated).JSON(req)
}

// HandleRequestsSent lists the member's outgoing requests.
func HandleRequestsSent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
	requests, err := repository.GetGlobalRepositories().Request.ListSent(user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "requests unavailable")
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// HandleRequestsReceived lists the member's incoming requests.
func HandleRequestsReceived(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
	requests, err := repository.GetGlobalRepositories().Request.ListReceived(user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "requests unavailable")
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// HandleRequestRespond lets the receiver accept or decline a pending request.
func HandleRequestRespond(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var body struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	var status string
	switch body.Action {
	case "accept":
		status = models.RequestStatusAccepted
	case "decline":
		status = models.RequestStatusDeclined
	default:
		return jsonError(c, fiber.StatusBadRequest, "action must be accept or decline")
	}

	repos := repository.GetGlobalRepositories()
	req, err := repos.Request.GetByID(id)
	if err != nil || req == nil || req.ReceiverID != user.ID {
		return jsonError(c, fiber.StatusNotFound, "request not found")
	}
	if !req.IsOpen() {
		return jsonError(c, fiber.StatusConflict, "request already answered")
	}

	if err := repos.Request.UpdateStatus(req.ID, status); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "update failed")
	}

	verb := "accepted"
	if status == models.RequestStatusDeclined {
		verb = "declined"
	}
	if err := notifications.Notify(database.GetDB(), req.SenderID, models.NotificationTypeRequest,
		user.DisplayName()+" "+verb+" your interest request", req.ID); err != nil {
		log.WithError(err).Warn("response notification failed")
	}

	return c.JSON(fiber.Map{"message": "request " + verb})
}
