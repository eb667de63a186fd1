package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
	"github.com/jkimani/PairMatch/internal/pkg/cache"
	"github.com/jkimani/PairMatch/internal/pkg/database"
	"github.com/jkimani/PairMatch/internal/pkg/entitlements"
	"github.com/jkimani/PairMatch/internal/pkg/env"
	"github.com/jkimani/PairMatch/internal/pkg/mail"
	"github.com/jkimani/PairMatch/internal/pkg/notifications"
	"github.com/jkimani/PairMatch/internal/pkg/payment"
	"github.com/jkimani/PairMatch/internal/pkg/usercontext"
)

func newPaymentService() *payment.Service {
	return payment.NewServiceFromDB(database.GetDB(), redislock.New(cache.GetClient()))
}

// HandleCreateCheckout starts (or reuses) a gateway checkout session for the
// logged-in member and returns the redirect URL.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc := newPaymentService()
	result, err := svc.InitiateCheckout(ctx, userCtx.UserID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrProfileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		case errors.Is(err, payment.ErrCheckoutInProgress):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "a checkout is already in progress"})
		case errors.Is(err, payment.ErrGatewayUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "payment provider unavailable, please try again"})
		case errors.Is(err, payment.ErrGatewayRejected):
			log.WithError(err).Error("gateway rejected checkout")
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "payment could not be started"})
		default:
			log.WithError(err).Error("checkout initiation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "payment could not be started"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"checkout_url": result.CheckoutURL,
		"reference":    result.Reference,
		"reused":       result.Reused,
	})
}

// HandlePaymentWebhook receives the gateway's asynchronous payment outcome.
// The response code is for the gateway's retry logic only: 400 on unparseable
// bodies, 401 on bad signatures, 500 when the entitlement write failed and a
// redelivery is wanted, 200 for everything else including unmatched orders.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Gateway-Signature"))
	eventID := strings.TrimSpace(c.Get("X-Gateway-Delivery"))
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")

	svc := newPaymentService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ev, parseErr := payment.ParseWebhookEvent(rawBody)
	orderID := ""
	if ev != nil {
		orderID = ev.OrderID
	}

	signatureValid := payment.VerifyWebhookSignature(rawBody, signature, secret)
	created, stored, err := svc.RecordWebhookEvent(ctx, eventID, orderID, rawBody, signatureValid)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	// Only a delivery id whose processing already completed is a duplicate.
	// A row left behind by a rejected signature or a handler error must not
	// block the genuine redelivery, so those fall through and get verified
	// and handled again against the fresh payload.
	if !created && stored.ProcessedOK() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}
	if parseErr != nil {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, parseErr)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	outcome, handleErr := svc.HandleWebhookEvent(ctx, ev)
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, handleErr)

	switch {
	case handleErr == nil && outcome == payment.OutcomeGranted:
		notifyPaymentGranted(ev.OrderID)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	case errors.Is(handleErr, payment.ErrWebhookUnmatched):
		// Ack anyway: a non-2xx would only trigger a retry storm for an
		// order we will never match.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "unmatched": true})
	case errors.Is(handleErr, payment.ErrEntitlementWriteFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "entitlement_update_failed"})
	case handleErr != nil:
		log.WithError(handleErr).Error("webhook processing failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_processing_failed"})
	default:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}
}

// HandleGetSubscription returns the member's own entitlement state.
func HandleGetSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	svc := newPaymentService()
	sub, err := svc.GetSubscription(context.Background(), userCtx.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "subscription lookup failed"})
	}

	resp := fiber.Map{
		"subscription_status":   models.SubscriptionStatusInactive,
		"subscription_end_date": nil,
		"can_view_photos":       entitlements.CanViewPhotosNow(userCtx.Gender, sub),
	}
	if sub != nil && sub.HasTimeLeft(time.Now()) {
		resp["subscription_status"] = models.SubscriptionStatusActive
		resp["subscription_end_date"] = sub.EndDate.UTC().Format(time.RFC3339)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// notifyPaymentGranted sends the member their receipt and in-app
// notification. Failures here never affect the gateway response.
func notifyPaymentGranted(orderID string) {
	db := database.GetDB()

	var tx models.PaymentTransaction
	if err := db.Where("order_id = ?", orderID).First(&tx).Error; err != nil {
		return
	}
	var user models.User
	if err := db.First(&user, tx.UserID).Error; err != nil {
		return
	}
	var sub models.Subscription
	if err := db.Where("user_id = ?", tx.UserID).First(&sub).Error; err != nil || sub.EndDate == nil {
		return
	}

	if err := notifications.Notify(db, user.ID, models.NotificationTypePayment,
		"Your subscription is active until "+sub.EndDate.Format("2 January 2006"), tx.ID); err != nil {
		log.WithError(err).Warn("payment notification failed")
	}
	go func() {
		if err := mail.SendPaymentReceipt(user.Email, user.DisplayName(), *sub.EndDate); err != nil {
			log.WithError(err).Warn("payment receipt mail failed")
		}
	}()
}
