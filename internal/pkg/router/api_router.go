package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jkimani/PairMatch/app/controllers"
	"github.com/jkimani/PairMatch/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 60}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "PairMatch API",
		})
	})

	v1 := api.Group("/v1")

	// The webhook is authenticated by its HMAC signature, not by session.
	billing := v1.Group("/billing")
	billing.Post("/webhook", controllers.HandlePaymentWebhook)
	billing.Post("/checkout", middleware.RequireAuth, middleware.RequireActiveMember, controllers.HandleCreateCheckout)
	billing.Get("/subscription", middleware.RequireAuth, controllers.HandleGetSubscription)

	v1.Get("/me", middleware.RequireAuth, controllers.HandleMe)
	v1.Patch("/me", middleware.RequireAuth, controllers.HandleProfileUpdate)

	members := v1.Group("/members", middleware.RequireAuth, middleware.RequireActiveMember)
	members.Get("/", controllers.HandleGalleryList)
	members.Get("/:id", controllers.HandleGalleryMember)

	photos := v1.Group("/photos")
	photos.Post("/", middleware.RequireAuth, middleware.RequireActiveMember, controllers.HandlePhotoUpload)
	photos.Get("/:uuid/:variant", middleware.RequireAuth, controllers.HandlePhotoServe)
	photos.Post("/:uuid/primary", middleware.RequireAuth, controllers.HandlePhotoSetPrimary)
	photos.Delete("/:uuid", middleware.RequireAuth, controllers.HandlePhotoDelete)

	requests := v1.Group("/requests", middleware.RequireAuth, middleware.RequireActiveMember)
	requests.Post("/", controllers.HandleRequestCreate)
	requests.Get("/sent", controllers.HandleRequestsSent)
	requests.Get("/received", controllers.HandleRequestsReceived)
	requests.Post("/:id/respond", controllers.HandleRequestRespond)

	notifs := v1.Group("/notifications", middleware.RequireAuth)
	notifs.Get("/", controllers.HandleNotificationsList)
	notifs.Get("/stream", controllers.HandleNotificationsStream)
	notifs.Post("/read", controllers.HandleNotificationsMarkAllRead)
	notifs.Post("/:id/read", controllers.HandleNotificationMarkRead)

	v1.Get("/testimonials", controllers.HandleTestimonialsList)
	v1.Post("/testimonials", middleware.RequireAuth, middleware.RequireActiveMember, controllers.HandleTestimonialCreate)

	h.installAdminRoutes(app)
}

func (h ApiRouter) installAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin/api", middleware.RequireAuth, middleware.RequireAdmin)

	admin.Get("/dashboard", controllers.HandleAdminDashboard)

	admin.Get("/registrations", controllers.HandleAdminRegistrationsList)
	admin.Post("/members/:id/status", controllers.HandleAdminMemberStatus)

	admin.Get("/transactions", controllers.HandleAdminTransactionsList)
	admin.Get("/subscriptions", controllers.HandleAdminSubscriptionsList)

	admin.Get("/testimonials", controllers.HandleAdminTestimonialsList)
	admin.Post("/testimonials/:id/approve", controllers.HandleAdminTestimonialApprove)
	admin.Delete("/testimonials/:id", controllers.HandleAdminTestimonialDelete)

	admin.Post("/matches", controllers.HandleAdminMatchCreate)
	admin.Get("/matches", controllers.HandleAdminMatchesList)
	admin.Patch("/matches/:id", controllers.HandleAdminMatchUpdate)
	admin.Delete("/matches/:id", controllers.HandleAdminMatchDelete)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
