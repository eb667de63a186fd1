package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jkimani/PairMatch/app/controllers"
	"github.com/jkimani/PairMatch/internal/pkg/middleware"
	"github.com/jkimani/PairMatch/internal/pkg/oauth"
	"github.com/jkimani/PairMatch/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerAuthRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

// registerAuthRoutes wires the session lifecycle endpoints. Everything else
// lives under /api/v1.
func (h HttpRouter) registerAuthRoutes(app *fiber.App) {
	app.Post("/register", controllers.HandleRegister)
	app.Get("/activate", controllers.HandleActivate)
	app.Post("/login", controllers.HandleLogin)
	app.Post("/logout", controllers.HandleLogout)

	app.Get("/auth/:provider", controllers.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
}
