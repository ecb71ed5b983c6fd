package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/streamnest/StreamNest/app/controllers"
	"github.com/streamnest/StreamNest/internal/pkg/middleware"
	"github.com/streamnest/StreamNest/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Provider webhooks are authenticated by signature, not by session, and
	// must stay outside any auth middleware.
	app.Post("/webhook/stripe", controllers.HandleBillingWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
