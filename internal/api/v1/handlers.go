package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/streamnest/StreamNest/app/controllers"
	"github.com/streamnest/StreamNest/internal/pkg/middleware"
)

// APIServer implements the v1 API surface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the v1 routes to the given router group.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)
	router.Post("/auth/login", controllers.HandleAPILogin)
	router.Post("/auth/logout", controllers.HandleAPILogout)
	router.Post("/billing/customer", middleware.RequireAPISessionAuth, s.PostBillingCustomer)
	router.Post("/billing/resync", middleware.RequireAPISessionAuth, s.PostBillingResync)
	router.Get("/videos/:uuid/playback", s.GetVideoPlayback)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ping": "pong",
	})
}

// PostBillingCustomer resolves (or creates) the payment provider customer for
// the authenticated user and returns its identifier.
func (s *APIServer) PostBillingCustomer(c *fiber.Ctx) error {
	return controllers.HandleBillingCustomer(c)
}

// PostBillingResync recomputes the authenticated user's plan from the stored
// subscription state.
func (s *APIServer) PostBillingResync(c *fiber.Ctx) error {
	return controllers.HandleUserBillingResync(c)
}

// GetVideoPlayback returns playback information for a video, with the stream
// quality clamped to the viewer's plan.
func (s *APIServer) GetVideoPlayback(c *fiber.Ctx) error {
	return controllers.HandleVideoPlayback(c)
}
