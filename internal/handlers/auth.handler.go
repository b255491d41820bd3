package handlers

import (
	"sudshine/internal/app"
	authController "sudshine/internal/controllers/auth"
	"sudshine/internal/handlers/middleware"
	"sudshine/internal/logger"
	"sudshine/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authService    *services.AuthService
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authService:    app.AuthService,
		authController: app.AuthController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	protected := auth.Group("/", h.middleware.RequireAuth(h.authService, h.authController))
	protected.Get("/me", h.getCurrentUser)
}

// getCurrentUser returns the profile of the authenticated user.
func (h *AuthHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"user": user.ToProfile(),
	})
}
