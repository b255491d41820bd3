package handlers

import (
	"sudshine/internal/app"
	authController "sudshine/internal/controllers/auth"
	reviewController "sudshine/internal/controllers/reviews"
	"sudshine/internal/handlers/middleware"
	"sudshine/internal/logger"
	"sudshine/internal/models"
	"sudshine/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	Handler
	authService      *services.AuthService
	authController   authController.AuthControllerInterface
	reviewController reviewController.ReviewControllerInterface
}

func NewReviewHandler(app app.App, router fiber.Router) *ReviewHandler {
	log := logger.New("handlers").File("review_handler")
	return &ReviewHandler{
		authService:      app.AuthService,
		authController:   app.AuthController,
		reviewController: app.ReviewController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReviewHandler) Register() {
	// The public wall needs no authentication
	h.router.Get("/reviews", h.listPublicReviews)

	protected := h.router.Group(
		"/bookings/:id/review",
		h.middleware.RequireAuth(h.authService, h.authController),
	)
	protected.Post("/", h.submitReview)
}

func (h *ReviewHandler) listPublicReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewController.ListPublic(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}

func (h *ReviewHandler) submitReview(c *fiber.Ctx) error {
	log := h.log.Function("submitReview")

	user := middleware.GetUser(c)

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		log.Warn("invalid booking id", "id", c.Params("id"))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	var req models.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	review, err := h.reviewController.Submit(c.UserContext(), user, bookingID, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}
