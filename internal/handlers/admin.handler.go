package handlers

import (
	"sudshine/internal/app"
	authController "sudshine/internal/controllers/auth"
	bookingController "sudshine/internal/controllers/bookings"
	reviewController "sudshine/internal/controllers/reviews"
	"sudshine/internal/handlers/middleware"
	"sudshine/internal/logger"
	"sudshine/internal/models"
	"sudshine/internal/repositories"
	"sudshine/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	Handler
	authService       *services.AuthService
	authController    authController.AuthControllerInterface
	bookingController bookingController.BookingControllerInterface
	reviewController  reviewController.ReviewControllerInterface
	notificationRepo  repositories.NotificationRepository
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		authService:       app.AuthService,
		authController:    app.AuthController,
		bookingController: app.BookingController,
		reviewController:  app.ReviewController,
		notificationRepo:  app.NotificationRepo,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group(
		"/admin",
		h.middleware.RequireAuth(h.authService, h.authController),
		h.middleware.RequireAdmin(),
	)

	bookings := admin.Group("/bookings")
	bookings.Get("/", h.listBookings)
	bookings.Post("/:id/approve", h.transition(models.TransitionApprove))
	bookings.Post("/:id/reject", h.transition(models.TransitionReject))
	bookings.Post("/:id/reschedule", h.rescheduleBooking)
	bookings.Post("/:id/start", h.transition(models.TransitionStart))
	bookings.Post("/:id/complete", h.transition(models.TransitionComplete))
	bookings.Post("/:id/cancel", h.transition(models.TransitionCancel))
	bookings.Post("/:id/invoice", h.issueInvoice)

	reviews := admin.Group("/reviews")
	reviews.Get("/", h.listReviews)
	reviews.Patch("/:id", h.moderateReview)

	admin.Get("/notifications", h.listNotifications)
}

// listBookings returns every booking, optionally narrowed by ?status=.
func (h *AdminHandler) listBookings(c *fiber.Ctx) error {
	status := c.Query("status")
	if status == "" {
		bookings, err := h.bookingController.ListAll(c.UserContext())
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(fiber.Map{"bookings": bookings})
	}

	bookings, err := h.bookingController.ListByStatus(c.UserContext(), models.BookingStatus(status))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

// transition builds a handler applying one fixed lifecycle transition.
func (h *AdminHandler) transition(transition models.Transition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := middleware.GetUser(c)

		bookingID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid booking id",
			})
		}

		booking, err := h.bookingController.Transition(c.UserContext(), user, bookingID, transition, nil)
		if err != nil {
			return errorResponse(c, err)
		}

		return c.JSON(fiber.Map{"booking": booking})
	}
}

func (h *AdminHandler) rescheduleBooking(c *fiber.Ctx) error {
	log := h.log.Function("rescheduleBooking")

	user := middleware.GetUser(c)

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	var req models.RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.bookingController.Transition(
		c.UserContext(),
		user,
		bookingID,
		models.TransitionReschedule,
		&req,
	)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *AdminHandler) issueInvoice(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	if err := h.bookingController.IssueInvoice(c.UserContext(), bookingID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"status": "issued"})
}

func (h *AdminHandler) listReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewController.ListAll(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"reviews": reviews})
}

func (h *AdminHandler) moderateReview(c *fiber.Ctx) error {
	log := h.log.Function("moderateReview")

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid review id",
		})
	}

	var req models.ModerateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	review, err := h.reviewController.Moderate(c.UserContext(), reviewID, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"review": review})
}

func (h *AdminHandler) listNotifications(c *fiber.Ctx) error {
	notifications, err := h.notificationRepo.FindRecent(c.UserContext(), c.QueryInt("limit"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}
