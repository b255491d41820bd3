package handlers

import (
	"sudshine/internal/app"
	authController "sudshine/internal/controllers/auth"
	bookingController "sudshine/internal/controllers/bookings"
	"sudshine/internal/handlers/middleware"
	"sudshine/internal/logger"
	"sudshine/internal/models"
	"sudshine/internal/repositories"
	"sudshine/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BookingHandler struct {
	Handler
	authService       *services.AuthService
	authController    authController.AuthControllerInterface
	bookingController bookingController.BookingControllerInterface
	loyaltyRepo       repositories.LoyaltyRepository
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	log := logger.New("handlers").File("booking_handler")
	return &BookingHandler{
		authService:       app.AuthService,
		authController:    app.AuthController,
		bookingController: app.BookingController,
		loyaltyRepo:       app.LoyaltyRepo,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BookingHandler) Register() {
	requireAuth := h.middleware.RequireAuth(h.authService, h.authController)

	bookings := h.router.Group("/bookings", requireAuth)
	bookings.Post("/", h.createBooking)
	bookings.Get("/", h.listOwnBookings)
	bookings.Post("/:id/cancel", h.cancelBooking)

	loyalty := h.router.Group("/loyalty", requireAuth)
	loyalty.Get("/", h.getLoyalty)
}

func (h *BookingHandler) createBooking(c *fiber.Ctx) error {
	log := h.log.Function("createBooking")

	user := middleware.GetUser(c)

	var req models.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.bookingController.Create(c.UserContext(), user, req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) listOwnBookings(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	bookings, err := h.bookingController.ListForUser(c.UserContext(), user)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *BookingHandler) cancelBooking(c *fiber.Ctx) error {
	log := h.log.Function("cancelBooking")

	user := middleware.GetUser(c)

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		log.Warn("invalid booking id", "id", c.Params("id"))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	booking, err := h.bookingController.Transition(
		c.UserContext(),
		user,
		bookingID,
		models.TransitionCancel,
		nil,
	)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) getLoyalty(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	ledger, err := h.loyaltyRepo.GetByUser(c.UserContext(), user.ID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"bookingsCount":     ledger.BookingsCount,
		"discountAvailable": ledger.DiscountAvailable,
	})
}
