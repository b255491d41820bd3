package controllers

import (
	"sudshine/config"
	"sudshine/internal/repositories"
	"sudshine/internal/services"

	authController "sudshine/internal/controllers/auth"
	bookingController "sudshine/internal/controllers/bookings"
	reviewController "sudshine/internal/controllers/reviews"
)

type Controllers struct {
	Auth    authController.AuthControllerInterface
	Booking bookingController.BookingControllerInterface
	Review  reviewController.ReviewControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
) Controllers {
	return Controllers{
		Auth:    authController.New(repos.User, services.Notification),
		Booking: bookingController.New(repos, services.Notification, services.Transaction, config),
		Review:  reviewController.New(repos, services.Notification, services.Transaction),
	}
}
