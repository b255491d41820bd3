package app

import (
	"context"

	"sudshine/config"
	"sudshine/internal/controllers"
	"sudshine/internal/database"
	"sudshine/internal/events"
	"sudshine/internal/handlers/middleware"
	"sudshine/internal/jobs"
	"sudshine/internal/logger"
	"sudshine/internal/repositories"
	"sudshine/internal/services"
	"sudshine/internal/websockets"

	authController "sudshine/internal/controllers/auth"
	bookingController "sudshine/internal/controllers/bookings"
	reviewController "sudshine/internal/controllers/reviews"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	AuthService         *services.AuthService
	TransactionService  *services.TransactionService
	SchedulerService    *services.SchedulerService
	NotificationService *services.NotificationService

	// Repositories
	UserRepo         repositories.UserRepository
	BookingRepo      repositories.BookingRepository
	LoyaltyRepo      repositories.LoyaltyRepository
	ReviewRepo       repositories.ReviewRepository
	NotificationRepo repositories.NotificationRepository

	// Controllers
	AuthController    authController.AuthControllerInterface
	BookingController bookingController.BookingControllerInterface
	ReviewController  reviewController.ReviewControllerInterface
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	service, err := services.New(db, config, eventBus, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	controllers := controllers.New(service, repos, config)

	websocket, err := websockets.New(eventBus, config, service.Auth, controllers.Auth)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config)

	if config.SchedulerEnabled {
		loyaltyReminderJob := jobs.NewLoyaltyReminderJob(
			repos.Loyalty,
			repos.User,
			service.Notification,
			services.Daily,
		)
		if err := service.Scheduler.AddJob(loyaltyReminderJob); err != nil {
			return &App{}, log.Err("failed to register loyalty reminder job", err)
		}
		log.Info("Registered loyalty reminder job with scheduler")
	}

	app := &App{
		Database:            db,
		Config:              config,
		Middleware:          middleware,
		Websocket:           websocket,
		EventBus:            eventBus,
		AuthService:         service.Auth,
		TransactionService:  service.Transaction,
		SchedulerService:    service.Scheduler,
		NotificationService: service.Notification,
		UserRepo:            repos.User,
		BookingRepo:         repos.Booking,
		LoyaltyRepo:         repos.Loyalty,
		ReviewRepo:          repos.Review,
		NotificationRepo:    repos.Notification,
		AuthController:      controllers.Auth,
		BookingController:   controllers.Booking,
		ReviewController:    controllers.Review,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.AuthService,
		a.TransactionService,
		a.SchedulerService,
		a.NotificationService,
		a.UserRepo,
		a.BookingRepo,
		a.LoyaltyRepo,
		a.ReviewRepo,
		a.NotificationRepo,
		a.AuthController,
		a.BookingController,
		a.ReviewController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.SchedulerService != nil {
		if closeErr := a.SchedulerService.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
