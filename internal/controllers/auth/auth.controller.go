package authController

import (
	"context"

	"sudshine/internal/logger"
	"sudshine/internal/models"
	"sudshine/internal/repositories"
	"sudshine/internal/services"
)

// AuthController bridges the external identity provider and the local user
// store. The provider owns authentication; this controller only materializes
// and refreshes the local user row.
type AuthController struct {
	userRepo     repositories.UserRepository
	notification *services.NotificationService
	log          logger.Logger
}

type AuthControllerInterface interface {
	// EnsureUser resolves the token subject to a local user, creating the
	// row on first visit and firing the welcome notification.
	EnsureUser(ctx context.Context, info *services.TokenInfo) (*models.User, error)
}

func New(
	userRepo repositories.UserRepository,
	notification *services.NotificationService,
) AuthControllerInterface {
	return &AuthController{
		userRepo:     userRepo,
		notification: notification,
		log:          logger.New("authController"),
	}
}

func (c *AuthController) EnsureUser(ctx context.Context, info *services.TokenInfo) (*models.User, error) {
	log := c.log.Function("EnsureUser")

	candidate := &models.User{
		ExternalID: info.Subject,
		Name:       info.Name,
	}
	if info.Email != "" {
		email := info.Email
		candidate.Email = &email
	}

	user, created, err := c.userRepo.FindOrCreateByExternalID(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if created {
		log.Info("new user registered", "userID", user.ID)
		c.notification.Send(ctx, models.NotifyWelcome, user, map[string]any{
			"name": user.Name,
		})
		return user, nil
	}

	user.UpdateFromToken(candidate.Email, info.Name)
	if err := c.userRepo.Update(ctx, user); err != nil {
		log.Warn("failed to refresh user from token claims", "userID", user.ID, "error", err)
	}

	return user, nil
}
