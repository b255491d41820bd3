package websockets

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// startAuthTimeout closes the connection if the client has not presented a
// valid token shortly after connecting.
func (c *Client) startAuthTimeout() {
	go func() {
		time.Sleep(AUTH_TIMEOUT)

		if c.Status != STATUS_AUTHENTICATED && c.Status != STATUS_CLOSED {
			c.sendAuthFailure("authentication timeout")
			_ = c.Connection.Close()
		}
	}()
}

// handleAuthResponse validates the presented token and promotes the client.
// The feed is admin-only: a valid token from a non-admin user is rejected.
func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if message.Token == "" {
		c.sendAuthFailure("token required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tokenInfo, err := c.Manager.authService.ValidateToken(ctx, message.Token)
	if err != nil {
		log.Info("token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("invalid token")
		return
	}

	user, err := c.Manager.auth.EnsureUser(ctx, tokenInfo)
	if err != nil {
		log.Info("failed to resolve user", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("user not found")
		return
	}

	if !user.IsAdmin {
		log.Info("non-admin rejected from feed", "clientID", c.ID, "userID", user.ID)
		c.sendAuthFailure("admin access required")
		return
	}

	c.UserID = user.ID
	c.Status = STATUS_AUTHENTICATED

	log.Info("admin connected to feed", "clientID", c.ID, "userID", user.ID)

	c.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_SUCCESS,
		Timestamp: time.Now(),
	}
}

func (c *Client) sendAuthRequest() error {
	return c.Connection.WriteJSON(Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_REQUEST,
		Timestamp: time.Now(),
	})
}

func (c *Client) sendAuthFailure(reason string) {
	select {
	case c.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	}:
	default:
	}
}
