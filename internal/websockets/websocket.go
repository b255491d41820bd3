package websockets

import (
	"time"

	"sudshine/config"
	authController "sudshine/internal/controllers/auth"
	"sudshine/internal/events"
	"sudshine/internal/logger"
	"sudshine/internal/services"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING          = "ping"
	MESSAGE_TYPE_PONG          = "pong"
	MESSAGE_TYPE_EVENT         = "event"
	MESSAGE_TYPE_AUTH_REQUEST  = "auth_request"
	MESSAGE_TYPE_AUTH_RESPONSE = "auth_response"
	MESSAGE_TYPE_AUTH_SUCCESS  = "auth_success"
	MESSAGE_TYPE_AUTH_FAILURE  = "auth_failure"

	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	AUTH_TIMEOUT      = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64
)

// Message is the frame exchanged with the admin live feed. Event frames
// carry the notification kind and its payload.
type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Kind      string         `json:"kind,omitempty"`
	Token     string         `json:"token,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
}

// Manager runs the admin live feed: authenticated admin connections receive
// every event published on the admin feed channel.
type Manager struct {
	hub         *Hub
	config      config.Config
	log         logger.Logger
	eventBus    *events.EventBus
	authService *services.AuthService
	auth        authController.AuthControllerInterface
}

func New(
	eventBus *events.EventBus,
	config config.Config,
	authService *services.AuthService,
	auth authController.AuthControllerInterface,
) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		config:      config,
		log:         log,
		eventBus:    eventBus,
		authService: authService,
		auth:        auth,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.subscribeToAdminFeed(); err != nil {
		return nil, log.Function("New").Err("failed to subscribe to admin feed", err)
	}

	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     uuid.Nil,
		Connection: c,
		Manager:    m,
		Status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	if err := client.sendAuthRequest(); err != nil {
		log.Er("failed to send auth request", err)
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	client.startAuthTimeout()

	go client.writePump()
	client.readPump()
}

// subscribeToAdminFeed forwards admin feed events to connected clients.
func (m *Manager) subscribeToAdminFeed() error {
	return m.eventBus.Subscribe(events.ADMIN_FEED_CHANNEL, func(event events.Event) error {
		message := Message{
			ID:        event.ID,
			Type:      MESSAGE_TYPE_EVENT,
			Kind:      event.Kind,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}

		m.hub.broadcast <- message
		return nil
	})
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")

	defer func() {
		c.Manager.hub.unregister <- c
		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	_ = c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Er("unexpected close", err)
			}
			return
		}

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	switch message.Type {
	case MESSAGE_TYPE_AUTH_RESPONSE:
		c.handleAuthResponse(message)
	case MESSAGE_TYPE_PING:
		c.send <- Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_PONG,
			Timestamp: time.Now(),
		}
	default:
		if c.Status != STATUS_AUTHENTICATED {
			c.sendAuthFailure("authentication required")
		}
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("failed to write message", err)
				return
			}

		case <-ticker.C:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
