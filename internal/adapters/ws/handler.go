package ws

import (
	"context"
	"net/http"
	"sync"

	"gigflow-marketplace-service/internal/config"
	"gigflow-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WsHandler manages WebSocket notification sessions. Every connected session
// is attached to the channel of the user it authenticated as, mirroring the
// per-user room model: a user may hold several sessions (tabs, devices) and
// each receives the same events.
type WsHandler struct {
	clients       map[string]*WsClient // sessionID -> client
	clientsMu     sync.RWMutex
	eventChannels map[string]chan outbound.Event // sessionID -> local event channel
	channelsMu    sync.RWMutex
	upgrader      websocket.Upgrader
	notifier      outbound.Notifier
	logger        zerolog.Logger
}

type WsHandlerParams struct {
	Config   *config.Config
	Notifier outbound.Notifier
	Logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	if params.Config != nil {
		upgrader.ReadBufferSize = params.Config.WebSocket.ReadBufferSize
		upgrader.WriteBufferSize = params.Config.WebSocket.WriteBufferSize
	}

	return &WsHandler{
		clients:       make(map[string]*WsClient),
		eventChannels: make(map[string]chan outbound.Event),
		upgrader:      upgrader,
		notifier:      params.Notifier,
		logger:        params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleWebSocket handles WebSocket connection upgrades. The caller's identity
// arrives as a user_id query parameter (resolved upstream, like the HTTP API's
// identity header); the session is immediately subscribed to that user's
// notification channel.
func (handler *WsHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get("user_id")
	if userIDStr == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		http.Error(w, "invalid user_id format", http.StatusBadRequest)
		return
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		UserID: userID,
		Conn:   conn,
		Logger: handler.logger,
	})

	handler.registerClient(client)

	eventChan := handler.createEventChannel(client.id)

	if err := handler.notifier.Subscribe(r.Context(), userID, client.id, eventChan); err != nil {
		handler.logger.Error().Err(err).Str("session_id", client.id).Str("user_id", userID.String()).Msg("Failed to subscribe session to user channel")
		handler.unregisterClient(client)
		return
	}

	client.Start()

	go handler.listenForClientEvents(client)

	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	welcome := NewServerMessage(MessageTypeConnected)
	welcome.Data["user_id"] = userID.String()
	if err := client.Send(welcome); err != nil {
		handler.logger.Warn().Err(err).Str("session_id", client.id).Msg("Failed to send welcome message")
	}

	handler.logger.Info().Str("session_id", client.id).Str("user_id", userID.String()).Msg("WebSocket session connected")
}

// createEventChannel creates a local event channel for a session
func (handler *WsHandler) createEventChannel(sessionID string) chan outbound.Event {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	if eventChan, exists := handler.eventChannels[sessionID]; exists {
		return eventChan
	}

	eventChan := make(chan outbound.Event, 100)
	handler.eventChannels[sessionID] = eventChan

	return eventChan
}

func (handler *WsHandler) getEventChannel(sessionID string) chan outbound.Event {
	handler.channelsMu.RLock()
	defer handler.channelsMu.RUnlock()

	return handler.eventChannels[sessionID]
}

func (handler *WsHandler) removeEventChannel(sessionID string) {
	handler.channelsMu.Lock()
	defer handler.channelsMu.Unlock()

	delete(handler.eventChannels, sessionID)
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	delete(handler.clients, client.id)
	total := len(handler.clients)
	handler.clientsMu.Unlock()

	// Detaching from the user channel closes the session's event channel and
	// its pubsub connection.
	if err := handler.notifier.Unsubscribe(context.Background(), client.userID, client.id); err != nil {
		handler.logger.Error().Err(err).Str("session_id", client.id).Msg("Failed to unsubscribe session")
	}

	client.Stop()
	handler.removeEventChannel(client.id)

	handler.logger.Info().
		Str("session_id", client.id).
		Str("user_id", client.userID.String()).
		Int("total_sessions", total).
		Msg("WebSocket session disconnected")
}

// listenForClientEvents forwards published events to the WebSocket session
func (handler *WsHandler) listenForClientEvents(client *WsClient) {
	eventChan := handler.getEventChannel(client.id)
	if eventChan == nil {
		handler.logger.Error().Str("session_id", client.id).Msg("No event channel found for session")
		return
	}

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			wsMessage := handler.convertEventToMessage(event)

			if err := client.Send(wsMessage); err != nil {
				handler.logger.Error().
					Err(err).Str("session_id", client.id).Msg("Failed to send event to WebSocket session")
			} else {
				handler.logger.Info().
					Str("session_id", client.id).
					Str("event_type", string(event.Type)).
					Msg("Delivered event to WebSocket session")
			}

		case <-client.ctx.Done():
			return
		}
	}
}

func (handler *WsHandler) convertEventToMessage(event outbound.Event) *ServerMessage {
	switch event.Type {
	case outbound.EventTypeHired:
		return &ServerMessage{
			Type:      MessageTypeHired,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}
	default:
		return &ServerMessage{
			Type:      MessageTypeError,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}
	}
}

// GetConnectedClients returns the number of connected sessions
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}
