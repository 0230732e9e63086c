package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gigflow-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisNotifier implements the notifier interface using Redis pub/sub with one
// channel per user. A session subscribes to the channels of the users it wants
// events for (in practice: its own user) and receives everything on one local
// event channel. Publishing to a channel nobody listens on silently drops the
// event, which is exactly the contract: no queueing, no replay.
type RedisNotifier struct {
	client          *redis.Client
	subscribers     map[string]chan outbound.Event // sessionID -> local channel
	pubsubs         map[string]*redis.PubSub       // sessionID -> pubsub instance
	sessionsToUsers map[string]map[string]bool     // sessionID -> userID -> subscribed
	mu              sync.RWMutex
	ctx             context.Context
	cancel          context.CancelFunc
	logger          zerolog.Logger
}

type RedisNotifierParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

func NewNotifier(params RedisNotifierParams) *RedisNotifier {
	ctx, cancel := context.WithCancel(context.Background())

	return &RedisNotifier{
		client:          params.RedisClient,
		subscribers:     make(map[string]chan outbound.Event),
		pubsubs:         make(map[string]*redis.PubSub),
		sessionsToUsers: make(map[string]map[string]bool),
		ctx:             ctx,
		cancel:          cancel,
		logger:          params.Logger.With().Str("component", "redis_notifier").Logger(),
	}
}

func channelName(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID.String())
}

// Subscribe attaches a session to a user's channel
func (r *RedisNotifier) Subscribe(ctx context.Context, userID uuid.UUID, sessionID string, eventChan chan outbound.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessionsToUsers[sessionID] != nil && r.sessionsToUsers[sessionID][userID.String()] {
		r.logger.Info().
			Str("session_id", sessionID).
			Str("user_id", userID.String()).
			Msg("Session already subscribed to user channel")
		return nil
	}

	if r.subscribers[sessionID] == nil {
		r.subscribers[sessionID] = eventChan
	}

	if r.sessionsToUsers[sessionID] == nil {
		r.sessionsToUsers[sessionID] = make(map[string]bool)
	}
	r.sessionsToUsers[sessionID][userID.String()] = true

	var pubsub *redis.PubSub
	if existingPubsub, exists := r.pubsubs[sessionID]; exists {
		pubsub = existingPubsub
	} else {
		pubsub = r.client.Subscribe(ctx)
		r.pubsubs[sessionID] = pubsub

		go r.listenForRedisMessages(pubsub, sessionID, eventChan)
	}

	if err := pubsub.Subscribe(ctx, channelName(userID)); err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Str("user_id", userID.String()).Msg("Failed to subscribe to Redis channel")
		return err
	}

	r.logger.Info().
		Str("session_id", sessionID).
		Str("user_id", userID.String()).
		Msg("Session subscribed to user channel via Redis")
	return nil
}

// Unsubscribe detaches a session from a user's channel
func (r *RedisNotifier) Unsubscribe(ctx context.Context, userID uuid.UUID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sessionUsers, exists := r.sessionsToUsers[sessionID]; exists {
		delete(sessionUsers, userID.String())

		if len(sessionUsers) == 0 {
			delete(r.sessionsToUsers, sessionID)

			if eventChan, exists := r.subscribers[sessionID]; exists {
				close(eventChan)
				delete(r.subscribers, sessionID)
			}

			if pubsub, exists := r.pubsubs[sessionID]; exists {
				if err := pubsub.Close(); err != nil {
					r.logger.Error().Err(err).Str("session_id", sessionID).Msg("Error closing Redis pubsub for session")
				}
				delete(r.pubsubs, sessionID)
			}
		} else {
			if pubsub, exists := r.pubsubs[sessionID]; exists {
				if err := pubsub.Unsubscribe(ctx, channelName(userID)); err != nil {
					r.logger.Error().Err(err).Str("session_id", sessionID).Str("user_id", userID.String()).Msg("Error unsubscribing from Redis channel")
				}
			}
		}
	}

	r.logger.Info().
		Str("session_id", sessionID).
		Str("user_id", userID.String()).
		Msg("Session unsubscribed from user channel")
	return nil
}

// Publish publishes an event to every session on a user's channel
func (r *RedisNotifier) Publish(ctx context.Context, userID uuid.UUID, event outbound.Event) error {
	channel := channelName(userID)

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result := r.client.Publish(ctx, channel, eventJSON)
	if err := result.Err(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to publish to Redis")
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}

	r.logger.Info().
		Str("event_type", string(event.Type)).
		Str("user_id", userID.String()).
		Int64("listener_count", result.Val()).
		Msg("Published event to user channel")

	return nil
}

// IsSubscribed checks whether a session is attached to a user's channel
func (r *RedisNotifier) IsSubscribed(ctx context.Context, userID uuid.UUID, sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionUsers, exists := r.sessionsToUsers[sessionID]
	if !exists {
		return false
	}

	return sessionUsers[userID.String()]
}

// listenForRedisMessages forwards Redis messages to the session's local channel
func (r *RedisNotifier) listenForRedisMessages(pubsub *redis.PubSub, sessionID string, localChan chan outbound.Event) {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error().Interface("panic", err).Str("session_id", sessionID).Msg("Redis message listener panic for session")
		}
	}()

	ch := pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				r.logger.Info().Str("session_id", sessionID).Msg("Redis channel closed for session")
				return
			}

			var event outbound.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to unmarshal Redis message for session")
				continue
			}

			select {
			case localChan <- event:
			default:
				r.logger.Warn().Str("session_id", sessionID).Msg("Local channel full for session, dropping event")
			}

		case <-r.ctx.Done():
			r.logger.Info().Str("session_id", sessionID).Msg("Redis notifier context cancelled for session")
			return
		}
	}
}

func (r *RedisNotifier) Close() error {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	for sessionID, eventChan := range r.subscribers {
		close(eventChan)
		delete(r.subscribers, sessionID)
	}

	for sessionID, pubsub := range r.pubsubs {
		if err := pubsub.Close(); err != nil {
			r.logger.Error().Err(err).Str("session_id", sessionID).Msg("Error closing Redis pubsub for session")
		}
		delete(r.pubsubs, sessionID)
	}

	return r.client.Close()
}
