package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"helpyhands-market-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBroadcaster implements the broadcaster interface using Redis pub/sub.
// Each principal has one channel; session, offer, and listing events for
// that principal are published there.
type RedisBroadcaster struct {
	client             *redis.Client
	subscribers        map[string]chan outbound.Event // clientID -> local channel
	pubsubs            map[string]*redis.PubSub       // clientID -> pubsub instance
	clientsToPrincipal map[string]map[string]bool     // clientID -> principalID -> subscribed
	mu                 sync.RWMutex
	ctx                context.Context
	cancel             context.CancelFunc
	logger             zerolog.Logger
}

type RedisBroadcasterParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

func NewBroadcaster(params RedisBroadcasterParams) *RedisBroadcaster {
	ctx, cancel := context.WithCancel(context.Background())

	broadcaster := &RedisBroadcaster{
		client:             params.RedisClient,
		subscribers:        make(map[string]chan outbound.Event),
		pubsubs:            make(map[string]*redis.PubSub),
		clientsToPrincipal: make(map[string]map[string]bool),
		ctx:                ctx,
		cancel:             cancel,
		logger:             params.Logger.With().Str("component", "redis_broadcaster").Logger(),
	}

	return broadcaster
}

func channelName(principalID uuid.UUID) string {
	return fmt.Sprintf("principal:%s", principalID.String())
}

// Subscribe subscribes a client to events for a specific principal
func (r *RedisBroadcaster) Subscribe(ctx context.Context, principalID uuid.UUID, clientID string, eventChan chan outbound.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if client is already subscribed to this principal
	if r.clientsToPrincipal[clientID] != nil && r.clientsToPrincipal[clientID][principalID.String()] {
		r.logger.Info().
			Str("client_id", clientID).
			Str("principal_id", principalID.String()).
			Msg("Client already subscribed to principal")
		return nil
	}

	// Store the event channel if this is the first subscription
	if r.subscribers[clientID] == nil {
		r.subscribers[clientID] = eventChan
	}

	if r.clientsToPrincipal[clientID] == nil {
		r.clientsToPrincipal[clientID] = make(map[string]bool)
	}
	r.clientsToPrincipal[clientID][principalID.String()] = true

	// Get or create pubsub connection for this client
	var pubsub *redis.PubSub
	if existingPubsub, exists := r.pubsubs[clientID]; exists {
		// Client already has a pubsub connection, subscribe to additional channel
		pubsub = existingPubsub
	} else {
		// Create new pubsub connection for this client
		pubsub = r.client.Subscribe(ctx)
		r.pubsubs[clientID] = pubsub

		// Start goroutine to listen for Redis messages and forward to local channel
		go r.listenForRedisMessages(pubsub, clientID, eventChan)
	}

	// Subscribe to the specific principal channel
	if err := pubsub.Subscribe(ctx, channelName(principalID)); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Str("principal_id", principalID.String()).Msg("Failed to subscribe to Redis channel")
		return err
	}

	r.logger.Info().
		Str("client_id", clientID).
		Str("principal_id", principalID.String()).
		Msg("Client subscribed to principal via Redis")
	return nil
}

// Unsubscribe unsubscribes a client from events for a specific principal
func (r *RedisBroadcaster) Unsubscribe(ctx context.Context, principalID uuid.UUID, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Remove principal tracking
	if clientPrincipals, exists := r.clientsToPrincipal[clientID]; exists {
		delete(clientPrincipals, principalID.String())

		// If no more principals, clean up the client entry
		if len(clientPrincipals) == 0 {
			delete(r.clientsToPrincipal, clientID)

			// Close and remove local channel
			if eventChan, exists := r.subscribers[clientID]; exists {
				close(eventChan)
				delete(r.subscribers, clientID)
			}

			// Close Redis pubsub connection
			if pubsub, exists := r.pubsubs[clientID]; exists {
				if err := pubsub.Close(); err != nil {
					r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
				}
				delete(r.pubsubs, clientID)
			}
		} else {
			// Unsubscribe from the specific principal channel
			if pubsub, exists := r.pubsubs[clientID]; exists {
				if err := pubsub.Unsubscribe(ctx, channelName(principalID)); err != nil {
					r.logger.Error().Err(err).Str("client_id", clientID).Str("principal_id", principalID.String()).Msg("Error unsubscribing from Redis channel")
				}
			}
		}
	}

	r.logger.Info().
		Str("client_id", clientID).
		Str("principal_id", principalID.String()).
		Msg("Client unsubscribed from principal")
	return nil
}

// Publish publishes an event to all subscribers of a principal via Redis
func (r *RedisBroadcaster) Publish(ctx context.Context, principalID uuid.UUID, event outbound.Event) error {
	channel := channelName(principalID)
	r.logger.Debug().Str("channel_name", channel).Msg("Publishing event to Redis")

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Publish to Redis
	result := r.client.Publish(ctx, channel, eventJSON)
	if err := result.Err(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to publish to Redis")
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}

	r.logger.Info().
		Str("event_type", string(event.Type)).
		Str("principal_id", principalID.String()).
		Int64("subscriber_count", result.Val()).
		Msg("Published event to principal")

	return nil
}

func (r *RedisBroadcaster) GetSubscribers(ctx context.Context, principalID uuid.UUID) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var subscribers []string
	for clientID, principals := range r.clientsToPrincipal {
		if principals[principalID.String()] {
			subscribers = append(subscribers, clientID)
		}
	}

	return subscribers, nil
}

func (r *RedisBroadcaster) GetEventChannel(clientID string) <-chan outbound.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if eventChan, exists := r.subscribers[clientID]; exists {
		return eventChan
	}

	return nil
}

// listenForRedisMessages listens for Redis messages and forwards them to the local channel
func (r *RedisBroadcaster) listenForRedisMessages(pubsub *redis.PubSub, clientID string, localChan chan outbound.Event) {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error().Interface("panic", err).Str("client_id", clientID).Msg("Redis message listener panic for client")
		}
	}()

	ch := pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				r.logger.Info().Str("client_id", clientID).Msg("Redis channel closed for client")
				return
			}

			var event outbound.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Error().Err(err).Str("client_id", clientID).Msg("Failed to unmarshal Redis message for client")
				continue
			}

			select {
			case localChan <- event:
			default:
				r.logger.Warn().Str("client_id", clientID).Msg("Local channel full for client, dropping event")
			}

		case <-r.ctx.Done():
			r.logger.Info().Str("client_id", clientID).Msg("Redis broadcaster context cancelled for client")
			return
		}
	}
}

func (r *RedisBroadcaster) Close() error {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	for clientID, eventChan := range r.subscribers {
		close(eventChan)
		delete(r.subscribers, clientID)
	}

	// Close all pubsub connections
	for clientID, pubsub := range r.pubsubs {
		if err := pubsub.Close(); err != nil {
			r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
		}
		delete(r.pubsubs, clientID)
	}

	return r.client.Close()
}

func (r *RedisBroadcaster) IsSubscribed(ctx context.Context, principalID uuid.UUID, clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if principals, exists := r.clientsToPrincipal[clientID]; exists {
		return principals[principalID.String()]
	}

	return false
}
