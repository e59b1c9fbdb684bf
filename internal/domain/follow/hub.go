package follow

import (
	"context"
	"encoding/json"
	"expvar"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages
type EventType string

const (
	EventNewFollower  EventType = "new_follower"
	EventPendingCount EventType = "pending_count"
)

// Redis channel carrying per-user follow events across instances
const userEventsChannel = "follow:user_events"

var (
	wsConnectionsGauge   = expvar.NewInt("follow_ws_connections")
	wsEventsSentTotal    = expvar.NewInt("follow_ws_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("follow_ws_events_dropped_total")
)

// WSEvent is the payload written to client sockets
type WSEvent struct {
	Type         EventType `json:"type"`
	Follower     *UserCard `json:"follower,omitempty"`
	PendingCount int       `json:"pending_count,omitempty"`
}

type userEventMessage struct {
	UserID           string          `json:"user_id"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection represents one client WebSocket
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// PresenceTracker records whether a user currently has a live connection.
// The profile repository satisfies it.
type PresenceTracker interface {
	SetOnline(ctx context.Context, userID uuid.UUID, online bool) error
}

// Hub fans follow events out to connected clients. Redis Pub/Sub bridges
// instances so an event reaches a user connected to any server; without
// Redis the hub degrades to local-only delivery.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool
	mu          sync.RWMutex

	redis    *redis.Client
	pubsub   *redis.PubSub
	presence PresenceTracker

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
}

// NewHub creates a WebSocket hub. presence may be nil.
func NewHub(redisClient *redis.Client, presence PresenceTracker) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		presence:    presence,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  uuid.NewString(),
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, userEventsChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			first := len(h.connections[conn.UserID]) == 1
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)
			if first {
				h.setPresence(conn.UserID, true)
			}
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User connected to follow stream")

		case conn := <-h.unregister:
			last := false
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
					last = true
				}
			}
			h.mu.Unlock()
			if last {
				h.setPresence(conn.UserID, false)
			}
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User disconnected from follow stream")
		}
	}
}

// setPresence runs in the hub loop after the connection map mutation, so
// the offline write cannot observe a connection that is mid-teardown.
func (h *Hub) setPresence(userID uuid.UUID, online bool) {
	if h.presence == nil {
		return
	}
	if err := h.presence.SetOnline(h.ctx, userID, online); err != nil {
		log.Debug().Err(err).Str("user_id", userID.String()).Msg("Presence update failed")
	}
}

// Stop shuts the hub down
func (h *Hub) Stop() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// NotifyNewFollower implements RealtimePublisher
func (h *Hub) NotifyNewFollower(ctx context.Context, userID uuid.UUID, follower *UserCard) error {
	return h.sendToUser(ctx, userID, &WSEvent{Type: EventNewFollower, Follower: follower})
}

// NotifyPendingCount implements RealtimePublisher
func (h *Hub) NotifyPendingCount(ctx context.Context, userID uuid.UUID, count int) error {
	return h.sendToUser(ctx, userID, &WSEvent{Type: EventPendingCount, PendingCount: count})
}

// sendToUser delivers locally and publishes for other instances
func (h *Hub) sendToUser(ctx context.Context, userID uuid.UUID, event *WSEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.sendLocal(userID, data)

	if h.redis == nil {
		return nil
	}

	msg := userEventMessage{
		UserID:           userID.String(),
		Payload:          data,
		SenderInstanceID: h.instanceID,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.redis.Publish(ctx, userEventsChannel, payload).Err()
}

func (h *Hub) sendLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	conns, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return
	}

	for conn := range conns {
		select {
		case conn.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			// Buffer full, drop the event
			wsEventsDroppedTotal.Add(1)
			log.Warn().Str("user_id", userID.String()).Msg("Follow stream send buffer full")
		}
	}
}

// runRedisSubscriber delivers events published by other instances
func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event userEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if event.SenderInstanceID == h.instanceID {
				continue
			}
			userID, err := uuid.Parse(event.UserID)
			if err != nil {
				continue
			}
			h.sendLocal(userID, []byte(event.Payload))
		}
	}
}
