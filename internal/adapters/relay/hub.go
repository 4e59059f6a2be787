package relay

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/YF-George/rosterd/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type presenceEntry struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

type room struct {
	name    domain.RoomName
	clients map[string]*Client
	// naive shared state, replaced or merged key-by-key by update
	// messages
	state map[string]any
}

func newRoom(name domain.RoomName) *room {
	return &room{
		name:    name,
		clients: make(map[string]*Client),
		state:   map[string]any{"groups": []any{}},
	}
}

// Hub holds every relay room. Relay state is in-memory only and
// independent of the persisted admission state.
type Hub struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]*room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[domain.RoomName]*room)}
}

func (h *Hub) getOrCreate(name domain.RoomName) *room {
	h.mu.RLock()
	r, ok := h.rooms[name]
	h.mu.RUnlock()
	if ok {
		return r
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok = h.rooms[name]; ok {
		return r
	}
	r = newRoom(name)
	h.rooms[name] = r
	return r
}

// RoomCount reports how many relay rooms currently exist.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Handle upgrades ?room=&userId= to a websocket, sends the initial
// state plus presence, and relays updates to everyone else in the
// room.
func (h *Hub) Handle(c *gin.Context) {
	roomName := domain.NormalizeRoom(c.Query("room"))
	userID := c.Query("userId")
	if userID == "" {
		userID = "u-" + uuid.NewString()[:8]
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("ws upgrade")
		return
	}

	client := newClient(uuid.NewString(), userID, ws)
	r := h.getOrCreate(roomName)

	h.mu.Lock()
	r.clients[client.ID] = client
	init := map[string]any{"type": "init", "state": r.state, "presence": h.presenceLocked(r)}
	h.mu.Unlock()

	log.Info().Str("module", "relay").Str("room", string(roomName)).Str("user", userID).Msg("client joined")

	go client.writePump(c.Request.Context())

	h.sendJSON(client, init)
	h.broadcastPresence(r, client.ID)

	h.readPump(r, client)
}

func (h *Hub) readPump(r *room, client *Client) {
	defer func() {
		client.Close()
		h.mu.Lock()
		delete(r.clients, client.ID)
		h.mu.Unlock()
		h.broadcastPresence(r, "")
		log.Info().Str("module", "relay").Str("room", string(r.name)).Str("user", client.UserID).Msg("client left")
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		h.handleMessage(r, client, data)
	}
}

type relayMessage struct {
	Type    string `json:"type"`
	Payload struct {
		Path  []string        `json:"path"`
		Value json.RawMessage `json:"value"`
		State map[string]any  `json:"state"`
	} `json:"payload"`
}

func (h *Hub) handleMessage(r *room, sender *Client, data []byte) {
	var msg relayMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("bad json")
		return
	}

	switch msg.Type {
	case "update":
		h.mu.Lock()
		if len(msg.Payload.Path) > 0 && msg.Payload.Value != nil {
			// top-level key set only
			var v any
			if err := json.Unmarshal(msg.Payload.Value, &v); err == nil {
				r.state[msg.Payload.Path[0]] = v
			}
		} else if msg.Payload.State != nil {
			r.state = msg.Payload.State
		}
		update := map[string]any{"type": "update", "state": r.state}
		h.mu.Unlock()
		h.broadcast(r, update, sender.ID)

	case "presence":
		h.broadcastPresence(r, "")

	default:
		log.Warn().Str("module", "relay").Str("type", msg.Type).Msg("unknown message")
	}
}

// presenceLocked snapshots the room roster; callers hold h.mu.
func (h *Hub) presenceLocked(r *room) []presenceEntry {
	out := make([]presenceEntry, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, presenceEntry{ID: c.ID, UserID: c.UserID})
	}
	return out
}

func (h *Hub) broadcastPresence(r *room, exceptID string) {
	h.mu.RLock()
	msg := map[string]any{"type": "presence", "presence": h.presenceLocked(r)}
	h.mu.RUnlock()
	h.broadcast(r, msg, exceptID)
}

func (h *Hub) broadcast(r *room, v any, exceptID string) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("broadcast marshal")
		return
	}
	h.mu.RLock()
	targets := make([]*Client, 0, len(r.clients))
	for id, c := range r.clients {
		if id != exceptID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range targets {
		_ = c.TrySend(data)
	}
}

func (h *Hub) sendJSON(c *Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(data)
}
