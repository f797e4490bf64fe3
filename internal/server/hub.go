package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"tickettoride/internal/engine"
	"tickettoride/internal/lobby"
	"tickettoride/internal/protocol"
)

// Hub fans game updates out to every connected TV client. It keeps the
// latest lobby and game state so late joiners start in sync.
type Hub struct {
	mu         sync.Mutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger

	seq       uint64
	lastLobby []byte
	lastState []byte
	view      *engine.PublicViewData
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		logger:     logger.Named("hub"),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			for _, data := range [][]byte{h.lastLobby, h.lastState} {
				if data != nil {
					client.sendRaw(data)
				}
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client connected", zap.String("remote", client.remote), zap.Int("clients", n))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and disconnects every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// PublishLobby broadcasts the current registrations.
func (h *Hub) PublishLobby(players []lobby.PlayerInfo, started bool) {
	lps := make([]protocol.LobbyPlayer, len(players))
	for i, p := range players {
		lps[i] = protocol.LobbyPlayer{ID: p.ID, Name: p.Name}
	}
	env := protocol.MustEnvelope(protocol.MsgLobbyUpdate, protocol.LobbyUpdate{
		Players: lps,
		Started: started,
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastLobby = h.broadcastLocked(env)
}

// Publish broadcasts the events of one action followed by the resulting
// state. A game_over event also sends the final scores.
func (h *Hub) Publish(view engine.PublicViewData, events []engine.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	over := false
	for _, ev := range events {
		h.broadcastLocked(protocol.MustEnvelope(protocol.MsgEvent, ev))
		if ev.Type == engine.EventGameOver {
			over = true
		}
	}
	h.view = &view
	h.lastState = h.broadcastLocked(protocol.MustEnvelope(protocol.MsgGameState, view))
	if over {
		h.broadcastLocked(protocol.MustEnvelope(protocol.MsgGameOver, view.Scores))
	}
}

// View returns the last published state, if any.
func (h *Hub) View() (engine.PublicViewData, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.view == nil {
		return engine.PublicViewData{}, false
	}
	return *h.view, true
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcastLocked(env protocol.Envelope) []byte {
	h.seq++
	env.Seq = h.seq
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("broadcast marshal", zap.String("type", env.Type), zap.Error(err))
		return nil
	}
	for client := range h.clients {
		client.sendRaw(data)
	}
	return data
}
