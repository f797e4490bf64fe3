package lobby

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrStarted   = errors.New("game already started")
	ErrFull      = errors.New("lobby is full")
	ErrEmptyName = errors.New("name must not be empty")
	ErrNameTaken = errors.New("name already taken")
	ErrNotEnough = errors.New("not enough players")
)

// PlayerInfo holds lobby-level player information.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Lobby collects player registrations before a game starts.
type Lobby struct {
	mu         sync.Mutex
	Players    []*PlayerInfo
	MaxPlayers int
	MinPlayers int
	Started    bool
}

// NewLobby creates a lobby accepting between minPlayers and maxPlayers players.
func NewLobby(minPlayers, maxPlayers int) *Lobby {
	return &Lobby{
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
	}
}

// Join registers a player under a fresh ID. Names are unique ignoring case.
func (l *Lobby) Join(name string) (PlayerInfo, error) {
	name = strings.TrimSpace(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Started {
		return PlayerInfo{}, ErrStarted
	}
	if name == "" {
		return PlayerInfo{}, ErrEmptyName
	}
	if len(l.Players) >= l.MaxPlayers {
		return PlayerInfo{}, ErrFull
	}
	for _, p := range l.Players {
		if strings.EqualFold(p.Name, name) {
			return PlayerInfo{}, fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
	}
	p := &PlayerInfo{ID: uuid.NewString(), Name: name}
	l.Players = append(l.Players, p)
	return *p, nil
}

// Leave removes a player from the lobby.
func (l *Lobby) Leave(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, p := range l.Players {
		if p.ID == id {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return
		}
	}
}

// CanStart returns true once enough players have joined.
func (l *Lobby) CanStart() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.Started && len(l.Players) >= l.MinPlayers
}

// Start marks the lobby as started.
func (l *Lobby) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Started {
		return ErrStarted
	}
	if len(l.Players) < l.MinPlayers {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnough, len(l.Players), l.MinPlayers)
	}
	l.Started = true
	return nil
}

// GetPlayers returns a copy of the player list.
func (l *Lobby) GetPlayers() []PlayerInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]PlayerInfo, len(l.Players))
	for i, p := range l.Players {
		out[i] = *p
	}
	return out
}
