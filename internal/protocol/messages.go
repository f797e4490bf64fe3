package protocol

// Message types: Server → Client. The TV feed is read-only; clients send nothing.
const (
	MsgLobbyUpdate = "lobby_update"
	MsgGameState   = "game_state"
	MsgEvent       = "event"
	MsgGameOver    = "game_over"
	MsgError       = "error"
)

// LobbyUpdate is sent to all clients when lobby state changes.
type LobbyUpdate struct {
	Players []LobbyPlayer `json:"players"`
	Started bool          `json:"started"`
}

type LobbyPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ErrorMsg is sent to a client on error.
type ErrorMsg struct {
	Message string `json:"message"`
}
