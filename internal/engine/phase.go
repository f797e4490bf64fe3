package engine

// GamePhase represents the current phase of the game state machine.
type GamePhase int

const (
	PhaseLobby        GamePhase = iota // waiting for StartGame
	PhaseSetup                         // everyone choosing starting destinations
	PhasePlayerTurn                    // active player picks an action
	PhaseDrawing                       // active player owes a second train card draw
	PhaseDestinations                  // active player choosing drawn destinations
	PhaseGameOver                      // game finished
)

var phaseNames = map[GamePhase]string{
	PhaseLobby:        "Lobby",
	PhaseSetup:        "Setup",
	PhasePlayerTurn:   "PlayerTurn",
	PhaseDrawing:      "Drawing",
	PhaseDestinations: "Destinations",
	PhaseGameOver:     "GameOver",
}

func (p GamePhase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}
