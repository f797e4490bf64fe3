package engine

// GameConfig holds configuration for creating a new game.
type GameConfig struct {
	StartingTrains       int // trains per player (default 45)
	StartingHand         int // train cards dealt at setup (default 7)
	StartingDestinations int // destinations offered at setup (default 5)
	StartingKeep         int // destinations that must be kept at setup (default 3)
	DestinationDraw      int // destinations offered by a mid-game draw (default 3)
	DestinationKeep      int // destinations that must be kept from a mid-game draw (default 1)
	FinalRoundTrains     int // trains left that trigger the final round (default 2)
}

func DefaultConfig() GameConfig {
	return GameConfig{
		StartingTrains:       DefaultStartingTrains,
		StartingHand:         7,
		StartingDestinations: 5,
		StartingKeep:         3,
		DestinationDraw:      3,
		DestinationKeep:      1,
		FinalRoundTrains:     2,
	}
}
