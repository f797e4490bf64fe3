package engine

// ActionType identifies player actions sent to Game.Apply.
type ActionType string

const (
	ActionKeepDestinations ActionType = "keep_destinations"
	ActionDrawMystery      ActionType = "draw_mystery"
	ActionDrawVisible      ActionType = "draw_visible"
	ActionBuildRoute       ActionType = "build_route"
	ActionDrawDestinations ActionType = "draw_destinations"
)

// Action is a player's action input.
type Action struct {
	Type ActionType `json:"type"`
	// Params depend on Type:
	// keep_destinations: CardIDs
	// draw_visible: Slot
	// build_route: CityA, CityB, Color (blank uses the route's own color)
	CardIDs []string `json:"card_ids,omitempty"`
	Slot    int      `json:"slot,omitempty"`
	CityA   string   `json:"city_a,omitempty"`
	CityB   string   `json:"city_b,omitempty"`
	Color   string   `json:"color,omitempty"`
}

// EventType identifies events emitted by the engine.
type EventType string

const (
	EventGameStart         EventType = "game_start"
	EventDestinationsOffer EventType = "destinations_offer"
	EventDestinationsKept  EventType = "destinations_kept"
	EventCardDrawn         EventType = "card_drawn"
	EventTunnelReveal      EventType = "tunnel_reveal"
	EventRouteBuilt        EventType = "route_built"
	EventBuildFailed       EventType = "build_failed"
	EventTurnEnd           EventType = "turn_end"
	EventFinalRound        EventType = "final_round"
	EventDestinationScored EventType = "destination_scored"
	EventGameOver          EventType = "game_over"
	EventPhaseChange       EventType = "phase_change"
)

// Event is emitted by the engine after state changes.
type Event struct {
	Type   EventType `json:"type"`
	Player string    `json:"player,omitempty"`
	Data   any       `json:"data,omitempty"`
}
