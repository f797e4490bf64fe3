package engine

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// tunnelReveal is how many cards are turned over when building a tunnel.
const tunnelReveal = 3

// Game holds the entire game state.
type Game struct {
	ID           string                 `json:"id"`
	Players      []*Player              `json:"players"`
	Config       GameConfig             `json:"-"`
	Routes       *RouteMap              `json:"-"`
	Trains       *TrainCardSupply       `json:"-"`
	Destinations *DestinationCardSupply `json:"-"`

	Phase   GamePhase `json:"phase"`
	Round   int       `json:"round"`
	Current int       `json:"current"` // index into Players

	// End-game tracking
	FinalRound     bool   `json:"final_round"`
	FinalTrigger   string `json:"final_trigger,omitempty"`
	finalTurnsLeft int

	// Destinations drawn but not yet chosen, by player ID.
	offers map[string][]*DestinationCard

	Scores []ScoreEntry `json:"scores,omitempty"`

	logger *zap.Logger
}

// NewGame creates a new game. Players must share the given map and train
// card supply.
func NewGame(players []*Player, config GameConfig, routes *RouteMap, trains *TrainCardSupply, dests *DestinationCardSupply, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Game{
		ID:           id,
		Players:      players,
		Config:       config,
		Routes:       routes,
		Trains:       trains,
		Destinations: dests,
		Phase:        PhaseLobby,
		offers:       make(map[string][]*DestinationCard),
		logger:       logger.With(zap.String("game", id)),
	}
}

// StartGame shuffles both supplies, deals starting hands and offers each
// player their starting destinations.
func (g *Game) StartGame() ([]Event, error) {
	if g.Phase != PhaseLobby {
		return nil, ErrWrongPhase
	}
	if len(g.Players) == 0 {
		return nil, fmt.Errorf("%w: no players", ErrValidation)
	}

	g.Trains.Shuffle()
	g.Destinations.Shuffle()

	events := []Event{{Type: EventGameStart, Data: map[string]any{
		"game_id": g.ID, "players": len(g.Players),
	}}}
	for _, p := range g.Players {
		for range g.Config.StartingHand {
			if _, err := p.DrawMystery(); err != nil {
				return nil, fmt.Errorf("deal to %s: %w", p.Name, err)
			}
		}
		n := min(g.Config.StartingDestinations, g.Destinations.DrawSize())
		if n == 0 {
			continue
		}
		offer, err := p.DrawDestinations(g.Destinations, n)
		if err != nil {
			return nil, fmt.Errorf("deal destinations to %s: %w", p.Name, err)
		}
		g.offers[p.ID] = offer
		events = append(events, Event{Type: EventDestinationsOffer, Player: p.ID, Data: map[string]any{
			"count": len(offer), "keep": min(g.Config.StartingKeep, len(offer)),
		}})
	}
	g.Trains.FillVisible()

	g.Round = 1
	g.Phase = PhaseSetup
	if len(g.offers) == 0 {
		g.Phase = PhasePlayerTurn
	}
	events = append(events, g.phaseEvent())
	g.logger.Info("game started", zap.Int("players", len(g.Players)))
	return events, nil
}

// Apply is the single entry point for player actions.
func (g *Game) Apply(playerID string, action Action) ([]Event, error) {
	p := g.GetPlayer(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}

	var (
		events []Event
		err    error
	)
	switch action.Type {
	case ActionKeepDestinations:
		events, err = g.applyKeepDestinations(p, action)
	case ActionDrawMystery:
		events, err = g.applyDrawMystery(p)
	case ActionDrawVisible:
		events, err = g.applyDrawVisible(p, action)
	case ActionBuildRoute:
		events, err = g.applyBuildRoute(p, action)
	case ActionDrawDestinations:
		events, err = g.applyDrawDestinations(p)
	default:
		return nil, ErrInvalidAction
	}
	if err != nil {
		return nil, err
	}
	g.logger.Debug("action applied",
		zap.String("player", playerID),
		zap.String("action", string(action.Type)),
		zap.Int("events", len(events)))
	return events, nil
}

func (g *Game) requireTurn(p *Player, phases ...GamePhase) error {
	ok := false
	for _, ph := range phases {
		if g.Phase == ph {
			ok = true
			break
		}
	}
	if !ok {
		return ErrWrongPhase
	}
	if g.CurrentPlayer() != p {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) applyKeepDestinations(p *Player, action Action) ([]Event, error) {
	minKeep := g.Config.DestinationKeep
	switch g.Phase {
	case PhaseSetup:
		minKeep = g.Config.StartingKeep
	case PhaseDestinations:
		if g.CurrentPlayer() != p {
			return nil, ErrNotYourTurn
		}
	default:
		return nil, ErrWrongPhase
	}
	offer, ok := g.offers[p.ID]
	if !ok {
		return nil, fmt.Errorf("%w: no destinations to choose from", ErrInvalidAction)
	}

	kept, err := p.KeepDestinations(g.Destinations, offer, action.CardIDs, minKeep)
	if err != nil {
		return nil, err
	}
	delete(g.offers, p.ID)

	events := []Event{{Type: EventDestinationsKept, Player: p.ID, Data: map[string]any{
		"kept": len(kept), "returned": len(offer) - len(kept),
	}}}

	if g.Phase == PhaseDestinations {
		return append(events, g.endTurn(p)...), nil
	}
	if len(g.offers) == 0 {
		g.Phase = PhasePlayerTurn
		g.Current = 0
		events = append(events, g.phaseEvent())
	}
	return events, nil
}

func (g *Game) applyDrawMystery(p *Player) ([]Event, error) {
	if err := g.requireTurn(p, PhasePlayerTurn, PhaseDrawing); err != nil {
		return nil, err
	}
	if _, err := p.DrawMystery(); err != nil {
		return nil, err
	}
	events := []Event{{Type: EventCardDrawn, Player: p.ID, Data: map[string]any{
		"source": "mystery",
	}}}
	return append(events, g.afterDraw(p)...), nil
}

func (g *Game) applyDrawVisible(p *Player, action Action) ([]Event, error) {
	if err := g.requireTurn(p, PhasePlayerTurn, PhaseDrawing); err != nil {
		return nil, err
	}
	if action.Slot >= 0 && action.Slot < VisibleSlots && g.Phase == PhaseDrawing {
		if c := g.Trains.Visible()[action.Slot]; c != nil && c.Color().IsWild() {
			return nil, fmt.Errorf("%w: a face-up wild card cannot be the second draw", ErrInvalidAction)
		}
	}
	c, err := p.DrawVisible(action.Slot)
	if err != nil {
		return nil, err
	}
	events := []Event{{Type: EventCardDrawn, Player: p.ID, Data: map[string]any{
		"source": "visible", "slot": action.Slot, "color": c.Color().String(),
	}}}
	if c.Color().IsWild() {
		return append(events, g.endTurn(p)...), nil
	}
	return append(events, g.afterDraw(p)...), nil
}

// afterDraw moves to the second draw, or ends the turn once both are done or
// nothing is left that may be taken second.
func (g *Game) afterDraw(p *Player) []Event {
	if g.Phase == PhasePlayerTurn && g.Trains.CanDrawSecond() {
		g.Phase = PhaseDrawing
		return []Event{g.phaseEvent()}
	}
	return g.endTurn(p)
}

func (g *Game) applyBuildRoute(p *Player, action Action) ([]Event, error) {
	if err := g.requireTurn(p, PhasePlayerTurn); err != nil {
		return nil, err
	}
	choice, err := g.colorChoice(action)
	if err != nil {
		return nil, err
	}
	route, err := p.CheckBuild(action.CityA, action.CityB, choice, 0)
	if err != nil {
		return nil, err
	}

	var events []Event
	extra := 0
	if route.Tunnel {
		effective := route.Color
		if effective == ColorNone {
			effective = choice
		}
		var revealed []string
		revealed, extra = g.revealTunnel(effective)
		events = append(events, Event{Type: EventTunnelReveal, Player: p.ID, Data: map[string]any{
			"cards": revealed, "surcharge": extra,
		}})
	}

	res, err := p.BuildRoute(action.CityA, action.CityB, choice, extra)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		if !route.Tunnel {
			return nil, res.Err
		}
		// The reveal already happened, so the turn is spent.
		events = append(events, Event{Type: EventBuildFailed, Player: p.ID, Data: map[string]any{
			"route": route.String(), "reason": res.Err.Error(),
		}})
		return append(events, g.endTurn(p)...), nil
	}

	events = append(events, Event{Type: EventRouteBuilt, Player: p.ID, Data: res})
	return append(events, g.endTurn(p)...), nil
}

// colorChoice parses the requested card color. A blank color means the color
// of the first open route between the two cities.
func (g *Game) colorChoice(action Action) (Color, error) {
	if action.Color != "" {
		return ParseColor(action.Color)
	}
	for _, r := range g.Routes.FindRoutes(action.CityA, action.CityB) {
		if !r.Claimed() {
			return r.Color, nil
		}
	}
	return ColorNone, nil
}

// revealTunnel turns over up to three train cards into the discard and counts
// those matching color or wild.
func (g *Game) revealTunnel(color Color) ([]string, int) {
	var revealed []string
	extra := 0
	for range tunnelReveal {
		c, err := g.Trains.RevealToDiscard()
		if err != nil {
			break
		}
		revealed = append(revealed, c.Color().String())
		if c.Color() == color || c.Color().IsWild() {
			extra++
		}
	}
	return revealed, extra
}

func (g *Game) applyDrawDestinations(p *Player) ([]Event, error) {
	if err := g.requireTurn(p, PhasePlayerTurn); err != nil {
		return nil, err
	}
	if g.Destinations.DrawSize() < g.Config.DestinationDraw {
		g.Destinations.Reshuffle()
	}
	n := min(g.Config.DestinationDraw, g.Destinations.DrawSize())
	if n == 0 {
		return nil, fmt.Errorf("%w: no destinations left", ErrEmptySupply)
	}
	offer, err := p.DrawDestinations(g.Destinations, n)
	if err != nil {
		return nil, err
	}
	g.offers[p.ID] = offer
	g.Phase = PhaseDestinations
	return []Event{
		{Type: EventDestinationsOffer, Player: p.ID, Data: map[string]any{
			"count": len(offer), "keep": min(g.Config.DestinationKeep, len(offer)),
		}},
		g.phaseEvent(),
	}, nil
}

func (g *Game) endTurn(p *Player) []Event {
	events := []Event{{Type: EventTurnEnd, Player: p.ID}}

	if g.FinalRound {
		g.finalTurnsLeft--
		if g.finalTurnsLeft <= 0 {
			return g.endGame(events)
		}
	} else if p.TrainsRemaining() <= g.Config.FinalRoundTrains {
		g.FinalRound = true
		g.FinalTrigger = p.ID
		g.finalTurnsLeft = len(g.Players)
		events = append(events, Event{Type: EventFinalRound, Player: p.ID, Data: map[string]any{
			"trains": p.TrainsRemaining(),
		}})
	}

	g.Current = (g.Current + 1) % len(g.Players)
	if g.Current == 0 {
		g.Round++
	}
	g.Phase = PhasePlayerTurn
	return append(events, g.phaseEvent())
}

func (g *Game) endGame(events []Event) []Event {
	g.Phase = PhaseGameOver
	g.Scores = g.CalculateScores()
	for _, s := range g.Scores {
		if s.DestinationScore > 0 {
			events = append(events, Event{Type: EventDestinationScored, Player: s.PlayerID, Data: map[string]any{
				"completed": s.Completed, "points": s.DestinationScore,
			}})
		}
	}
	events = append(events,
		Event{Type: EventGameOver, Data: map[string]any{"scores": g.Scores}},
		Event{Type: EventPhaseChange, Data: map[string]any{"phase": PhaseGameOver.String()}},
	)
	if w := Winner(g.Scores); w != nil {
		g.logger.Info("game over", zap.String("winner", w.PlayerName), zap.Int("score", w.Total))
	}
	return events
}

func (g *Game) phaseEvent() Event {
	data := map[string]any{"phase": g.Phase.String()}
	if p := g.CurrentPlayer(); p != nil && g.Phase != PhaseSetup {
		data["current"] = p.ID
	}
	return Event{Type: EventPhaseChange, Data: data}
}

// GetPlayer finds a player by ID.
func (g *Game) GetPlayer(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	if g.Current < 0 || g.Current >= len(g.Players) {
		return nil
	}
	return g.Players[g.Current]
}

// Offer returns the destinations a player is currently choosing from.
func (g *Game) Offer(playerID string) []*DestinationCard {
	return g.offers[playerID]
}
