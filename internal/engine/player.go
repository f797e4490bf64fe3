package engine

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultStartingTrains is the number of trains each player starts with.
const DefaultStartingTrains = 45

// Player holds one player's state. Only the player's own methods change it.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	score        int
	trains       int
	hand         [NumColors][]*TrainCard
	destinations []*DestinationCard

	routes *RouteMap
	supply *TrainCardSupply
}

// NewPlayer creates a player bound to a map and a train card supply.
func NewPlayer(id, name string, startingTrains int, routes *RouteMap, supply *TrainCardSupply) (*Player, error) {
	switch {
	case strings.TrimSpace(id) == "":
		return nil, fmt.Errorf("%w: empty player id", ErrValidation)
	case startingTrains <= 0:
		return nil, fmt.Errorf("%w: starting trains %d", ErrValidation, startingTrains)
	case routes == nil || supply == nil:
		return nil, fmt.Errorf("%w: player %s needs a map and a supply", ErrValidation, id)
	}
	return &Player{
		ID:     id,
		Name:   name,
		trains: startingTrains,
		routes: routes,
		supply: supply,
	}, nil
}

func (p *Player) Score() int           { return p.score }
func (p *Player) TrainsRemaining() int { return p.trains }

// HandCount returns how many cards of a color the player holds.
func (p *Player) HandCount(c Color) int {
	if c < 0 || int(c) >= NumColors {
		return 0
	}
	return len(p.hand[c])
}

// HandSize returns the number of train cards held.
func (p *Player) HandSize() int {
	n := 0
	for _, cards := range p.hand {
		n += len(cards)
	}
	return n
}

// Hand returns the held cards grouped by color, wildcards last.
func (p *Player) Hand() []*TrainCard {
	out := make([]*TrainCard, 0, p.HandSize())
	for _, cards := range p.hand {
		out = append(out, cards...)
	}
	return out
}

// Destinations returns the destination cards the player has kept.
func (p *Player) Destinations() []*DestinationCard {
	return slices.Clone(p.destinations)
}

func (p *Player) take(c *TrainCard) {
	p.hand[c.color] = append(p.hand[c.color], c)
}

// DrawMystery draws the head of the train card queue.
func (p *Player) DrawMystery() (*TrainCard, error) {
	c, err := p.supply.DrawMystery(p.ID)
	if err != nil {
		return nil, err
	}
	p.take(c)
	return c, nil
}

// DrawVisible takes a face-up train card.
func (p *Player) DrawVisible(slot int) (*TrainCard, error) {
	c, err := p.supply.DrawVisible(slot, p.ID)
	if err != nil {
		return nil, err
	}
	p.take(c)
	return c, nil
}

// DrawDestinations draws n destination cards for the player to choose from.
// They are not kept until KeepDestinations.
func (p *Player) DrawDestinations(supply *DestinationCardSupply, n int) ([]*DestinationCard, error) {
	return supply.DrawDestinations(p.ID, n)
}

// KeepDestinations keeps the offered cards named by keepIDs and returns the
// rest to the supply. At least minKeep cards must be kept.
func (p *Player) KeepDestinations(supply *DestinationCardSupply, offered []*DestinationCard, keepIDs []string, minKeep int) ([]*DestinationCard, error) {
	minKeep = min(minKeep, len(offered))
	if len(keepIDs) < minKeep {
		return nil, fmt.Errorf("%w: keep at least %d destinations", ErrValidation, minKeep)
	}
	want := make(map[string]bool, len(keepIDs))
	for _, id := range keepIDs {
		if want[id] {
			return nil, fmt.Errorf("%w: destination %s listed twice", ErrValidation, id)
		}
		if !slices.ContainsFunc(offered, func(d *DestinationCard) bool { return d.id == id }) {
			return nil, fmt.Errorf("%w: destination %s was not offered", ErrValidation, id)
		}
		want[id] = true
	}

	var kept, returned []*DestinationCard
	for _, d := range offered {
		if want[d.id] {
			kept = append(kept, d)
		} else {
			returned = append(returned, d)
		}
	}
	p.destinations = append(p.destinations, kept...)
	if len(returned) > 0 {
		supply.Return(returned...)
	}
	return kept, nil
}

type buildPlan struct {
	route      Route
	color      Color
	total      int
	ferryWild  int
	colorCards int
	extraWild  int
}

// CheckBuild runs every BuildRoute rule without changing anything. It returns
// the route that would be claimed.
func (p *Player) CheckBuild(cityA, cityB string, colorChoice Color, extraCost int) (Route, error) {
	plan, err := p.planBuild(cityA, cityB, colorChoice, extraCost)
	if err != nil {
		return Route{}, err
	}
	return plan.route, nil
}

func (p *Player) planBuild(cityA, cityB string, colorChoice Color, extraCost int) (buildPlan, error) {
	candidates := p.routes.FindRoutes(cityA, cityB)
	if len(candidates) == 0 {
		return buildPlan{}, fmt.Errorf("%w: %s - %s", ErrRouteNotFound, cityA, cityB)
	}
	open := slices.DeleteFunc(candidates, Route.Claimed)
	if len(open) == 0 {
		return buildPlan{}, fmt.Errorf("%w: %s - %s", ErrRouteClaimed, cityA, cityB)
	}

	i := slices.IndexFunc(open, func(r Route) bool { return colorFits(r.Color, colorChoice) })
	if i < 0 {
		r := open[0]
		if r.Color == ColorNone {
			return buildPlan{}, fmt.Errorf("%w: pick a card color for gray route %s - %s, got %s",
				ErrColorMismatch, r.CityA, r.CityB, colorChoice)
		}
		return buildPlan{}, fmt.Errorf("%w: route %s - %s is %s, got %s",
			ErrColorMismatch, r.CityA, r.CityB, r.Color, colorChoice)
	}
	r := open[i]

	plan := buildPlan{route: r, color: r.Color, total: r.Cost + extraCost}
	if plan.color == ColorNone {
		plan.color = colorChoice
	}

	wild := len(p.hand[ColorMulticolor])
	have := len(p.hand[plan.color])
	if wild < r.Ferries || have+wild < plan.total {
		return buildPlan{}, fmt.Errorf("%w: need %d %s (%d wild for ferries), have %d %s and %d wild",
			ErrInsufficientCards, plan.total, plan.color, r.Ferries, have, plan.color, wild)
	}
	if plan.total > p.trains {
		return buildPlan{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientTrains, plan.total, p.trains)
	}

	plan.ferryWild = r.Ferries
	plan.colorCards = min(have, plan.total-r.Ferries)
	plan.extraWild = plan.total - r.Ferries - plan.colorCards
	return plan, nil
}

func colorFits(route, choice Color) bool {
	if route == ColorNone {
		return choice.IsConcrete()
	}
	return choice == route || choice.IsWild()
}

// BuildRoute claims the route between two cities, paying with cards of
// colorChoice plus wildcards. extraCost is the tunnel surcharge. Either the
// cards are spent, the trains removed, the route claimed and the score raised,
// or nothing changes and the result carries the reason.
//
// The returned error is only set for malformed arguments.
func (p *Player) BuildRoute(cityA, cityB string, colorChoice Color, extraCost int) (RouteBuildResult, error) {
	res := RouteBuildResult{TrainsRemaining: p.trains, TunnelSurcharge: extraCost}
	if normalizeCity(cityA) == "" || normalizeCity(cityB) == "" {
		res.Err = fmt.Errorf("%w: empty city name", ErrValidation)
		return res, res.Err
	}
	if extraCost < 0 {
		res.Err = fmt.Errorf("%w: negative surcharge %d", ErrValidation, extraCost)
		return res, res.Err
	}

	plan, err := p.planBuild(cityA, cityB, colorChoice, extraCost)
	if err != nil {
		res.Err = err
		return res, nil
	}
	res.Route = plan.route
	if !p.routes.ClaimRouteID(plan.route.ID, p.ID) {
		res.Err = fmt.Errorf("%w: %s - %s", ErrRouteClaimed, plan.route.CityA, plan.route.CityB)
		return res, nil
	}

	spent := make([]*TrainCard, 0, plan.total)
	spent = append(spent, p.spend(ColorMulticolor, plan.ferryWild)...)
	spent = append(spent, p.spend(plan.color, plan.colorCards)...)
	spent = append(spent, p.spend(ColorMulticolor, plan.extraWild)...)
	p.supply.Discard(spent...)
	p.trains -= plan.total

	points := RoutePoints(plan.route.Cost)
	p.score += points

	res.Success = true
	res.Route.Owner = p.ID
	res.PointsEarned = points
	res.TrainsRemaining = p.trains
	res.CardsSpent = len(spent)
	return res, nil
}

func (p *Player) spend(c Color, n int) []*TrainCard {
	if n <= 0 {
		return nil
	}
	held := p.hand[c]
	cut := len(held) - n
	out := slices.Clone(held[cut:])
	clear(held[cut:])
	p.hand[c] = held[:cut]
	return out
}

// CheckDestinationCardCompleted scores a destination once its cities are
// connected by the player's routes. It returns the points awarded, which is 0
// when the card was already completed or is not yet connected.
func (p *Player) CheckDestinationCardCompleted(card *DestinationCard) int {
	if card == nil || card.completed {
		return 0
	}
	if !p.routes.IsReachable(card.city1, card.city2, p.ID) {
		return 0
	}
	if !card.markCompleted() {
		return 0
	}
	p.score += card.points
	return card.points
}
