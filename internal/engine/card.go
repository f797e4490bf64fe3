package engine

import "fmt"

// CardKind distinguishes train cards from destination cards.
type CardKind string

const (
	KindTrain       CardKind = "TRAIN"
	KindDestination CardKind = "DESTINATION"
)

// CardLocation is where a card currently lives.
type CardLocation string

const (
	LocationSupply  CardLocation = "SUPPLY"
	LocationDiscard CardLocation = "DISCARD"
	LocationHand    CardLocation = "HAND"
)

// Card is the location record shared by both card kinds. The owner is set
// exactly when the card is in a hand.
type Card struct {
	id       string
	kind     CardKind
	location CardLocation
	owner    string
}

func newCard(id string, kind CardKind) Card {
	return Card{id: id, kind: kind, location: LocationSupply}
}

func (c *Card) ID() string             { return c.id }
func (c *Card) Kind() CardKind         { return c.kind }
func (c *Card) Location() CardLocation { return c.location }

// Owner returns the holding player's ID, or "" when the card is not in a hand.
func (c *Card) Owner() string { return c.owner }

func (c *Card) base() *Card { return c }

func (c *Card) toSupply() {
	c.location = LocationSupply
	c.owner = ""
}

func (c *Card) toDiscard() {
	c.location = LocationDiscard
	c.owner = ""
}

func (c *Card) toHand(playerID string) {
	c.location = LocationHand
	c.owner = playerID
}

// TrainCard is a colored card used to pay for routes.
type TrainCard struct {
	Card
	color Color
}

// NewTrainCard creates a train card in the supply.
func NewTrainCard(id string, color Color) (*TrainCard, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty card id", ErrValidation)
	}
	if !color.IsConcrete() && !color.IsWild() {
		return nil, fmt.Errorf("%w: train card %s has no color", ErrValidation, id)
	}
	return &TrainCard{Card: newCard(id, KindTrain), color: color}, nil
}

func (t *TrainCard) Color() Color { return t.color }

func (t *TrainCard) String() string {
	return fmt.Sprintf("%s train card %s", t.color, t.id)
}

// DestinationCard is an objective: connect two cities for points.
type DestinationCard struct {
	Card
	city1     string
	city2     string
	points    int
	completed bool
}

// NewDestinationCard creates a destination card in the supply.
func NewDestinationCard(id, city1, city2 string, points int) (*DestinationCard, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty card id", ErrValidation)
	}
	if normalizeCity(city1) == "" || normalizeCity(city2) == "" {
		return nil, fmt.Errorf("%w: destination %s needs two cities", ErrValidation, id)
	}
	if points < 0 {
		return nil, fmt.Errorf("%w: destination %s has negative points", ErrValidation, id)
	}
	return &DestinationCard{
		Card:   newCard(id, KindDestination),
		city1:  city1,
		city2:  city2,
		points: points,
	}, nil
}

func (d *DestinationCard) City1() string   { return d.city1 }
func (d *DestinationCard) City2() string   { return d.city2 }
func (d *DestinationCard) Points() int     { return d.points }
func (d *DestinationCard) Completed() bool { return d.completed }

// markCompleted flips the completed flag. It reports false if the card was
// already completed; the flag is never reset.
func (d *DestinationCard) markCompleted() bool {
	if d.completed {
		return false
	}
	d.completed = true
	return true
}

func (d *DestinationCard) String() string {
	done := ""
	if d.completed {
		done = " COMPLETED"
	}
	return fmt.Sprintf("%s: %s -> %s (%d pts)%s", d.id, d.city1, d.city2, d.points, done)
}
