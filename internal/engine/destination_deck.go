package engine

import (
	"fmt"
	"math/rand/v2"
)

// DestinationCardSupply is the destination card pile. It has no face-up row
// and only reshuffles when asked to.
type DestinationCardSupply struct {
	*SupplyPile[*DestinationCard]
}

// NewDestinationCardSupply creates a supply with cards in the given order.
func NewDestinationCardSupply(cards []*DestinationCard, rng *rand.Rand) *DestinationCardSupply {
	return &DestinationCardSupply{SupplyPile: newSupplyPile(cards, rng)}
}

// DrawDestinations deals count cards from the head of the queue to a player.
// Choosing which to keep is up to the caller; see Return.
func (s *DestinationCardSupply) DrawDestinations(playerID string, count int) ([]*DestinationCard, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: empty player id", ErrValidation)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: draw count %d", ErrValidation, count)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) < count {
		return nil, fmt.Errorf("%w: %d destinations left, %d requested",
			ErrEmptySupply, len(s.queue), count)
	}
	drawn := make([]*DestinationCard, 0, count)
	for range count {
		c, _ := s.popLocked()
		c.toHand(playerID)
		drawn = append(drawn, c)
	}
	return drawn, nil
}

// Return puts unselected destinations into the discard collection.
func (s *DestinationCardSupply) Return(cards ...*DestinationCard) {
	s.Discard(cards...)
}
