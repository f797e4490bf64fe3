package engine

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

const (
	// VisibleSlots is the size of the face-up row.
	VisibleSlots = 5

	// The discard is shuffled back once the draw queue is down to this many cards.
	reshuffleThreshold = 20

	// Three or more face-up cards of one color are purged.
	purgeCount = 3
)

// TrainCardSupply is the train card pile with its face-up row.
type TrainCardSupply struct {
	*SupplyPile[*TrainCard]
	visible [VisibleSlots]*TrainCard
	logger  *zap.Logger
}

// NewTrainCardSupply creates a supply with cards in the given order. The
// visible row starts empty; call Shuffle and FillVisible to set up a game.
func NewTrainCardSupply(cards []*TrainCard, rng *rand.Rand, logger *zap.Logger) *TrainCardSupply {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainCardSupply{
		SupplyPile: newSupplyPile(cards, rng),
		logger:     logger,
	}
}

// DrawMystery deals the head of the draw queue to a player's hand.
func (s *TrainCardSupply) DrawMystery(playerID string) (*TrainCard, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: empty player id", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.takeLocked()
	if !ok {
		return nil, fmt.Errorf("%w: no train cards left to draw", ErrEmptySupply)
	}
	c.toHand(playerID)
	return c, nil
}

// DrawVisible deals a face-up card to a player's hand, refills the slot and
// purges the row.
func (s *TrainCardSupply) DrawVisible(slot int, playerID string) (*TrainCard, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: empty player id", ErrValidation)
	}
	if slot < 0 || slot >= VisibleSlots {
		return nil, fmt.Errorf("%w: visible slot %d out of range", ErrValidation, slot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.visible[slot]
	if c == nil {
		return nil, fmt.Errorf("%w: visible slot %d is empty", ErrValidation, slot)
	}
	s.visible[slot] = nil
	c.toHand(playerID)
	s.refillLocked()
	s.purgeLocked()
	return c, nil
}

// RevealToDiscard turns the head of the draw queue face up and discards it.
func (s *TrainCardSupply) RevealToDiscard() (*TrainCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.takeLocked()
	if !ok {
		return nil, fmt.Errorf("%w: no train cards left to reveal", ErrEmptySupply)
	}
	s.discardLocked(c)
	return c, nil
}

// FillVisible refills every empty face-up slot and purges the row.
func (s *TrainCardSupply) FillVisible() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refillLocked()
	s.purgeLocked()
}

// Visible returns a snapshot of the face-up row. Empty slots are nil.
func (s *TrainCardSupply) Visible() []*TrainCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*TrainCard, VisibleSlots)
	copy(out, s.visible[:])
	return out
}

// Available counts cards that can still be drawn from the queue, the discard
// or the face-up row.
func (s *TrainCardSupply) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) + len(s.discard) + s.occupiedLocked()
}

// CanDrawSecond reports whether a second draw is possible: a card in the
// queue or discard, or a face-up card that is not a wild.
func (s *TrainCardSupply) CanDrawSecond() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue)+len(s.discard) > 0 {
		return true
	}
	for _, c := range s.visible {
		if c != nil && !c.color.IsWild() {
			return true
		}
	}
	return false
}

// takeLocked pops the head card, reshuffling first when the queue is empty
// and afterwards when it has hit the low-water mark.
func (s *TrainCardSupply) takeLocked() (*TrainCard, bool) {
	if len(s.queue) == 0 {
		s.lowWaterLocked()
	}
	c, ok := s.popLocked()
	if !ok {
		return nil, false
	}
	if len(s.queue) <= reshuffleThreshold {
		s.lowWaterLocked()
	}
	return c, true
}

func (s *TrainCardSupply) lowWaterLocked() {
	if n := s.reshuffleLocked(); n > 0 {
		s.logger.Debug("train discard reshuffled",
			zap.Int("cards", n),
			zap.Int("draw_size", len(s.queue)))
	}
}

func (s *TrainCardSupply) refillLocked() {
	for i := range s.visible {
		if s.visible[i] != nil {
			continue
		}
		c, ok := s.takeLocked()
		if !ok {
			return
		}
		s.visible[i] = c
	}
}

func (s *TrainCardSupply) occupiedLocked() int {
	n := 0
	for _, c := range s.visible {
		if c != nil {
			n++
		}
	}
	return n
}

// purgeLocked discards every color showing purgeCount or more times and
// refills, until no color qualifies. The pass count is bounded by how many
// cards could ever reach the row.
func (s *TrainCardSupply) purgeLocked() {
	available := len(s.queue) + len(s.discard) + s.occupiedLocked()
	limit := available/purgeCount + 1

	for pass := 0; ; pass++ {
		var counts [NumColors]int
		for _, c := range s.visible {
			if c != nil {
				counts[c.color]++
			}
		}
		var purge [NumColors]bool
		found := false
		for color, n := range counts {
			if n >= purgeCount {
				purge[color] = true
				found = true
			}
		}
		if !found {
			return
		}
		if pass >= limit {
			s.logger.Warn("visible row purge stopped at pass limit",
				zap.Int("passes", pass),
				zap.Int("available", available))
			return
		}

		purged := 0
		for i, c := range s.visible {
			if c != nil && purge[c.color] {
				s.discardLocked(c)
				s.visible[i] = nil
				purged++
			}
		}
		s.logger.Debug("visible row purged",
			zap.Int("pass", pass),
			zap.Int("cards", purged))
		s.refillLocked()
	}
}
