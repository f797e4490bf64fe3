package engine

import (
	"math/rand/v2"
	"sync"
)

type pileCard interface {
	base() *Card
}

// SupplyPile is an ordered draw queue plus an unordered discard collection.
// Every card it was created with is always in the queue, the discard, a
// visible slot of a TrainCardSupply, or a player's hand.
type SupplyPile[T pileCard] struct {
	mu      sync.Mutex
	rng     *rand.Rand
	queue   []T
	discard []T
	total   int
}

// NewRand returns a seeded PCG source for deterministic shuffles.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newSupplyPile[T pileCard](cards []T, rng *rand.Rand) *SupplyPile[T] {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p := &SupplyPile[T]{
		rng:   rng,
		queue: make([]T, len(cards)),
		total: len(cards),
	}
	copy(p.queue, cards)
	for _, c := range p.queue {
		c.base().toSupply()
	}
	return p
}

// Shuffle randomizes the draw queue.
func (p *SupplyPile[T]) Shuffle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shuffle(p.queue)
}

// Reshuffle shuffles the discard collection and appends it to the draw queue.
func (p *SupplyPile[T]) Reshuffle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reshuffleLocked()
}

// Discard moves cards into the discard collection.
func (p *SupplyPile[T]) Discard(cards ...T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discardLocked(cards...)
}

// DrawSize returns the number of cards left in the draw queue.
func (p *SupplyPile[T]) DrawSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// DiscardSize returns the number of cards in the discard collection.
func (p *SupplyPile[T]) DiscardSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.discard)
}

// Total returns the number of cards the pile was created with.
func (p *SupplyPile[T]) Total() int {
	return p.total
}

func (p *SupplyPile[T]) shuffle(cards []T) {
	p.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

func (p *SupplyPile[T]) reshuffleLocked() int {
	n := len(p.discard)
	if n == 0 {
		return 0
	}
	p.shuffle(p.discard)
	for _, c := range p.discard {
		c.base().toSupply()
	}
	p.queue = append(p.queue, p.discard...)
	p.discard = nil
	return n
}

func (p *SupplyPile[T]) discardLocked(cards ...T) {
	for _, c := range cards {
		c.base().toDiscard()
		p.discard = append(p.discard, c)
	}
}

// popLocked removes the head of the draw queue.
func (p *SupplyPile[T]) popLocked() (T, bool) {
	var zero T
	if len(p.queue) == 0 {
		return zero, false
	}
	c := p.queue[0]
	p.queue[0] = zero
	p.queue = p.queue[1:]
	return c, true
}
