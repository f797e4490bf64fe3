package engine_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"tickettoride/internal/engine"
)

func trainCards(t *testing.T, colors ...engine.Color) []*engine.TrainCard {
	t.Helper()
	cards := make([]*engine.TrainCard, len(colors))
	for i, c := range colors {
		card, err := engine.NewTrainCard(fmt.Sprintf("t%03d", i), c)
		if err != nil {
			t.Fatalf("NewTrainCard: %v", err)
		}
		cards[i] = card
	}
	return cards
}

func repeatColor(c engine.Color, n int) []engine.Color {
	out := make([]engine.Color, n)
	for i := range out {
		out[i] = c
	}
	return out
}

// standardColors is a full 110 card train deck: 12 of each color, 14 wild.
func standardColors() []engine.Color {
	var out []engine.Color
	for _, c := range engine.CardColors() {
		n := 12
		if c.IsWild() {
			n = 14
		}
		out = append(out, repeatColor(c, n)...)
	}
	return out
}

func visibleColors(s *engine.TrainCardSupply) map[engine.Color]int {
	counts := map[engine.Color]int{}
	for _, c := range s.Visible() {
		if c != nil {
			counts[c.Color()]++
		}
	}
	return counts
}

func occupied(s *engine.TrainCardSupply) int {
	n := 0
	for _, c := range s.Visible() {
		if c != nil {
			n++
		}
	}
	return n
}

func TestDrawMystery(t *testing.T) {
	cards := trainCards(t, engine.ColorRed, engine.ColorBlue)
	s := engine.NewTrainCardSupply(cards, nil, nil)

	c, err := s.DrawMystery("p1")
	if err != nil {
		t.Fatalf("DrawMystery: %v", err)
	}
	if c != cards[0] {
		t.Errorf("expected head card %s, got %s", cards[0].ID(), c.ID())
	}
	if c.Location() != engine.LocationHand || c.Owner() != "p1" {
		t.Errorf("drawn card at %s owned by %q", c.Location(), c.Owner())
	}
	if _, err := s.DrawMystery(""); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("empty player: got %v", err)
	}

	if _, err := s.DrawMystery("p1"); err != nil {
		t.Fatalf("second draw: %v", err)
	}
	if _, err := s.DrawMystery("p1"); !errors.Is(err, engine.ErrEmptySupply) {
		t.Errorf("empty supply: got %v, want ErrEmptySupply", err)
	}
}

func TestDrawMysteryReshufflesEmptyQueue(t *testing.T) {
	cards := trainCards(t, engine.ColorRed, engine.ColorBlue)
	s := engine.NewTrainCardSupply(cards, engine.NewRand(1), nil)
	a, _ := s.DrawMystery("p1")
	b, _ := s.DrawMystery("p1")
	s.Discard(a, b)
	if a.Location() != engine.LocationDiscard || a.Owner() != "" {
		t.Fatalf("discarded card at %s owned by %q", a.Location(), a.Owner())
	}

	if _, err := s.DrawMystery("p2"); err != nil {
		t.Fatalf("draw after discard: %v", err)
	}
	if s.DiscardSize() != 0 || s.DrawSize() != 1 {
		t.Errorf("draw=%d discard=%d, want 1 and 0", s.DrawSize(), s.DiscardSize())
	}
}

func TestLowWaterReshuffle(t *testing.T) {
	s := engine.NewTrainCardSupply(trainCards(t, repeatColor(engine.ColorRed, 25)...), engine.NewRand(7), nil)
	a, _ := s.DrawMystery("p1")
	b, _ := s.DrawMystery("p1")
	s.Discard(a, b)

	s.DrawMystery("p1")
	s.DrawMystery("p1")
	if s.DiscardSize() != 2 {
		t.Fatalf("queue above threshold should not reshuffle, discard=%d", s.DiscardSize())
	}
	s.DrawMystery("p1") // queue drops to 20
	if s.DiscardSize() != 0 || s.DrawSize() != 22 {
		t.Errorf("after low-water draw: draw=%d discard=%d, want 22 and 0", s.DrawSize(), s.DiscardSize())
	}
	if a.Location() != engine.LocationSupply {
		t.Errorf("reshuffled card location = %s", a.Location())
	}
}

func TestDrawVisibleValidation(t *testing.T) {
	s := engine.NewTrainCardSupply(trainCards(t, engine.ColorRed, engine.ColorBlue, engine.ColorGreen), nil, nil)
	s.FillVisible()
	if occupied(s) != 3 {
		t.Fatalf("expected 3 occupied slots, got %d", occupied(s))
	}
	for _, slot := range []int{-1, engine.VisibleSlots, 3} {
		if _, err := s.DrawVisible(slot, "p1"); !errors.Is(err, engine.ErrValidation) {
			t.Errorf("DrawVisible(%d): got %v, want ErrValidation", slot, err)
		}
	}
	c, err := s.DrawVisible(1, "p1")
	if err != nil {
		t.Fatalf("DrawVisible(1): %v", err)
	}
	if c.Color() != engine.ColorBlue || c.Owner() != "p1" {
		t.Errorf("drew %s owned by %q", c.Color(), c.Owner())
	}
	if s.Visible()[1] != nil {
		t.Error("slot 1 should stay empty with nothing left to refill")
	}
}

func TestDrawVisibleRefills(t *testing.T) {
	colors := []engine.Color{
		engine.ColorRed, engine.ColorBlue, engine.ColorGreen, engine.ColorYellow, engine.ColorBlack,
	}
	colors = append(colors, repeatColor(engine.ColorWhite, 30)...)
	s := engine.NewTrainCardSupply(trainCards(t, colors...), nil, nil)
	s.FillVisible()

	if _, err := s.DrawVisible(2, "p1"); err != nil {
		t.Fatalf("DrawVisible: %v", err)
	}
	row := s.Visible()
	if row[2] == nil || row[2].Color() != engine.ColorWhite {
		t.Errorf("slot 2 should be refilled with white, got %v", row[2])
	}
	if s.DrawSize() != 29 {
		t.Errorf("draw size = %d, want 29", s.DrawSize())
	}
}

func TestPurgeThreeOfAKind(t *testing.T) {
	colors := []engine.Color{
		engine.ColorRed, engine.ColorRed, engine.ColorRed, engine.ColorBlue, engine.ColorGreen,
		engine.ColorYellow, engine.ColorYellow,
	}
	colors = append(colors, repeatColor(engine.ColorBlack, 30)...)
	s := engine.NewTrainCardSupply(trainCards(t, colors...), nil, nil)
	s.FillVisible()

	got := visibleColors(s)
	want := map[engine.Color]int{
		engine.ColorRed: 0, engine.ColorBlue: 1, engine.ColorGreen: 1,
		engine.ColorYellow: 2, engine.ColorBlack: 1,
	}
	for c, n := range want {
		if got[c] != n {
			t.Errorf("row has %d %s, want %d (row %v)", got[c], c, n, got)
		}
	}
	if s.DiscardSize() != 3 {
		t.Errorf("discard = %d, want the 3 purged reds", s.DiscardSize())
	}
	if occupied(s) != engine.VisibleSlots {
		t.Errorf("row should be full, has %d", occupied(s))
	}
}

func TestPurgeRepeatsUntilClear(t *testing.T) {
	colors := []engine.Color{
		engine.ColorRed, engine.ColorRed, engine.ColorRed, engine.ColorBlue, engine.ColorGreen,
		engine.ColorRed, engine.ColorRed, engine.ColorRed,
	}
	colors = append(colors, repeatColor(engine.ColorWhite, 1)...)
	colors = append(colors, repeatColor(engine.ColorPink, 1)...)
	colors = append(colors, repeatColor(engine.ColorOrange, 1)...)
	colors = append(colors, repeatColor(engine.ColorBlack, 25)...)
	s := engine.NewTrainCardSupply(trainCards(t, colors...), nil, nil)
	s.FillVisible()

	got := visibleColors(s)
	want := map[engine.Color]int{
		engine.ColorWhite: 1, engine.ColorPink: 1, engine.ColorOrange: 1,
		engine.ColorBlue: 1, engine.ColorGreen: 1,
	}
	for c, n := range want {
		if got[c] != n {
			t.Errorf("row has %d %s, want %d (row %v)", got[c], c, n, got)
		}
	}
	if s.DiscardSize() != 6 {
		t.Errorf("discard = %d, want 6 purged reds", s.DiscardSize())
	}
}

func TestPurgeStopsWhenSupplyIsAllOneColor(t *testing.T) {
	s := engine.NewTrainCardSupply(trainCards(t, repeatColor(engine.ColorMulticolor, 6)...), engine.NewRand(3), nil)
	s.FillVisible()

	total := s.DrawSize() + s.DiscardSize() + occupied(s)
	if total != 6 {
		t.Fatalf("cards lost during purge: %d of 6 accounted for", total)
	}
}

func TestRevealToDiscard(t *testing.T) {
	s := engine.NewTrainCardSupply(trainCards(t, engine.ColorOrange), nil, nil)
	c, err := s.RevealToDiscard()
	if err != nil {
		t.Fatalf("RevealToDiscard: %v", err)
	}
	if c.Location() != engine.LocationDiscard || s.DiscardSize() != 1 {
		t.Errorf("revealed card at %s, discard %d", c.Location(), s.DiscardSize())
	}
}

// TestTrainCardCountInvariant runs a long random sequence of draws, purges
// and discards and checks every card stays in exactly one place.
func TestTrainCardCountInvariant(t *testing.T) {
	rng := engine.NewRand(42)
	s := engine.NewTrainCardSupply(trainCards(t, standardColors()...), engine.NewRand(43), nil)
	s.Shuffle()
	s.FillVisible()

	players := []string{"p1", "p2", "p3"}
	hands := map[string][]*engine.TrainCard{}

	for step := range 2000 {
		pid := players[rng.IntN(len(players))]
		switch rng.IntN(4) {
		case 0:
			if c, err := s.DrawMystery(pid); err == nil {
				hands[pid] = append(hands[pid], c)
			}
		case 1:
			if c, err := s.DrawVisible(rng.IntN(engine.VisibleSlots), pid); err == nil {
				hands[pid] = append(hands[pid], c)
			}
		case 2:
			if h := hands[pid]; len(h) > 0 {
				i := rng.IntN(len(h))
				s.Discard(h[i])
				hands[pid] = append(h[:i], h[i+1:]...)
			}
		case 3:
			s.RevealToDiscard()
		}

		seen := map[string]bool{}
		inHands := 0
		for pid, h := range hands {
			for _, c := range h {
				if seen[c.ID()] {
					t.Fatalf("step %d: card %s held twice", step, c.ID())
				}
				seen[c.ID()] = true
				if c.Location() != engine.LocationHand || c.Owner() != pid {
					t.Fatalf("step %d: card %s in %s's hand is at %s owned by %q",
						step, c.ID(), pid, c.Location(), c.Owner())
				}
			}
			inHands += len(h)
		}
		for _, c := range s.Visible() {
			if c == nil {
				continue
			}
			if seen[c.ID()] {
				t.Fatalf("step %d: visible card %s is also in a hand", step, c.ID())
			}
			if c.Location() != engine.LocationSupply {
				t.Fatalf("step %d: visible card %s at %s", step, c.ID(), c.Location())
			}
		}
		if got := s.DrawSize() + s.DiscardSize() + occupied(s) + inHands; got != s.Total() {
			t.Fatalf("step %d: %d cards accounted for, want %d", step, got, s.Total())
		}
	}
}

func TestConcurrentDrawsNeverDuplicate(t *testing.T) {
	const workers, each = 8, 25
	s := engine.NewTrainCardSupply(trainCards(t, repeatColor(engine.ColorBlue, workers*each)...), nil, nil)

	var mu sync.Mutex
	seen := map[string]bool{}
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for range each {
				c, err := s.DrawMystery(fmt.Sprintf("p%d", w))
				if err != nil {
					t.Errorf("worker %d: %v", w, err)
					return
				}
				mu.Lock()
				if seen[c.ID()] {
					t.Errorf("card %s drawn twice", c.ID())
				}
				seen[c.ID()] = true
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	if len(seen) != workers*each {
		t.Errorf("drew %d distinct cards, want %d", len(seen), workers*each)
	}
}

func destinationCards(t *testing.T, n int) []*engine.DestinationCard {
	t.Helper()
	out := make([]*engine.DestinationCard, n)
	for i := range out {
		d, err := engine.NewDestinationCard(fmt.Sprintf("d%02d", i), "a", "b", i+1)
		if err != nil {
			t.Fatalf("NewDestinationCard: %v", err)
		}
		out[i] = d
	}
	return out
}

func TestDrawDestinations(t *testing.T) {
	s := engine.NewDestinationCardSupply(destinationCards(t, 4), engine.NewRand(5))

	if _, err := s.DrawDestinations("p1", 0); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("zero count: got %v", err)
	}
	if _, err := s.DrawDestinations("p1", 5); !errors.Is(err, engine.ErrEmptySupply) {
		t.Errorf("too many: got %v, want ErrEmptySupply", err)
	}
	if s.DrawSize() != 4 {
		t.Fatalf("failed draw removed cards: %d left", s.DrawSize())
	}

	drawn, err := s.DrawDestinations("p1", 3)
	if err != nil {
		t.Fatalf("DrawDestinations: %v", err)
	}
	for _, d := range drawn {
		if d.Location() != engine.LocationHand || d.Owner() != "p1" {
			t.Errorf("%s at %s owned by %q", d.ID(), d.Location(), d.Owner())
		}
	}

	s.Return(drawn[1:]...)
	if s.DiscardSize() != 2 || drawn[1].Location() != engine.LocationDiscard {
		t.Errorf("returned cards not in discard: %d", s.DiscardSize())
	}
	if s.DrawSize() != 1 {
		t.Errorf("destination supply must not auto-reshuffle, draw size %d", s.DrawSize())
	}
	s.Reshuffle()
	if s.DrawSize() != 3 || s.DiscardSize() != 0 {
		t.Errorf("after reshuffle draw=%d discard=%d", s.DrawSize(), s.DiscardSize())
	}
}
