package engine_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"tickettoride/internal/engine"
)

func newTestMap(t *testing.T, cities ...string) *engine.RouteMap {
	t.Helper()
	m := engine.NewRouteMap()
	for _, c := range cities {
		if err := m.AddCity(c); err != nil {
			t.Fatalf("AddCity(%q): %v", c, err)
		}
	}
	return m
}

func mustRoute(t *testing.T, m *engine.RouteMap, a, b string, cost int, tunnel bool, ferries int, color engine.Color) int {
	t.Helper()
	id, err := m.AddRoute(a, b, cost, tunnel, ferries, color)
	if err != nil {
		t.Fatalf("AddRoute(%s, %s): %v", a, b, err)
	}
	return id
}

func TestAddCity(t *testing.T) {
	m := engine.NewRouteMap()
	if err := m.AddCity("  Paris "); err != nil {
		t.Fatalf("AddCity: %v", err)
	}
	if err := m.AddCity("PARIS"); err != nil {
		t.Fatalf("AddCity duplicate: %v", err)
	}
	if m.CityCount() != 1 {
		t.Fatalf("expected 1 city, got %d", m.CityCount())
	}
	if !m.HasCity("paris") {
		t.Error("paris should be on the map")
	}
	if err := m.AddCity("   "); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("blank city: got %v, want ErrValidation", err)
	}
}

func TestAddRouteValidation(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		cost    int
		ferries int
		color   engine.Color
	}{
		{"unknown city", "a", "z", 2, 0, engine.ColorRed},
		{"zero cost", "a", "b", 0, 0, engine.ColorRed},
		{"negative cost", "a", "b", -1, 0, engine.ColorRed},
		{"ferries equal cost", "a", "b", 2, 2, engine.ColorNone},
		{"negative ferries", "a", "b", 2, -1, engine.ColorNone},
		{"self loop", "a", "A", 2, 0, engine.ColorNone},
		{"wild route", "a", "b", 2, 0, engine.ColorMulticolor},
	}
	for _, tt := range tests {
		m := newTestMap(t, "a", "b")
		_, err := m.AddRoute(tt.a, tt.b, tt.cost, false, tt.ferries, tt.color)
		if !errors.Is(err, engine.ErrValidation) {
			t.Errorf("%s: got %v, want ErrValidation", tt.name, err)
		}
		if len(m.Routes()) != 0 {
			t.Errorf("%s: route should not be added", tt.name)
		}
	}
}

func TestFindRouteBothDirections(t *testing.T) {
	m := newTestMap(t, "Berlin", "Wien", "Zurich")
	mustRoute(t, m, "Berlin", "Wien", 3, true, 0, engine.ColorGreen)

	ab, ok := m.FindRoute("berlin", "wien")
	if !ok {
		t.Fatal("route berlin-wien not found")
	}
	ba, ok := m.FindRoute("WIEN", " Berlin")
	if !ok {
		t.Fatal("route wien-berlin not found")
	}
	if ab.ID != ba.ID {
		t.Errorf("directions resolve to different routes: %d vs %d", ab.ID, ba.ID)
	}
	if !ab.Tunnel || ab.Cost != 3 || ab.Color != engine.ColorGreen {
		t.Errorf("unexpected route %+v", ab)
	}
	if _, ok := m.FindRoute("berlin", "zurich"); ok {
		t.Error("berlin-zurich should not exist")
	}
}

func TestParallelRoutes(t *testing.T) {
	m := newTestMap(t, "a", "b")
	first := mustRoute(t, m, "a", "b", 2, false, 0, engine.ColorRed)
	second := mustRoute(t, m, "a", "b", 2, false, 0, engine.ColorBlue)

	r, _ := m.FindRoute("b", "a")
	if r.ID != first {
		t.Errorf("FindRoute returned %d, want first route %d", r.ID, first)
	}
	if n := len(m.FindRoutes("a", "b")); n != 2 {
		t.Fatalf("expected 2 parallel routes, got %d", n)
	}

	if !m.ClaimRoute("a", "b", "p1") {
		t.Fatal("first claim should succeed")
	}
	if !m.ClaimRoute("a", "b", "p2") {
		t.Fatal("second parallel claim should succeed")
	}
	if m.ClaimRoute("a", "b", "p3") {
		t.Fatal("third claim should fail")
	}
	if r, _ := m.Route(second); r.Owner != "p2" {
		t.Errorf("second route owner = %q, want p2", r.Owner)
	}
}

func TestClaimRouteIsWriteOnce(t *testing.T) {
	m := newTestMap(t, "a", "b")
	mustRoute(t, m, "a", "b", 4, false, 0, engine.ColorNone)

	if owner, ok := m.RouteOwner("a", "b"); !ok || owner != "" {
		t.Fatalf("fresh route owner = %q, %v", owner, ok)
	}
	if !m.ClaimRoute("b", "a", "p1") {
		t.Fatal("claim should succeed")
	}
	if m.ClaimRoute("a", "b", "p2") {
		t.Fatal("second claim should fail")
	}
	if m.ClaimRoute("a", "b", "p1") {
		t.Fatal("reclaim by owner should fail")
	}
	if owner, _ := m.RouteOwner("a", "b"); owner != "p1" {
		t.Errorf("owner = %q, want p1", owner)
	}
	if m.ClaimRoute("a", "c", "p1") {
		t.Error("claiming a missing route should fail")
	}
	if _, ok := m.RouteOwner("a", "c"); ok {
		t.Error("RouteOwner of a missing route should report false")
	}
}

func TestClaimRouteConcurrent(t *testing.T) {
	m := newTestMap(t, "a", "b")
	id := mustRoute(t, m, "a", "b", 2, false, 0, engine.ColorNone)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if m.ClaimRouteID(id, fmt.Sprintf("p%d", i)) {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly 1 winning claim, got %d", wins.Load())
	}
	r, _ := m.Route(id)
	if !r.Claimed() {
		t.Fatal("route should be claimed")
	}
}

func TestIsReachable(t *testing.T) {
	m := newTestMap(t, "a", "b", "c", "d", "e")
	mustRoute(t, m, "a", "b", 1, false, 0, engine.ColorNone)
	mustRoute(t, m, "b", "c", 1, false, 0, engine.ColorNone)
	mustRoute(t, m, "c", "a", 1, false, 0, engine.ColorNone)
	mustRoute(t, m, "c", "d", 1, false, 0, engine.ColorNone)
	mustRoute(t, m, "d", "e", 1, false, 0, engine.ColorNone)

	m.ClaimRoute("a", "b", "p1")
	m.ClaimRoute("b", "c", "p1")
	m.ClaimRoute("c", "a", "p1")
	m.ClaimRoute("c", "d", "p2")
	m.ClaimRoute("d", "e", "p1")

	tests := []struct {
		a, b, player string
		want         bool
	}{
		{"a", "c", "p1", true},
		{"C", "b", "p1", true},
		{"a", "d", "p1", false},
		{"d", "e", "p1", true},
		{"a", "e", "p1", false},
		{"c", "d", "p2", true},
		{"a", "b", "p2", false},
		{"e", "e", "p3", true},
		{"a", "zz", "p1", false},
		{"zz", "zz", "p1", false},
	}
	for _, tt := range tests {
		if got := m.IsReachable(tt.a, tt.b, tt.player); got != tt.want {
			t.Errorf("IsReachable(%s, %s, %s) = %v, want %v", tt.a, tt.b, tt.player, got, tt.want)
		}
	}
}

func TestRoutePoints(t *testing.T) {
	want := map[int]int{0: 0, 1: 1, 2: 2, 3: 4, 4: 7, 5: 10, 6: 15, 7: 0, 8: 23, 9: 0}
	for cost, pts := range want {
		if got := engine.RoutePoints(cost); got != pts {
			t.Errorf("RoutePoints(%d) = %d, want %d", cost, got, pts)
		}
	}
}

func TestRoutesOwnedBy(t *testing.T) {
	m := newTestMap(t, "a", "b", "c")
	mustRoute(t, m, "a", "b", 2, false, 0, engine.ColorNone)
	mustRoute(t, m, "b", "c", 3, false, 0, engine.ColorNone)
	m.ClaimRoute("a", "b", "p1")

	owned := m.RoutesOwnedBy("p1")
	if len(owned) != 1 || owned[0].CityA != "a" {
		t.Fatalf("unexpected routes for p1: %+v", owned)
	}
	if len(m.RoutesOwnedBy("")) != 0 {
		t.Error("empty player id should own nothing")
	}
	if got := m.Cities(); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("Cities() = %v", got)
	}
}
