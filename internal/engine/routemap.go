package engine

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// routePoints maps a route's train cost to the points it scores.
var routePoints = map[int]int{
	1: 1,
	2: 2,
	3: 4,
	4: 7,
	5: 10,
	6: 15,
	8: 23,
}

// RoutePoints returns the score for claiming a route of the given cost.
// Costs missing from the table score 0.
func RoutePoints(cost int) int {
	return routePoints[cost]
}

// Route is an undirected edge between two cities. Owner is empty until the
// route is claimed and never changes afterwards.
type Route struct {
	ID      int    `json:"id"`
	CityA   string `json:"city_a"`
	CityB   string `json:"city_b"`
	Cost    int    `json:"cost"`
	Tunnel  bool   `json:"tunnel"`
	Ferries int    `json:"ferries"`
	Color   Color  `json:"color"`
	Owner   string `json:"owner,omitempty"`
}

// Claimed reports whether the route has an owner.
func (r Route) Claimed() bool { return r.Owner != "" }

// Points returns the route's score value.
func (r Route) Points() int { return RoutePoints(r.Cost) }

// Other returns the endpoint opposite city.
func (r Route) Other(city string) string {
	if normalizeCity(city) == r.CityA {
		return r.CityB
	}
	return r.CityA
}

func (r Route) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s (%d %s", r.CityA, r.CityB, r.Cost, r.Color.DisplayName())
	if r.Tunnel {
		b.WriteString(", tunnel")
	}
	if r.Ferries > 0 {
		fmt.Fprintf(&b, ", %d ferry", r.Ferries)
	}
	b.WriteString(")")
	if r.Owner != "" {
		fmt.Fprintf(&b, " owned by %s", r.Owner)
	}
	return b.String()
}

// RouteMap is the board: cities and the routes between them. It owns all
// claim state.
type RouteMap struct {
	mu        sync.RWMutex
	cities    map[string]struct{}
	routes    []*Route
	adjacency map[string][]int
}

// NewRouteMap creates an empty map.
func NewRouteMap() *RouteMap {
	return &RouteMap{
		cities:    make(map[string]struct{}),
		adjacency: make(map[string][]int),
	}
}

func normalizeCity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AddCity registers a city. Names are trimmed and lower-cased; adding an
// existing city does nothing.
func (m *RouteMap) AddCity(name string) error {
	key := normalizeCity(name)
	if key == "" {
		return fmt.Errorf("%w: empty city name", ErrValidation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities[key] = struct{}{}
	return nil
}

// AddRoute adds an unclaimed route and returns its ID. ColorNone means the
// claimer picks the color.
func (m *RouteMap) AddRoute(cityA, cityB string, cost int, tunnel bool, ferries int, color Color) (int, error) {
	a, b := normalizeCity(cityA), normalizeCity(cityB)
	switch {
	case cost <= 0:
		return 0, fmt.Errorf("%w: route %s-%s cost %d must be positive", ErrValidation, a, b, cost)
	case ferries < 0 || ferries >= cost:
		return 0, fmt.Errorf("%w: route %s-%s ferry count %d must be in [0,%d)", ErrValidation, a, b, ferries, cost)
	case a == b:
		return 0, fmt.Errorf("%w: route %s-%s connects a city to itself", ErrValidation, a, b)
	case color.IsWild() || color > ColorMulticolor || color < ColorNone:
		return 0, fmt.Errorf("%w: route %s-%s has invalid color %d", ErrValidation, a, b, color)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range []string{a, b} {
		if _, ok := m.cities[c]; !ok {
			return 0, fmt.Errorf("%w: unknown city %q", ErrValidation, c)
		}
	}

	id := len(m.routes)
	m.routes = append(m.routes, &Route{
		ID:      id,
		CityA:   a,
		CityB:   b,
		Cost:    cost,
		Tunnel:  tunnel,
		Ferries: ferries,
		Color:   color,
	})
	m.adjacency[a] = append(m.adjacency[a], id)
	m.adjacency[b] = append(m.adjacency[b], id)
	return id, nil
}

// HasCity reports whether the city is on the map.
func (m *RouteMap) HasCity(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cities[normalizeCity(name)]
	return ok
}

// CityCount returns the number of cities.
func (m *RouteMap) CityCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cities)
}

// Cities returns all city names in sorted order.
func (m *RouteMap) Cities() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.cities))
	for c := range m.cities {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Routes returns a snapshot of every route in insertion order.
func (m *RouteMap) Routes() []Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Route, len(m.routes))
	for i, r := range m.routes {
		out[i] = *r
	}
	return out
}

// Route returns the route with the given ID.
func (m *RouteMap) Route(id int) (Route, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 0 || id >= len(m.routes) {
		return Route{}, false
	}
	return *m.routes[id], true
}

// FindRoute returns the first route added between two cities, checking both
// directions.
func (m *RouteMap) FindRoute(cityA, cityB string) (Route, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	between := m.betweenLocked(cityA, cityB)
	if len(between) == 0 {
		return Route{}, false
	}
	return *between[0], true
}

// FindRoutes returns every route between two cities, parallel routes included.
func (m *RouteMap) FindRoutes(cityA, cityB string) []Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	between := m.betweenLocked(cityA, cityB)
	out := make([]Route, len(between))
	for i, r := range between {
		out[i] = *r
	}
	return out
}

func (m *RouteMap) betweenLocked(cityA, cityB string) []*Route {
	a, b := normalizeCity(cityA), normalizeCity(cityB)
	var out []*Route
	for _, id := range m.adjacency[a] {
		r := m.routes[id]
		if (r.CityA == a && r.CityB == b) || (r.CityA == b && r.CityB == a) {
			out = append(out, r)
		}
	}
	return out
}

// ClaimRoute claims the first unclaimed route between two cities. It returns
// false if there is no such route.
func (m *RouteMap) ClaimRoute(cityA, cityB, playerID string) bool {
	if playerID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.betweenLocked(cityA, cityB) {
		if r.Owner == "" {
			r.Owner = playerID
			return true
		}
	}
	return false
}

// ClaimRouteID claims one specific route. The check and the write are a
// single step: of any number of concurrent callers at most one succeeds.
func (m *RouteMap) ClaimRouteID(id int, playerID string) bool {
	if playerID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 0 || id >= len(m.routes) || m.routes[id].Owner != "" {
		return false
	}
	m.routes[id].Owner = playerID
	return true
}

// RouteOwner returns the owner of the route between two cities. With parallel
// routes the first claimed one is reported.
func (m *RouteMap) RouteOwner(cityA, cityB string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	between := m.betweenLocked(cityA, cityB)
	if len(between) == 0 {
		return "", false
	}
	for _, r := range between {
		if r.Owner != "" {
			return r.Owner, true
		}
	}
	return "", true
}

// RoutesOwnedBy returns the routes claimed by a player.
func (m *RouteMap) RoutesOwnedBy(playerID string) []Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Route
	for _, r := range m.routes {
		if r.Owner != "" && r.Owner == playerID {
			out = append(out, *r)
		}
	}
	return out
}

// IsReachable reports whether the player's claimed routes connect two cities.
// A city always reaches itself.
func (m *RouteMap) IsReachable(cityA, cityB, playerID string) bool {
	a, b := normalizeCity(cityA), normalizeCity(cityB)
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.cities[a]; !ok {
		return false
	}
	if _, ok := m.cities[b]; !ok {
		return false
	}
	if a == b {
		return true
	}
	if playerID == "" {
		return false
	}

	visited := map[string]bool{a: true}
	queue := []string{a}
	for len(queue) > 0 {
		city := queue[0]
		queue = queue[1:]
		for _, id := range m.adjacency[city] {
			r := m.routes[id]
			if r.Owner != playerID {
				continue
			}
			next := r.CityB
			if next == city {
				next = r.CityA
			}
			if next == b {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
