package engine

// PublicViewData is the game state visible on the TV.
type PublicViewData struct {
	GameID          string             `json:"game_id"`
	Phase           string             `json:"phase"`
	Round           int                `json:"round"`
	CurrentPlayer   string             `json:"current_player,omitempty"`
	CurrentPlayerID string             `json:"current_player_id,omitempty"`
	Visible         []string           `json:"visible"` // "" for an empty slot
	DrawPile        int                `json:"draw_pile"`
	DiscardPile     int                `json:"discard_pile"`
	DestinationPile int                `json:"destination_pile"`
	Players         []PublicPlayerData `json:"players"`
	Routes          []Route            `json:"routes"`
	FinalRound      bool               `json:"final_round"`
	Scores          []ScoreEntry       `json:"scores,omitempty"`
}

type PublicPlayerData struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	Trains       int    `json:"trains"`
	HandSize     int    `json:"hand_size"`
	Destinations int    `json:"destinations"`
	Routes       int    `json:"routes"`
}

func (g *Game) PublicView() PublicViewData {
	pv := PublicViewData{
		GameID:          g.ID,
		Phase:           g.Phase.String(),
		Round:           g.Round,
		DrawPile:        g.Trains.DrawSize(),
		DiscardPile:     g.Trains.DiscardSize(),
		DestinationPile: g.Destinations.DrawSize(),
		Routes:          g.Routes.Routes(),
		FinalRound:      g.FinalRound,
		Scores:          g.Scores,
	}

	if g.Phase != PhaseLobby && g.Phase != PhaseSetup && g.Phase != PhaseGameOver {
		if p := g.CurrentPlayer(); p != nil {
			pv.CurrentPlayer = p.Name
			pv.CurrentPlayerID = p.ID
		}
	}

	for _, c := range g.Trains.Visible() {
		name := ""
		if c != nil {
			name = c.Color().String()
		}
		pv.Visible = append(pv.Visible, name)
	}

	for _, p := range g.Players {
		pv.Players = append(pv.Players, PublicPlayerData{
			ID:           p.ID,
			Name:         p.Name,
			Score:        p.Score(),
			Trains:       p.TrainsRemaining(),
			HandSize:     p.HandSize(),
			Destinations: len(p.destinations),
			Routes:       len(g.Routes.RoutesOwnedBy(p.ID)),
		})
	}

	return pv
}

// DestinationView describes a destination card to its holder. Connected is
// live; Completed only flips at final scoring.
type DestinationView struct {
	ID        string `json:"id"`
	City1     string `json:"city1"`
	City2     string `json:"city2"`
	Points    int    `json:"points"`
	Completed bool   `json:"completed"`
	Connected bool   `json:"connected"`
}

// PlayerViewData is the game state visible to one player.
type PlayerViewData struct {
	PublicViewData
	Hand          map[string]int    `json:"hand"`
	Destinations  []DestinationView `json:"destinations"`
	Offered       []DestinationView `json:"offered,omitempty"`
	KeepAtLeast   int               `json:"keep_at_least,omitempty"`
	IsMyTurn      bool              `json:"is_my_turn"`
	MustDrawAgain bool              `json:"must_draw_again"`
}

func (g *Game) ViewFor(playerID string) PlayerViewData {
	pv := PlayerViewData{
		PublicViewData: g.PublicView(),
		Hand:           make(map[string]int),
	}

	p := g.GetPlayer(playerID)
	if p == nil {
		return pv
	}

	for _, c := range CardColors() {
		if n := p.HandCount(c); n > 0 {
			pv.Hand[c.String()] = n
		}
	}
	for _, d := range p.destinations {
		pv.Destinations = append(pv.Destinations, g.destinationView(p, d))
	}

	if offer := g.offers[playerID]; len(offer) > 0 {
		for _, d := range offer {
			pv.Offered = append(pv.Offered, g.destinationView(p, d))
		}
		keep := g.Config.DestinationKeep
		if g.Phase == PhaseSetup {
			keep = g.Config.StartingKeep
		}
		pv.KeepAtLeast = min(keep, len(offer))
	}

	pv.IsMyTurn = pv.CurrentPlayerID == playerID
	pv.MustDrawAgain = pv.IsMyTurn && g.Phase == PhaseDrawing
	return pv
}

func (g *Game) destinationView(p *Player, d *DestinationCard) DestinationView {
	return DestinationView{
		ID:        d.ID(),
		City1:     d.City1(),
		City2:     d.City2(),
		Points:    d.Points(),
		Completed: d.Completed(),
		Connected: g.Routes.IsReachable(d.City1(), d.City2(), p.ID),
	}
}
