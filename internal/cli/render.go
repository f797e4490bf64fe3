package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"tickettoride/internal/engine"
)

func playerName(g *engine.Game, id string) string {
	if p := g.GetPlayer(id); p != nil {
		return p.Name
	}
	return id
}

func colorLabel(name string) string {
	if name == "" {
		return "-"
	}
	c, err := engine.ParseColor(name)
	if err != nil {
		return name
	}
	return c.DisplayName()
}

// describe turns an engine event into one line of output, or "" for events
// the prompt already makes obvious.
func describe(g *engine.Game, ev engine.Event) string {
	who := playerName(g, ev.Player)
	data, _ := ev.Data.(map[string]any)

	switch ev.Type {
	case engine.EventCardDrawn:
		if data["source"] == "visible" {
			return fmt.Sprintf("%s took a face-up %s.", who, colorLabel(fmt.Sprint(data["color"])))
		}
		return fmt.Sprintf("%s drew from the deck.", who)
	case engine.EventDestinationsKept:
		return fmt.Sprintf("%s kept %v destination(s), returned %v.", who, data["kept"], data["returned"])
	case engine.EventDestinationsOffer:
		return fmt.Sprintf("%s drew %v destination(s).", who, data["count"])
	case engine.EventTunnelReveal:
		cards, _ := data["cards"].([]string)
		labels := make([]string, len(cards))
		for i, name := range cards {
			labels[i] = colorLabel(name)
		}
		return fmt.Sprintf("Tunnel! Revealed %s: %v extra card(s) needed.", strings.Join(labels, ", "), data["surcharge"])
	case engine.EventRouteBuilt:
		res, ok := ev.Data.(engine.RouteBuildResult)
		if !ok {
			return ""
		}
		return fmt.Sprintf("%s claimed %s for %d point(s), %d train(s) left.",
			who, res.Route, res.PointsEarned, res.TrainsRemaining)
	case engine.EventBuildFailed:
		return fmt.Sprintf("%s could not pay for %v: %v. Turn over.", who, data["route"], data["reason"])
	case engine.EventFinalRound:
		return fmt.Sprintf("%s has %v train(s) left. Everyone gets one more turn!", who, data["trains"])
	case engine.EventDestinationScored:
		return fmt.Sprintf("%s completed destinations worth %v point(s).", who, data["points"])
	case engine.EventGameOver:
		return "Game over!"
	}
	return ""
}

func (c *CLI) printStatus(g *engine.Game, p *engine.Player) {
	view := g.PublicView()
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tSCORE\tTRAINS\tCARDS\tTICKETS\tROUTES\t")
	for _, pl := range view.Players {
		mark := ""
		if pl.ID == p.ID {
			mark = "*"
		}
		fmt.Fprintf(w, "%s%s\t%d\t%d\t%d\t%d\t%d\t\n", mark, pl.Name, pl.Score, pl.Trains, pl.HandSize, pl.Destinations, pl.Routes)
	}
	w.Flush()
	c.printf("Deck: %d  Discard: %d  Destinations: %d\n", view.DrawPile, view.DiscardPile, view.DestinationPile)
}

func (c *CLI) printVisible(g *engine.Game) {
	var b strings.Builder
	b.WriteString("Face up:")
	for i, name := range g.PublicView().Visible {
		fmt.Fprintf(&b, "  [%d] %s", i+1, colorLabel(name))
	}
	c.printf("%s\n", b.String())
}

func (c *CLI) printHand(g *engine.Game, p *engine.Player) {
	view := g.ViewFor(p.ID)
	c.printf("%s's hand:", p.Name)
	for _, col := range engine.CardColors() {
		if n := view.Hand[col.String()]; n > 0 {
			c.printf(" %s x%d", col.DisplayName(), n)
		}
	}
	c.printf("\n")
	for _, d := range view.Destinations {
		state := "open"
		if d.Connected {
			state = "connected"
		}
		c.printf("  ticket %s - %s (%d pts) %s\n", d.City1, d.City2, d.Points, state)
	}
}

func (c *CLI) printRoutes(g *engine.Game) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROUTE\tLEN\tCOLOR\tKIND\tOWNER\t")
	for _, r := range g.Routes.Routes() {
		kind := ""
		switch {
		case r.Tunnel:
			kind = "tunnel"
		case r.Ferries > 0:
			kind = fmt.Sprintf("ferry x%d", r.Ferries)
		}
		owner := ""
		if r.Claimed() {
			owner = playerName(g, r.Owner)
		}
		color := "any"
		if r.Color != engine.ColorNone {
			color = r.Color.DisplayName()
		}
		fmt.Fprintf(w, "%s - %s\t%d\t%s\t%s\t%s\t\n", r.CityA, r.CityB, r.Cost, color, kind, owner)
	}
	w.Flush()
}

func (c *CLI) printScores(g *engine.Game) {
	c.printf("\n=== Final scores ===\n")
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tROUTES\tTICKETS\tTOTAL\t")
	for _, s := range g.Scores {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t\n", s.PlayerName, s.RouteScore, s.DestinationScore, s.Total)
	}
	w.Flush()
	for _, s := range g.Scores {
		for _, d := range s.Incomplete {
			c.printf("  %s missed %s\n", s.PlayerName, d)
		}
	}
	if win := engine.Winner(g.Scores); win != nil {
		c.printf("Winner: %s with %d points!\n", win.PlayerName, win.Total)
	}
}
