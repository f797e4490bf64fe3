package engine

// ScoreEntry holds scoring breakdown for one player.
type ScoreEntry struct {
	PlayerID         string   `json:"player_id"`
	PlayerName       string   `json:"player_name"`
	RouteScore       int      `json:"route_score"`
	DestinationScore int      `json:"destination_score"`
	Completed        []string `json:"completed,omitempty"`
	Incomplete       []string `json:"incomplete,omitempty"`
	Trains           int      `json:"trains"`
	Total            int      `json:"total"`
}

// CalculateScores checks every held destination and computes final scores.
// Incomplete destinations are listed but cost nothing.
func (g *Game) CalculateScores() []ScoreEntry {
	entries := make([]ScoreEntry, len(g.Players))

	for i, p := range g.Players {
		e := ScoreEntry{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Trains:     p.TrainsRemaining(),
		}

		for _, r := range g.Routes.RoutesOwnedBy(p.ID) {
			e.RouteScore += r.Points()
		}

		for _, d := range p.Destinations() {
			p.CheckDestinationCardCompleted(d)
			if d.Completed() {
				e.DestinationScore += d.Points()
				e.Completed = append(e.Completed, d.String())
			} else {
				e.Incomplete = append(e.Incomplete, d.String())
			}
		}

		e.Total = p.Score()
		entries[i] = e
	}

	return entries
}

// Winner returns the entry with the highest total. Ties go to the player with
// more completed destinations, then to the earlier seat.
func Winner(entries []ScoreEntry) *ScoreEntry {
	var best *ScoreEntry
	for i := range entries {
		e := &entries[i]
		if best == nil || e.Total > best.Total ||
			(e.Total == best.Total && len(e.Completed) > len(best.Completed)) {
			best = e
		}
	}
	return best
}
