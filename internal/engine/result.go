package engine

// RouteBuildResult reports the outcome of Player.BuildRoute. Rule violations
// leave Success false and set Err; nothing about the player or map changed.
type RouteBuildResult struct {
	Success         bool  `json:"success"`
	Err             error `json:"-"`
	Route           Route `json:"route"`
	PointsEarned    int   `json:"points_earned"`
	TrainsRemaining int   `json:"trains_remaining"`
	TunnelSurcharge int   `json:"tunnel_surcharge"`
	CardsSpent      int   `json:"cards_spent"`
}
