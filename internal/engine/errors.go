package engine

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrRouteNotFound      = errors.New("route not found")
	ErrRouteClaimed       = errors.New("route already claimed")
	ErrColorMismatch      = errors.New("color does not match route")
	ErrInsufficientCards  = errors.New("not enough cards")
	ErrInsufficientTrains = errors.New("not enough trains")
	ErrEmptySupply        = errors.New("supply is empty")

	ErrNotYourTurn    = errors.New("not your turn")
	ErrInvalidAction  = errors.New("invalid action")
	ErrPlayerNotFound = errors.New("player not found")
	ErrWrongPhase     = errors.New("wrong phase for this action")
)
