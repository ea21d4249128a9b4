package board

import "errors"

var (
	// ErrInvalidGift is returned for gift events that cannot be applied:
	// a blank user name, a count below one or negative coins.
	ErrInvalidGift = errors.New("invalid gift event")

	// ErrInvalidName is returned when a manual add has a blank name.
	ErrInvalidName = errors.New("invalid player name")

	// ErrPlayerNotFound is returned by manual operations on unknown ids.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrNoFreeTile means a bonus could not be placed because every interior
	// tile is taken. It indicates a configuration that allows too many bonuses.
	ErrNoFreeTile = errors.New("no free tile for bonus")
)
