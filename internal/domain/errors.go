package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been started.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrPlayerNotFound is returned when a submission names an unknown player.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrCatalogNotFound indicates the sign catalog could not be loaded.
	ErrCatalogNotFound = errors.New("sign catalog not found")
	// ErrNoContent indicates the catalog was empty; the session is terminal.
	ErrNoContent = errors.New("no signs available")
	// ErrSessionOver is returned for submissions after game over.
	ErrSessionOver = errors.New("session is over")
	// ErrRoundTransition is returned when a submission arrives while the
	// engine is advancing between rounds.
	ErrRoundTransition = errors.New("round transition in progress")
	// ErrWrongMode is returned when an operation does not apply to the
	// session's current mode.
	ErrWrongMode = errors.New("operation not valid in current mode")
)
