package game

import "errors"

var (
	// ErrSessionFinished is returned by every mutation on a finished session.
	ErrSessionFinished = errors.New("session finished")
	// ErrUnknownDifficulty rejects tiers outside Easy/Medium/Hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrUnknownPowerUp rejects power-up kinds without a configuration.
	ErrUnknownPowerUp = errors.New("unknown power-up")
	// ErrInvalidTile rejects out-of-range or already selected tile indices.
	ErrInvalidTile = errors.New("invalid tile")
)
