package service

import (
	"errors"
)

// Domain errors surfaced synchronously to administrative callers. These are
// never retried automatically; checked with errors.Is.
var (
	// ErrNotFound indicates a referenced club, player or match does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or write-write race violation,
	// e.g. a duplicate club name within a guild
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransfer indicates a structurally invalid transfer, such as
	// a negative fee or a destination equal to the player's current club
	ErrInvalidTransfer = errors.New("invalid transfer")

	// ErrInsufficientFunds indicates the destination club cannot cover the fee
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidMatch indicates a structurally invalid match, such as a club
	// scheduled against itself
	ErrInvalidMatch = errors.New("invalid match")

	// ErrInvalidAmount indicates a negative budget or player value
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidName indicates an empty club or player name
	ErrInvalidName = errors.New("invalid name")
)
