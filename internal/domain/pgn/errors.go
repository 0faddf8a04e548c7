package pgn

import "errors"

// ErrUndecodable is returned when the move text cannot be replayed.
var ErrUndecodable = errors.New("undecodable pgn")
