package stats

import "errors"

// ErrEmptyGameSet is returned instead of computing percentages over zero games.
var ErrEmptyGameSet = errors.New("no games to analyze")
