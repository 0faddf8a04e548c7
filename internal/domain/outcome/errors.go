package outcome

import "errors"

// ErrAmbiguousAttribution is returned when the queried username matches
// neither side of a game, or both.
var ErrAmbiguousAttribution = errors.New("ambiguous attribution")
