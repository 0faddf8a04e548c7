// Package dedupe drops repeated games from caller-supplied batches.
package dedupe

import (
	"strings"

	"github.com/okian/chesscoach/internal/domain/game"
)

// Set records seen game URLs. The zero value is ready to use; it is not safe
// for concurrent use.
type Set struct {
	seen map[string]struct{}
}

// SeenAndRecord reports whether id was already recorded and records it if not.
// Empty ids are never considered seen.
func (s *Set) SeenAndRecord(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return true
	}
	s.seen[id] = struct{}{}
	return false
}

// Size returns the number of recorded ids.
func (s *Set) Size() int { return len(s.seen) }

// ByURL keeps the first game for each non-empty URL, preserving order.
// Games without a URL are kept as-is.
func ByURL(games []game.Game) []game.Game {
	var s Set
	out := make([]game.Game, 0, len(games))
	for _, g := range games {
		if s.SeenAndRecord(g.URL) {
			continue
		}
		out = append(out, g)
	}
	return out
}
