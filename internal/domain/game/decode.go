package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Shape identifies which upstream layout a raw record uses.
type Shape int

const (
	// ShapeNested has white/black sub-objects (raw archive payloads).
	ShapeNested Shape = iota
	// ShapeFlat has white_*/black_* keys at the top level (canonical payloads).
	ShapeFlat
)

func (s Shape) String() string {
	if s == ShapeFlat {
		return "flat"
	}
	return "nested"
}

// flatMarker is the key whose presence selects the flat layout.
const flatMarker = "white_username"

type player struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   Result `json:"result"`
}

type common struct {
	URL         string    `json:"url"`
	PGN         string    `json:"pgn"`
	TimeControl string    `json:"time_control"`
	EndTime     int64     `json:"end_time"`
	Rated       bool      `json:"rated"`
	TimeClass   TimeClass `json:"time_class"`
	Rules       *string   `json:"rules"`
	ECO         *string   `json:"eco"`
}

type nestedRecord struct {
	common
	White *player `json:"white"`
	Black *player `json:"black"`
}

type flatRecord struct {
	common
	WhiteUsername string `json:"white_username"`
	WhiteRating   int    `json:"white_rating"`
	WhiteResult   Result `json:"white_result"`
	BlackUsername string `json:"black_username"`
	BlackRating   int    `json:"black_rating"`
	BlackResult   Result `json:"black_result"`
}

// DetectShape reports the layout of raw. Anything that is not a JSON object
// is malformed.
func DetectShape(raw json.RawMessage) (Shape, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if keys == nil {
		return 0, fmt.Errorf("%w: not an object", ErrMalformedRecord)
	}
	if _, ok := keys[flatMarker]; ok {
		return ShapeFlat, nil
	}
	return ShapeNested, nil
}

// Decode normalizes one raw record of either shape. Missing keys take their
// zero value ("", 0, false) and rules defaults to "chess". Values of the
// wrong JSON type or negative ratings make the record malformed.
func Decode(raw json.RawMessage) (Game, error) {
	shape, err := DetectShape(raw)
	if err != nil {
		return Game{}, err
	}

	var g Game
	switch shape {
	case ShapeFlat:
		var rec flatRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return Game{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		g = rec.common.canonical()
		g.WhiteUsername, g.WhiteRating, g.WhiteResult = rec.WhiteUsername, rec.WhiteRating, rec.WhiteResult
		g.BlackUsername, g.BlackRating, g.BlackResult = rec.BlackUsername, rec.BlackRating, rec.BlackResult
	default:
		var rec nestedRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return Game{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		g = rec.common.canonical()
		if rec.White != nil {
			g.WhiteUsername, g.WhiteRating, g.WhiteResult = rec.White.Username, rec.White.Rating, rec.White.Result
		}
		if rec.Black != nil {
			g.BlackUsername, g.BlackRating, g.BlackResult = rec.Black.Username, rec.Black.Rating, rec.Black.Result
		}
	}

	if g.WhiteRating < 0 || g.BlackRating < 0 {
		return Game{}, fmt.Errorf("%w: negative rating", ErrMalformedRecord)
	}
	return g, nil
}

func (c common) canonical() Game {
	g := Game{
		URL:         c.URL,
		PGN:         c.PGN,
		TimeControl: c.TimeControl,
		EndTime:     c.EndTime,
		Rated:       c.Rated,
		TimeClass:   c.TimeClass,
		Rules:       defaultRules,
	}
	if c.Rules != nil {
		g.Rules = *c.Rules
	}
	if c.ECO != nil {
		g.ECO = *c.ECO
	}
	return g
}

// SkipFunc receives the index and error of every record dropped by Collect.
type SkipFunc func(index int, raw json.RawMessage, err error)

// Collect decodes every record, routing failures to skip and keeping the
// survivors in input order.
func Collect(raws []json.RawMessage, skip SkipFunc) []Game {
	games := make([]Game, 0, len(raws))
	for i, raw := range raws {
		g, err := Decode(bytes.TrimSpace(raw))
		if err != nil {
			if skip != nil {
				skip(i, raw, err)
			}
			continue
		}
		games = append(games, g)
	}
	return games
}
