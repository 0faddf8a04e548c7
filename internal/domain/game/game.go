// Package game defines the canonical game record and the ingestion step
// that resolves the two upstream record shapes into it.
package game

// TimeClass is the speed category reported by the archive.
type TimeClass string

// Known time classes.
const (
	Bullet TimeClass = "bullet"
	Blitz  TimeClass = "blitz"
	Rapid  TimeClass = "rapid"
	Daily  TimeClass = "daily"
)

// Result is a per-side outcome token such as "win", "checkmated" or "stalemate".
type Result string

// Outcome tokens emitted by the archive service.
const (
	ResultWin                Result = "win"
	ResultCheckmated         Result = "checkmated"
	ResultResigned           Result = "resigned"
	ResultTimeout            Result = "timeout"
	ResultAbandoned          Result = "abandoned"
	ResultLose               Result = "lose"
	ResultAgreed             Result = "agreed"
	ResultRepetition         Result = "repetition"
	ResultStalemate          Result = "stalemate"
	ResultInsufficient       Result = "insufficient"
	ResultFiftyMove          Result = "50move"
	ResultTimeVsInsufficient Result = "timevsinsufficient"
)

const defaultRules = "chess"

// Game is the canonical, shape-independent record of one finished game.
// Field names match the JSON exposed to API callers.
type Game struct {
	URL           string    `json:"url"`
	PGN           string    `json:"pgn"`
	TimeControl   string    `json:"time_control"`
	EndTime       int64     `json:"end_time"`
	Rated         bool      `json:"rated"`
	TimeClass     TimeClass `json:"time_class"`
	Rules         string    `json:"rules"`
	WhiteUsername string    `json:"white_username"`
	WhiteRating   int       `json:"white_rating"`
	WhiteResult   Result    `json:"white_result"`
	BlackUsername string    `json:"black_username"`
	BlackRating   int       `json:"black_rating"`
	BlackResult   Result    `json:"black_result"`
	ECO           string    `json:"eco,omitempty"`
}
