// Package pgn derives short summaries from PGN move text.
package pgn

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	commentRe      = regexp.MustCompile(`\{[^}]*\}`)
	tagPairRe      = regexp.MustCompile(`\[[^\]]*\]`)
	variationRe    = regexp.MustCompile(`\([^()]*\)`)
	continuationRe = regexp.MustCompile(`\d+\.\.\.`)
	nagRe          = regexp.MustCompile(`\$\d+`)
	resultRe       = regexp.MustCompile(`(?:^|\s)(?:1-0|0-1|1/2-1/2|\*)(?:\s|$)`)
	moveNumberRe   = regexp.MustCompile(`(\d+)\.`)
	// "<n>. <move> [<reply>]" where the reply never starts with a digit so
	// it cannot swallow the next move number.
	numberedMoveRe = regexp.MustCompile(`(\d+)\.\s*([^\s\d]\S*)(?:\s+([^\s\d]\S*))?`)
)

// movetext strips comments, tag pairs, variations, NAGs, black continuation
// markers ("12...") and result tokens, leaving numbered moves.
func movetext(text string) string {
	text = commentRe.ReplaceAllString(text, " ")
	text = tagPairRe.ReplaceAllString(text, " ")
	for variationRe.MatchString(text) {
		text = variationRe.ReplaceAllString(text, " ")
	}
	text = continuationRe.ReplaceAllString(text, " ")
	text = nagRe.ReplaceAllString(text, " ")
	text = resultRe.ReplaceAllString(text, " ")
	return text
}

// MoveCount returns the highest move number in text, or 0 when there is none.
func MoveCount(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	highest := 0
	for _, m := range moveNumberRe.FindAllStringSubmatch(movetext(text), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest
}

// TailMoves returns the last n numbered moves ("12. Qxf7+ Kd8") joined by
// single spaces, or every move when fewer than n exist.
func TailMoves(text string, n int) string {
	if n <= 0 {
		return ""
	}
	tokens := numberedMoves(text)
	if len(tokens) > n {
		tokens = tokens[len(tokens)-n:]
	}
	return strings.Join(tokens, " ")
}

// Movetext returns every numbered move of text, stripped of annotations.
func Movetext(text string) string {
	return strings.Join(numberedMoves(text), " ")
}

func numberedMoves(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	matches := numberedMoveRe.FindAllStringSubmatch(movetext(text), -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		token := m[1] + ". " + m[2]
		if m[3] != "" {
			token += " " + m[3]
		}
		tokens = append(tokens, token)
	}
	return tokens
}
