package game

import "errors"

// ErrMalformedRecord marks a single record that could not be decoded. Callers
// skip the record and keep going.
var ErrMalformedRecord = errors.New("malformed game record")
