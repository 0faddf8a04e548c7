package archive

import "errors"

var (
	// ErrUserNotFound is returned when the archive service has no such player.
	ErrUserNotFound = errors.New("user not found")
	// ErrUpstream covers every other failed archive request.
	ErrUpstream = errors.New("upstream error")
	// ErrNoArchives is returned when the player exists but has never played.
	ErrNoArchives = errors.New("no archives")
)
