package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrIndexOutOfRange indicates a display index outside a result set or the station catalog
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrSearchTransport indicates the archive could not be queried or its answer parsed
	ErrSearchTransport = errors.New("archive search failed")

	// ErrPlayback indicates the media player refused a load or play
	ErrPlayback = errors.New("playback failed")

	// ErrDuplicateStation indicates two catalog entries share a display name
	ErrDuplicateStation = errors.New("duplicate station name")

	// ErrUnknownStation indicates a station name matches nothing in the catalog
	ErrUnknownStation = errors.New("unknown station")
)

// IndexOutOfRangeError carries the rejected 1-based index and the valid upper bound
type IndexOutOfRangeError struct {
	Index int
	Max   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range: must be at most %d", e.Index, e.Max)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }
