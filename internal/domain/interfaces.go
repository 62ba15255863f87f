package domain

import (
	"context"
	"io"
)

// SearchClient queries the broadcast archive.
// Results are returned in the archive's relevance order.
type SearchClient interface {
	Search(ctx context.Context, query string, stations []Station) ([]Broadcast, error)
}

// MediaPlayer is the playback engine. SetURI must not start playback and Play
// must tolerate being called with no URI set.
type MediaPlayer interface {
	SetURI(uri string) error
	Play() error
	Pause() error
	Stop() error
}

// Terminal is the blocking, unbuffered character source of the session.
// ReadRune returns one raw character per call, control characters included;
// ReadLine returns one line of free text without its terminator.
type Terminal interface {
	io.RuneReader
	ReadLine() (string, error)
}
