package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketStreams = []byte("streams")

// streamEntry is the stored form of a resolved playlist
type streamEntry struct {
	URI        string    `json:"uri"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// StreamStore caches playlist URL -> stream URI resolutions in BoltDB, with
// an in-memory layer in front of it.
type StreamStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	cache map[string]streamEntry
	now   func() time.Time
}

// NewStreamStore opens (or creates) the cache database at path.
// An empty path keeps everything in memory.
func NewStreamStore(path string) (*StreamStore, error) {
	s := &StreamStore{cache: make(map[string]streamEntry), now: time.Now}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketStreams)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func (s *StreamStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StreamURI returns the cached stream URI for a playlist URL
func (s *StreamStore) StreamURI(playlistURL string) (string, bool) {
	s.mu.RLock()
	if e, ok := s.cache[playlistURL]; ok {
		s.mu.RUnlock()
		return e.URI, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return "", false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketStreams).Get([]byte(playlistURL)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return "", false
	}

	var e streamEntry
	if err := json.Unmarshal(data, &e); err != nil || e.URI == "" {
		return "", false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[playlistURL] = e
	s.mu.Unlock()

	return e.URI, true
}

// SaveStreamURI records the stream URI a playlist URL resolved to
func (s *StreamStore) SaveStreamURI(playlistURL, uri string) error {
	e := streamEntry{URI: uri, ResolvedAt: s.now().UTC()}

	s.mu.Lock()
	s.cache[playlistURL] = e
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketStreams).Put([]byte(playlistURL), data)
	})
}

// Prune drops entries resolved before cutoff and returns how many were removed
func (s *StreamStore) Prune(cutoff time.Time) (int, error) {
	removed := 0

	s.mu.Lock()
	for k, e := range s.cache {
		if e.ResolvedAt.Before(cutoff) {
			delete(s.cache, k)
			removed++
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return removed, nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketStreams)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var e streamEntry
			if json.Unmarshal(v, &e) != nil || e.ResolvedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}
