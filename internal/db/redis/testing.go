package redis

import (
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/transcripts/internal/db"
)

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c, prefix: db.TranscriptPrefix}
}
