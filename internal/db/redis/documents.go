package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/transcripts/internal/db"
)

// PutDocuments stores documents as hashes in a single DoMulti round-trip.
// The index picks them up through its key prefix, so index is unused.
func (s *Store) PutDocuments(ctx context.Context, _ string, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("document id is required")
		}
		cmd := s.b().Hset().Key(s.prefix + d.ID).FieldValue()
		for k, v := range d.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		cmds = append(cmds, cmd.Build())
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", s.prefix+docs[i].ID, err)}
		}
	}
	return nil
}
