package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/transcripts/internal/db"
)

// PutDocuments indexes docs with one _bulk request.
func (s *Store) PutDocuments(ctx context.Context, index string, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}
	body, err := buildBulkBody(index, docs)
	if err != nil {
		return err
	}

	res, err := s.es.Bulk(bytes.NewReader(body),
		s.es.Bulk.WithContext(ctx),
		s.es.Bulk.WithIndex(index),
	)
	if err != nil {
		return &db.Error{Op: db.OpESBulk, Err: err}
	}
	defer drain(res)
	if res.IsError() {
		return responseError(db.OpESBulk, res)
	}

	var resp bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if resp.Errors {
		for _, item := range resp.Items {
			if r := item["index"]; r.Error != nil {
				return &db.Error{Op: db.OpESBulk, Err: fmt.Errorf("doc %s: %s: %s", r.ID, r.Error.Type, r.Error.Reason)}
			}
		}
		return &db.Error{Op: db.OpESBulk, Err: fmt.Errorf("bulk request reported errors")}
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID    string `json:"_id"`
		Error *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// buildBulkBody renders NDJSON index actions. Committees become a JSON
// array and the date a number, matching the index mapping.
func buildBulkBody(index string, docs []db.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("document id is required")
		}
		action := map[string]any{"index": map[string]string{"_index": index, "_id": d.ID}}
		if err := enc.Encode(action); err != nil {
			return nil, err
		}
		if err := enc.Encode(toSource(d.Fields)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func toSource(fields map[string]string) map[string]any {
	src := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case db.FieldCommittees:
			list := db.SplitList(v, db.ListSeparator)
			if list == nil {
				list = []string{}
			}
			src[k] = list
		case db.FieldDate:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				src[k] = n
				continue
			}
			src[k] = v
		default:
			src[k] = v
		}
	}
	return src
}
