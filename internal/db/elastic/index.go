package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/transcripts/internal/db"
)

// analyzers maps an index language to a built-in Elasticsearch analyzer.
var analyzers = map[string]string{
	"chinese": "cjk",
	"english": "english",
}

// CreateIndex creates an index whose mapping is derived from def.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	body, err := buildMapping(def)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	res, err := s.es.Indices.Create(def.Name,
		s.es.Indices.Create.WithContext(ctx),
		s.es.Indices.Create.WithBody(bytes.NewReader(raw)),
	)
	if err != nil {
		return &db.Error{Op: db.OpESCreateIndex, Err: err}
	}
	defer drain(res)
	if res.IsError() {
		return responseError(db.OpESCreateIndex, res)
	}
	return nil
}

// DropIndex deletes an index by name.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	res, err := s.es.Indices.Delete([]string{name}, s.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpESDeleteIndex, Err: err}
	}
	defer drain(res)
	if res.IsError() {
		return responseError(db.OpESDeleteIndex, res)
	}
	return nil
}

// IndexExists checks the index with a HEAD request; 404 means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := s.es.Indices.Exists([]string{name}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, &db.Error{Op: db.OpESIndexExists, Err: err}
	}
	defer drain(res)
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &db.Error{Op: db.OpESIndexExists, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
}

func buildMapping(idx *db.IndexDefinition) (map[string]any, error) {
	if idx.Name == "" {
		return nil, errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	analyzer := analyzers[idx.Language]
	props := make(map[string]any, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		prop, err := buildProperty(f, analyzer)
		if err != nil {
			return nil, err
		}
		props[f.Name] = prop
	}
	return map[string]any{"mappings": map[string]any{"properties": props}}, nil
}

func buildProperty(f *db.IndexField, analyzer string) (map[string]any, error) {
	switch f.Type {
	case db.IndexFieldText:
		prop := map[string]any{"type": "text"}
		if analyzer != "" {
			prop["analyzer"] = analyzer
		}
		return prop, nil
	case db.IndexFieldNumeric:
		return map[string]any{"type": "long"}, nil
	default:
		return nil, errors.New("unknown field type")
	}
}
