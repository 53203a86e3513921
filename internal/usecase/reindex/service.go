// Package reindex copies transcripts from the relational store into the
// full-text engine.
package reindex

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
	"github.com/kailas-cloud/transcripts/internal/logger"
)

// DefaultBatchSize is the number of rows written per engine call.
const DefaultBatchSize = 500

// Service copies every relational row into the engine.
type Service struct {
	src       Source
	dst       Sink
	batchSize int
}

// New creates a reindex service.
func New(src Source, dst Sink) *Service {
	return &Service{src: src, dst: dst, batchSize: DefaultBatchSize}
}

// WithBatchSize configures the batch size.
func (s *Service) WithBatchSize(size int) *Service {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

// Run copies all rows and returns how many were written. It stops at the first
// failed batch.
func (s *Service) Run(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	written := 0
	err := s.src.Each(ctx, s.batchSize, func(items []result.Result) error {
		if err := s.dst.Put(ctx, items); err != nil {
			return fmt.Errorf("write batch at %d: %w", written, err)
		}
		written += len(items)
		log.Debug("reindex batch written", zap.Int("batch", len(items)), zap.Int("total", written))
		return nil
	})
	if err != nil {
		return written, err
	}
	log.Info("reindex complete", zap.Int("documents", written))
	return written, nil
}
