package commands

import (
	"context"
	"fmt"
	"ytcomments/internal/output"
	"ytcomments/internal/publish"
)

const storeBatchSize = 100

// sink fans every downloaded record out to the output file and, when
// configured, to the database and the message bus.
type sink[T any] struct {
	writer    *output.Writer[T]
	save      func(ctx context.Context, batch []T) error
	batch     []T
	publisher *publish.Publisher
	subject   string
}

func (s *sink[T]) flushBatch(ctx context.Context) error {
	if s.save == nil || len(s.batch) == 0 {
		return nil
	}
	err := s.save(ctx, s.batch)
	if err != nil {
		return fmt.Errorf("store batch: %w", err)
	}
	s.batch = s.batch[:0]
	return nil
}

func (s *sink[T]) Write(ctx context.Context, record T) error {
	err := s.writer.Write(record)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if s.publisher != nil {
		err = s.publisher.Publish(ctx, s.subject, record)
		if err != nil {
			return err
		}
	}
	if s.save != nil {
		s.batch = append(s.batch, record)
		if len(s.batch) >= storeBatchSize {
			return s.flushBatch(ctx)
		}
	}
	return nil
}

func (s *sink[T]) Count() int {
	return s.writer.Count()
}

// Close stores what is left of the current batch and finishes the output
// file. It runs on its own context so an interrupted download still keeps
// what was fetched.
func (s *sink[T]) Close(ctx context.Context) error {
	err := s.flushBatch(ctx)
	if err != nil {
		return err
	}
	if s.publisher != nil {
		err = s.publisher.Flush(ctx)
		if err != nil {
			return fmt.Errorf("flush nats: %w", err)
		}
	}
	return s.writer.Close()
}
