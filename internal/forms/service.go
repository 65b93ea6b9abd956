// Package forms is the form engine: it provisions storage for schemas,
// serves the directory of forms and their activation state, and validates
// and stores submissions. All persistence goes through a types.Store.
package forms

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// Service runs form operations against one store.
type Service struct {
	store       types.Store
	logger      *log.Logger
	now         func() time.Time
	concurrency int
	newID       func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger storage failures are reported to.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock that stamps submissions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithConcurrency bounds how many storage units directory enumeration
// inspects at once. Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New returns a Service over store.
func New(store types.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		logger:      log.New(io.Discard, "", 0),
		now:         time.Now,
		concurrency: types.DefaultConcurrency,
		newID:       newSchemaID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return s.storageError("ping", "", err)
	}
	return nil
}

// storageError logs a raw backend failure and returns it as
// ErrStorageUnavailable. Errors that already carry a kind pass through.
func (s *Service) storageError(op, identifier string, err error) error {
	var e *types.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Printf("%s %s: %v", op, identifier, err)
		return &types.Error{Kind: types.ErrStorageUnavailable, Op: op, Identifier: identifier, Message: err.Error()}
	}
	s.logger.Printf("%s %s: storage error: %v", op, identifier, err)
	return &types.Error{Kind: types.ErrStorageUnavailable, Op: op, Identifier: identifier}
}
