package progress

import (
	"context"

	"github.com/rs/zerolog"

	"wizkid-challenge/internal/domain"
)

// DefaultKey is the storage key of the progress document.
const DefaultKey = "wizkid.progress"

// Backend is a key-value store holding one JSON document per key.
// Put must replace the value in a single write.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store reads and writes the progress record through a Backend.
type Store struct {
	backend Backend
	key     string
	logger  zerolog.Logger
}

func NewStore(backend Backend, key string, logger zerolog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{backend: backend, key: key, logger: logger}
}

// Load returns the stored progress. A missing or malformed record reports
// found=false with zero progress; malformed records are logged, not returned as errors.
func (s *Store) Load(ctx context.Context) (domain.Progress, bool, error) {
	data, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return domain.Progress{}, false, &domain.PersistenceError{Op: "load", Key: s.key, Err: err}
	}
	if !found {
		return domain.Progress{}, false, nil
	}
	p, err := Decode(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("ignoring malformed progress record")
		return domain.Progress{}, false, nil
	}
	return p, true, nil
}

// Save overwrites the stored progress.
func (s *Store) Save(ctx context.Context, p domain.Progress) error {
	data, err := Encode(p)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: s.key, Err: err}
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return &domain.PersistenceError{Op: "save", Key: s.key, Err: err}
	}
	return nil
}
