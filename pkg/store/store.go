// Package store persists sequences.
//
// Two backends implement [Store]:
//   - file: one JSON file per sequence, for the CLI
//   - mongo: a MongoDB collection, for API deployments
//
// Stores assign an id to sequences saved without one. Ids are validated
// with [errors.ValidateSequenceID] so they are safe as file names and keys.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/errors"
)

// ErrNotFound is returned when a sequence id is unknown.
var ErrNotFound = errors.New(errors.ErrCodeSequenceNotFound, "sequence not found")

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

// Store saves and loads sequences by id.
type Store interface {
	// Put saves seq, replacing any sequence with the same id, and returns
	// the id it was saved under.
	Put(ctx context.Context, seq pictograph.Sequence) (string, error)

	// Get returns the sequence with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (pictograph.Sequence, error)

	// List returns summaries of all stored sequences, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a sequence. Deleting an unknown id returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close(ctx context.Context) error
}

// Summary describes a stored sequence without its beats.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Word      string    `json:"word,omitempty" bson:"word,omitempty"`
	Author    string    `json:"author,omitempty" bson:"author,omitempty"`
	Beats     int       `json:"beats" bson:"beat_count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// prepare assigns an id when seq has none and validates it otherwise.
func prepare(seq pictograph.Sequence) (pictograph.Sequence, error) {
	if seq.ID == "" {
		seq.ID = uuid.NewString()
		return seq, nil
	}
	if err := errors.ValidateSequenceID(seq.ID); err != nil {
		return seq, err
	}
	return seq, nil
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string
	Mongo   MongoOptions
}

// Open returns the store named by opts.Backend. An empty backend is file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		s, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := NewMongoStore(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (must be one of: file, mongo)", opts.Backend)
}
