// Package sharefile adapts a ShareFile-style remote item graph to a
// path-based virtual filesystem surface. Items are identified by opaque
// IDs and organized as a tree of folders and files with per-folder
// capability flags; the adapter resolves virtual paths to items, enforces
// the capability flags before mutating operations and reconciles folder
// and file records into a uniform metadata record.
//
// The adapter keeps no state across calls beyond its configuration; every
// operation re-resolves the paths it touches.
package sharefile

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// FileSystem is the filesystem adapter. All operations are safe for
// concurrent use since no mutable state is shared between calls.
type FileSystem struct {
	client   Client
	prefix   string
	details  bool
	download *http.Client
	log      *zap.Logger
}

// New creates a filesystem adapter on top of the given remote client.
func New(client Client, opts ...Option) (*FileSystem, error) {
	if client == nil {
		return nil, errors.New("sharefile: client must not be nil")
	}

	fs := &FileSystem{
		client:   client,
		download: http.DefaultClient,
		log:      zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(fs); err != nil {
			return nil, err
		}
	}

	return fs, nil
}
