package sharefile

import (
	"net/http"

	"go.uber.org/zap"
)

type Option func(*FileSystem) error

// WithRootPrefix scopes the adapter to a subtree of the remote item graph.
// The prefix is prepended to every virtual path before resolution.
func WithRootPrefix(prefix string) Option {
	return func(fs *FileSystem) error {
		fs.prefix = normalizePath(prefix)
		return nil
	}
}

// WithItemDetails includes the raw remote item on every metadata record.
func WithItemDetails() Option {
	return func(fs *FileSystem) error {
		fs.details = true
		return nil
	}
}

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(fs *FileSystem) error {
		fs.log = logger
		return nil
	}
}

// WithDownloadClient sets the HTTP client used to open content streams
// against remote download URLs.
func WithDownloadClient(client *http.Client) Option {
	return func(fs *FileSystem) error {
		fs.download = client
		return nil
	}
}
