package sharefile

import (
	"context"
	"io"

	"github.com/mwantia/sharefile/api"
)

// Client is the remote API collaborator the adapter operates against.
// Implementations translate these calls into requests against the item
// graph; the adapter treats every returned error as opaque.
type Client interface {
	// GetItemByPath resolves an absolute remote path to its item.
	// Returns an error if no item exists at that path.
	GetItemByPath(ctx context.Context, path string) (*api.Item, error)

	// GetItemByID fetches an item by its opaque identifier.
	// When includeChildren is set, the direct children of a folder are
	// carried on Item.Children.
	GetItemByID(ctx context.Context, id string, includeChildren bool) (*api.Item, error)

	// CreateFolder creates a folder below the given parent item.
	CreateFolder(ctx context.Context, parentID, name string, overwrite bool) (*api.Item, error)

	// CopyItem copies an item into the target folder, keeping its name.
	// The remote primitive cannot rename while copying.
	CopyItem(ctx context.Context, targetFolderID, itemID string, overwrite bool) (*api.Item, error)

	// UpdateItem applies a partial update (rename, re-parent) to an item.
	UpdateItem(ctx context.Context, itemID string, patch api.ItemPatch) (*api.Item, error)

	// DeleteItem removes an item. Folders are removed with their subtree.
	DeleteItem(ctx context.Context, itemID string) error

	// GetItemContents downloads the full content of a file item.
	GetItemContents(ctx context.Context, itemID string) ([]byte, error)

	// GetItemDownloadURL returns a short-lived URL the file content can be
	// streamed from.
	GetItemDownloadURL(ctx context.Context, itemID string) (string, error)

	// UploadFile streams a new file (or overwrite) below the given parent.
	UploadFile(ctx context.Context, reader io.Reader, parentID, fileName string, overwrite bool) error
}
