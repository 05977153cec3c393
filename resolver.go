package sharefile

import (
	"context"
	"fmt"

	"github.com/mwantia/sharefile/api"
	"go.uber.org/zap"
)

// absolutePath builds the remote path for a virtual path by applying the
// configured root prefix. The result always carries a leading slash.
func (fs *FileSystem) absolutePath(path string) string {
	return "/" + joinPath(fs.prefix, path)
}

// resolveItem maps a virtual path to its remote item. Any remote failure
// collapses to ErrNotFound, as do items of a type other than file or
// folder; errors never propagate past this boundary in another shape.
func (fs *FileSystem) resolveItem(ctx context.Context, path string) (*api.Item, error) {
	absolute := fs.absolutePath(path)

	item, err := fs.client.GetItemByPath(ctx, absolute)
	if err != nil {
		fs.log.Debug("item resolution failed",
			zap.String("path", absolute),
			zap.Error(err))
		return nil, fmt.Errorf("%w: '%s': %w", ErrNotFound, path, err)
	}

	if !item.IsFile() && !item.IsFolder() {
		return nil, fmt.Errorf("%w: '%s': unknown item type '%s'", ErrNotFound, path, item.OData)
	}

	return item, nil
}
