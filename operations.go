package sharefile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mwantia/sharefile/api"
	"go.uber.org/zap"
)

// Read fetches the file at path and returns its metadata with Contents set.
func (fs *FileSystem) Read(ctx context.Context, path string) (*Metadata, error) {
	item, err := fs.resolveItem(ctx, path)
	if err != nil {
		return nil, readFailed(path, err)
	}

	if err := fs.authorize(ctx, item, CapabilityDownload); err != nil {
		return nil, readFailed(path, err)
	}

	contents, err := fs.client.GetItemContents(ctx, item.ID)
	if err != nil {
		return nil, readFailed(path, err)
	}

	return fs.mapItem(item, dirOf(path), contents, nil), nil
}

// ReadStream opens the file at path for streaming and returns its metadata
// with Stream set. The caller owns the stream and must close it.
func (fs *FileSystem) ReadStream(ctx context.Context, path string) (*Metadata, error) {
	item, err := fs.resolveItem(ctx, path)
	if err != nil {
		return nil, readFailed(path, err)
	}

	if err := fs.authorize(ctx, item, CapabilityDownload); err != nil {
		return nil, readFailed(path, err)
	}

	url, err := fs.client.GetItemDownloadURL(ctx, item.ID)
	if err != nil {
		return nil, readFailed(path, err)
	}

	stream, err := fs.openStream(ctx, url)
	if err != nil {
		return nil, readFailed(path, err)
	}

	return fs.mapItem(item, dirOf(path), nil, stream), nil
}

// ListContents returns the entries below the given directory. A directory
// that does not resolve yields an empty list, not an error. With recursive
// set, subtrees are expanded parent-before-descendants.
func (fs *FileSystem) ListContents(ctx context.Context, directory string, recursive bool) ([]*Metadata, error) {
	item, err := fs.resolveItem(ctx, directory)
	if err != nil {
		return []*Metadata{}, nil
	}

	return fs.buildItemList(ctx, item, directory, recursive)
}

// GetMetadata returns the metadata record for the item at path. The root
// reports itself: its record carries the requested root path, not the
// remote root folder's own name.
func (fs *FileSystem) GetMetadata(ctx context.Context, path string) (*Metadata, error) {
	item, err := fs.resolveItem(ctx, path)
	if err != nil {
		return nil, err
	}

	if normalizePath(path) == "" {
		md := fs.mapItem(item, "", nil, nil)
		md.Path = ""
		md.Dirname = ""
		md.Extension = ""
		md.Filename = ""
		md.Basename = ""
		return md, nil
	}

	return fs.mapItem(item, dirOf(path), nil, nil), nil
}

// Has reports whether an item exists at path. All failure kinds collapse
// into false.
func (fs *FileSystem) Has(ctx context.Context, path string) bool {
	_, err := fs.resolveItem(ctx, path)
	return err == nil
}

// HasDir reports whether a folder exists at path, under the same
// boolean-swallowing contract as Has.
func (fs *FileSystem) HasDir(ctx context.Context, path string) bool {
	item, err := fs.resolveItem(ctx, path)
	return err == nil && item.IsFolder()
}

// GetSize returns the metadata record carrying the item's size.
func (fs *FileSystem) GetSize(ctx context.Context, path string) (*Metadata, error) {
	return fs.GetMetadata(ctx, path)
}

// GetMimetype returns the metadata record carrying the item's MIME type.
func (fs *FileSystem) GetMimetype(ctx context.Context, path string) (*Metadata, error) {
	return fs.GetMetadata(ctx, path)
}

// GetTimestamp returns the metadata record carrying the item's timestamp.
func (fs *FileSystem) GetTimestamp(ctx context.Context, path string) (*Metadata, error) {
	return fs.GetMetadata(ctx, path)
}

// Write stores contents at path, overwriting any existing file, and
// returns the confirmed metadata of the written item.
func (fs *FileSystem) Write(ctx context.Context, path string, contents []byte) (*Metadata, error) {
	return fs.WriteStream(ctx, path, bytes.NewReader(contents))
}

// WriteStream stores the reader's content at path, overwriting any
// existing file, and returns the confirmed metadata of the written item.
func (fs *FileSystem) WriteStream(ctx context.Context, path string, reader io.Reader) (*Metadata, error) {
	info := splitPath(normalizePath(path))

	parent, err := fs.resolveItem(ctx, info.Dirname)
	if err != nil {
		return nil, writeFailed(path, err)
	}

	if err := fs.authorize(ctx, parent, CapabilityUpload); err != nil {
		return nil, writeFailed(path, err)
	}

	if err := fs.client.UploadFile(ctx, reader, parent.ID, info.Filename, true); err != nil {
		return nil, writeFailed(path, err)
	}

	md, err := fs.GetMetadata(ctx, path)
	if err != nil {
		return nil, writeFailed(path, fmt.Errorf("%w: %w", ErrConfirmFailed, err))
	}

	fs.log.Debug("wrote item", zap.String("path", path), zap.Int64("size", md.Size))
	return md, nil
}

// Rename moves the source item to the new path through a remote item
// update. It keeps the legacy boolean contract: every failure kind,
// including access denial and remote errors, collapses into false.
func (fs *FileSystem) Rename(ctx context.Context, oldPath, newPath string) bool {
	target := splitPath(normalizePath(newPath))

	parent, err := fs.resolveItem(ctx, target.Dirname)
	if err != nil {
		return false
	}

	if err := fs.authorize(ctx, parent, CapabilityUpload); err != nil {
		return false
	}

	item, err := fs.resolveItem(ctx, oldPath)
	if err != nil {
		return false
	}

	_, err = fs.client.UpdateItem(ctx, item.ID, api.ItemPatch{
		Name:     target.Filename,
		FileName: target.Filename,
		Parent:   &api.ItemRef{ID: parent.ID},
	})
	if err != nil {
		return false
	}

	return fs.Has(ctx, newPath)
}

// Copy duplicates the source item at the destination path. When the
// directories differ and the base names match, the remote copy primitive
// handles it natively; every other shape is synthesized by downloading the
// source and re-uploading it under the destination name, since the remote
// primitive cannot rename while copying.
func (fs *FileSystem) Copy(ctx context.Context, src, dst string) error {
	if err := fs.copyTo(ctx, src, dst); err != nil {
		return copyFailed(src, dst, err)
	}

	return nil
}

// Move relocates the source item to the destination path by copying it
// there and deleting the original. A failed delete leaves the copy in
// place; there is no rollback.
func (fs *FileSystem) Move(ctx context.Context, src, dst string) error {
	if err := fs.copyTo(ctx, src, dst); err != nil {
		return moveFailed(src, dst, err)
	}

	if err := fs.removeItem(ctx, src); err != nil {
		return moveFailed(src, dst, err)
	}

	return nil
}

func (fs *FileSystem) copyTo(ctx context.Context, src, dst string) error {
	srcInfo := splitPath(normalizePath(src))
	dstInfo := splitPath(normalizePath(dst))

	parent, err := fs.resolveItem(ctx, dstInfo.Dirname)
	if err != nil {
		return err
	}

	if err := fs.authorize(ctx, parent, CapabilityUpload); err != nil {
		return err
	}

	item, err := fs.resolveItem(ctx, src)
	if err != nil {
		return err
	}

	if srcInfo.Dirname != dstInfo.Dirname && strings.EqualFold(srcInfo.Filename, dstInfo.Filename) {
		_, err := fs.client.CopyItem(ctx, parent.ID, item.ID, true)
		return err
	}

	contents, err := fs.client.GetItemContents(ctx, item.ID)
	if err != nil {
		return err
	}

	return fs.client.UploadFile(ctx, bytes.NewReader(contents), parent.ID, dstInfo.Filename, true)
}

// CreateDirectory creates a folder at path and returns its confirmed
// metadata.
func (fs *FileSystem) CreateDirectory(ctx context.Context, path string) (*Metadata, error) {
	info := splitPath(normalizePath(path))

	parent, err := fs.resolveItem(ctx, info.Dirname)
	if err != nil {
		return nil, writeFailed(path, err)
	}

	if err := fs.authorize(ctx, parent, CapabilityAddFolder); err != nil {
		return nil, writeFailed(path, err)
	}

	if _, err := fs.client.CreateFolder(ctx, parent.ID, info.Filename, true); err != nil {
		return nil, writeFailed(path, err)
	}

	md, err := fs.GetMetadata(ctx, path)
	if err != nil {
		return nil, writeFailed(path, fmt.Errorf("%w: %w", ErrConfirmFailed, err))
	}

	return md, nil
}

// CreateDir is the legacy boolean variant of CreateDirectory.
func (fs *FileSystem) CreateDir(ctx context.Context, path string) bool {
	_, err := fs.CreateDirectory(ctx, path)
	return err == nil
}

// Delete removes the item at path and confirms it no longer resolves.
func (fs *FileSystem) Delete(ctx context.Context, path string) error {
	if err := fs.removeItem(ctx, path); err != nil {
		return deleteFailed(path, err)
	}

	return nil
}

// DeleteDirectory removes the folder at path with its subtree and confirms
// it no longer resolves.
func (fs *FileSystem) DeleteDirectory(ctx context.Context, path string) error {
	return fs.Delete(ctx, path)
}

func (fs *FileSystem) removeItem(ctx context.Context, path string) error {
	item, err := fs.resolveItem(ctx, path)
	if err != nil {
		return err
	}

	if err := fs.authorize(ctx, item, CapabilityDeleteCurrentItem); err != nil {
		return err
	}

	if err := fs.client.DeleteItem(ctx, item.ID); err != nil {
		return err
	}

	if fs.Has(ctx, path) {
		return fmt.Errorf("%w: '%s' still exists after delete", ErrConfirmFailed, path)
	}

	return nil
}

// GetVisibility always fails; the remote item graph exposes no
// per-item visibility.
func (fs *FileSystem) GetVisibility(ctx context.Context, path string) (string, error) {
	return "", unsupported("visibility", path)
}

// SetVisibility always fails; the remote item graph exposes no
// per-item visibility.
func (fs *FileSystem) SetVisibility(ctx context.Context, path, visibility string) error {
	return unsupported("visibility", path)
}

// dirOf returns the directory component of a normalized virtual path.
func dirOf(path string) string {
	return splitPath(normalizePath(path)).Dirname
}

// openStream issues the GET against a download URL and hands the caller
// the response body. The caller is responsible for closing it.
func (fs *FileSystem) openStream(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := fs.download.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("sharefile: download returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}
