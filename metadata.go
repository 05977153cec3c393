package sharefile

import (
	"context"
	"io"
	"time"

	"github.com/mwantia/sharefile/api"
	"go.uber.org/zap"
)

// Metadata type values.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// Metadata is the uniform record every operation reports. Contents and
// Stream are set only by the operations that produce them; a Timestamp of
// zero means the remote item carried no usable date.
type Metadata struct {
	Timestamp int64
	Path      string
	Mimetype  string
	Dirname   string
	Extension string
	Filename  string
	Basename  string
	Type      string
	Size      int64
	Contents  []byte
	Stream    io.ReadCloser
	Item      *api.Item
}

// mapItem converts a remote item into a metadata record. The record's path
// is the base path joined with the item's file name.
func (fs *FileSystem) mapItem(item *api.Item, basePath string, contents []byte, stream io.ReadCloser) *Metadata {
	path := joinPath(basePath, item.FileName)
	info := splitPath(path)

	md := &Metadata{
		Timestamp: itemTimestamp(item),
		Path:      path,
		Dirname:   info.Dirname,
		Extension: info.Extension,
		Filename:  info.Filename,
		Basename:  info.Basename,
		Size:      item.FileSizeBytes,
	}

	if item.IsFolder() {
		md.Type = TypeDir
		md.Mimetype = DirectoryMimeType
	} else {
		md.Type = TypeFile
		md.Mimetype = detectMimeType(path, contents)
	}

	if len(contents) > 0 {
		md.Contents = contents
	}
	if stream != nil {
		md.Stream = stream
	}
	if fs.details {
		md.Item = item
	}

	return md
}

// mapList converts a single level of child items, skipping unknown types.
func (fs *FileSystem) mapList(items []*api.Item, basePath string) []*Metadata {
	records := make([]*Metadata, 0, len(items))
	for _, item := range items {
		if !item.IsFile() && !item.IsFolder() {
			continue
		}
		records = append(records, fs.mapItem(item, basePath, nil, nil))
	}

	return records
}

// listFrame is one pending folder expansion during directory listing.
type listFrame struct {
	item *api.Item
	base string
}

// buildItemList expands a folder into metadata records. Expansion uses an
// explicit worklist instead of call-stack recursion so pathological tree
// depths cannot exhaust the stack. Parents precede their descendants and
// siblings keep the order returned by the remote API.
func (fs *FileSystem) buildItemList(ctx context.Context, item *api.Item, basePath string, recursive bool) ([]*Metadata, error) {
	if !item.IsFolder() {
		return []*Metadata{}, nil
	}

	records := make([]*Metadata, 0)
	worklist := []listFrame{{item: item, base: normalizePath(basePath)}}

	for first := true; len(worklist) > 0; first = false {
		frame := worklist[0]
		worklist = worklist[1:]

		parent, err := fs.client.GetItemByID(ctx, frame.item.ID, true)
		if err != nil {
			if first {
				return nil, err
			}

			// A subtree that fails to resolve mid-listing is skipped,
			// mirroring the per-item resolution rule.
			fs.log.Debug("skipping unresolved subtree",
				zap.String("path", frame.base),
				zap.Error(err))
			continue
		}

		records = append(records, fs.mapList(parent.Children, frame.base)...)

		expanded := make([]listFrame, 0)
		if recursive {
			for _, child := range parent.Children {
				if child.IsFolder() {
					expanded = append(expanded, listFrame{
						item: child,
						base: joinPath(frame.base, child.FileName),
					})
				}
			}
		}

		// Depth-first: finish the first child's subtree before its siblings.
		worklist = append(expanded, worklist...)
	}

	return records, nil
}

// Timestamp layouts the remote API has been observed to emit.
var itemTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// itemTimestamp picks the item's modification time by source priority:
// client-modified, client-created, creation, progeny edit. Returns zero
// when no candidate parses.
func itemTimestamp(item *api.Item) int64 {
	candidates := []string{
		item.ClientModifiedDate,
		item.ClientCreatedDate,
		item.CreationDate,
		item.ProgenyEditDate,
	}

	for _, raw := range candidates {
		if raw == "" {
			continue
		}

		for _, layout := range itemTimeLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed.Unix()
			}
		}
	}

	return 0
}
