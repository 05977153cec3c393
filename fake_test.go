package sharefile

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mwantia/sharefile/api"
	"github.com/tidwall/btree"
)

// Interface guard for the real client implementation.
var _ Client = (*api.Client)(nil)

var _ Client = (*fakeClient)(nil)

var errFakeNotFound = fmt.Errorf("fake: item not found")

// fakeItem pairs a wire item with its content bytes.
type fakeItem struct {
	item     *api.Item
	contents []byte
}

// fakeClient is an in-memory item graph keyed by normalized path. The
// btree keeps listings in a stable lexicographic order, which stands in
// for the remote API's sibling order.
type fakeClient struct {
	mu     sync.Mutex
	items  *btree.Map[string, *fakeItem]
	nextID int

	copyCalls   int
	uploadCalls int

	// streamURL, when set, is handed out verbatim with an id query
	// parameter appended; tests back it with an httptest server.
	streamURL string

	// deleteIgnored makes DeleteItem succeed without removing anything,
	// to exercise post-condition checks.
	deleteIgnored bool
}

func newFakeClient() *fakeClient {
	fc := &fakeClient{
		items:  btree.NewMap[string, *fakeItem](0),
		nextID: 1,
	}

	fc.items.Set("", &fakeItem{item: &api.Item{
		OData:    api.ItemTypeFolder,
		ID:       fc.genID(),
		FileName: "root",
		Info:     allCapabilities(),
	}})

	return fc
}

func (fc *fakeClient) genID() string {
	id := fmt.Sprintf("id-%d", fc.nextID)
	fc.nextID++
	return id
}

func allCapabilities() api.AccessControls {
	caps := api.AccessControls{}
	for _, name := range []Capability{
		CapabilityAddFolder, CapabilityAddNode, CapabilityView,
		CapabilityDownload, CapabilityUpload, CapabilitySend,
		CapabilityDeleteCurrentItem, CapabilityDeleteChildItems,
		CapabilityManagePermissions, CapabilityCreateOfficeDocuments,
	} {
		caps[string(name)] = true
	}
	return caps
}

func fakeKey(path string) string {
	path = strings.Trim(path, "/")
	if path == "." {
		return ""
	}
	return path
}

func parentKey(key string) string {
	idx := strings.LastIndex(key, "/")
	if idx < 0 {
		return ""
	}
	return key[:idx]
}

func baseName(key string) string {
	idx := strings.LastIndex(key, "/")
	return key[idx+1:]
}

// addFolder creates a folder at path with the given capabilities for test
// setup. Intermediate directories must already exist.
func (fc *fakeClient) addFolder(path string, caps api.AccessControls) *api.Item {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	key := fakeKey(path)
	parent, ok := fc.items.Get(parentKey(key))
	if !ok {
		panic("fake: missing parent for " + path)
	}

	item := &api.Item{
		OData:    api.ItemTypeFolder,
		ID:       fc.genID(),
		FileName: baseName(key),
		Parent:   &api.ItemRef{ID: parent.item.ID},
		Info:     caps,
	}
	fc.items.Set(key, &fakeItem{item: item})

	return item
}

// addFile creates a file at path for test setup.
func (fc *fakeClient) addFile(path string, contents []byte) *api.Item {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	return fc.putFile(fakeKey(path), contents)
}

func (fc *fakeClient) putFile(key string, contents []byte) *api.Item {
	parent, ok := fc.items.Get(parentKey(key))
	if !ok {
		panic("fake: missing parent for " + key)
	}

	item := &api.Item{
		OData:              api.ItemTypeFile,
		ID:                 fc.genID(),
		FileName:           baseName(key),
		FileSizeBytes:      int64(len(contents)),
		ClientModifiedDate: time.Now().UTC().Format(time.RFC3339),
		Parent:             &api.ItemRef{ID: parent.item.ID},
	}
	fc.items.Set(key, &fakeItem{item: item, contents: contents})

	return item
}

func (fc *fakeClient) lookupByID(id string) (string, *fakeItem, bool) {
	var foundKey string
	var found *fakeItem

	fc.items.Scan(func(key string, fi *fakeItem) bool {
		if fi.item.ID == id {
			foundKey, found = key, fi
			return false
		}
		return true
	})

	return foundKey, found, found != nil
}

func (fc *fakeClient) childrenOf(key string) []*api.Item {
	prefix := key
	if prefix != "" {
		prefix += "/"
	}

	var children []*api.Item
	fc.items.Scan(func(k string, fi *fakeItem) bool {
		if k == key || !strings.HasPrefix(k, prefix) {
			return true
		}
		if strings.Contains(k[len(prefix):], "/") {
			return true
		}
		children = append(children, fi.item)
		return true
	})

	return children
}

func (fc *fakeClient) GetItemByPath(ctx context.Context, path string) (*api.Item, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fi, ok := fc.items.Get(fakeKey(path))
	if !ok {
		return nil, errFakeNotFound
	}

	return fi.item, nil
}

func (fc *fakeClient) GetItemByID(ctx context.Context, id string, includeChildren bool) (*api.Item, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	key, fi, ok := fc.lookupByID(id)
	if !ok {
		return nil, errFakeNotFound
	}

	if !includeChildren {
		return fi.item, nil
	}

	expanded := *fi.item
	expanded.Children = fc.childrenOf(key)

	return &expanded, nil
}

func (fc *fakeClient) CreateFolder(ctx context.Context, parentID, name string, overwrite bool) (*api.Item, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	parentDir, parent, ok := fc.lookupByID(parentID)
	if !ok {
		return nil, errFakeNotFound
	}

	key := name
	if parentDir != "" {
		key = parentDir + "/" + name
	}

	if _, exists := fc.items.Get(key); exists && !overwrite {
		return nil, fmt.Errorf("fake: folder already exists")
	}

	item := &api.Item{
		OData:    api.ItemTypeFolder,
		ID:       fc.genID(),
		FileName: name,
		Parent:   &api.ItemRef{ID: parent.item.ID},
		Info:     allCapabilities(),
	}
	fc.items.Set(key, &fakeItem{item: item})

	return item, nil
}

func (fc *fakeClient) CopyItem(ctx context.Context, targetFolderID, itemID string, overwrite bool) (*api.Item, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.copyCalls++

	targetKey, target, ok := fc.lookupByID(targetFolderID)
	if !ok {
		return nil, errFakeNotFound
	}

	_, src, ok := fc.lookupByID(itemID)
	if !ok {
		return nil, errFakeNotFound
	}

	key := src.item.FileName
	if targetKey != "" {
		key = targetKey + "/" + src.item.FileName
	}

	copied := *src.item
	copied.ID = fc.genID()
	copied.Parent = &api.ItemRef{ID: target.item.ID}
	fc.items.Set(key, &fakeItem{item: &copied, contents: src.contents})

	return &copied, nil
}

func (fc *fakeClient) UpdateItem(ctx context.Context, itemID string, patch api.ItemPatch) (*api.Item, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	key, fi, ok := fc.lookupByID(itemID)
	if !ok {
		return nil, errFakeNotFound
	}

	dirKey := parentKey(key)
	if patch.Parent != nil {
		newDir, parent, ok := fc.lookupByID(patch.Parent.ID)
		if !ok {
			return nil, errFakeNotFound
		}
		dirKey = newDir
		fi.item.Parent = &api.ItemRef{ID: parent.item.ID}
	}

	name := fi.item.FileName
	if patch.FileName != "" {
		name = patch.FileName
	}

	newKey := name
	if dirKey != "" {
		newKey = dirKey + "/" + name
	}

	fi.item.FileName = name
	fc.items.Delete(key)
	fc.items.Set(newKey, fi)

	return fi.item, nil
}

func (fc *fakeClient) DeleteItem(ctx context.Context, itemID string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	key, fi, ok := fc.lookupByID(itemID)
	if !ok {
		return errFakeNotFound
	}

	if fc.deleteIgnored {
		return nil
	}

	if fi.item.IsFolder() {
		prefix := key + "/"
		var doomed []string
		fc.items.Scan(func(k string, _ *fakeItem) bool {
			if strings.HasPrefix(k, prefix) {
				doomed = append(doomed, k)
			}
			return true
		})
		for _, k := range doomed {
			fc.items.Delete(k)
		}
	}

	fc.items.Delete(key)
	return nil
}

func (fc *fakeClient) GetItemContents(ctx context.Context, itemID string) ([]byte, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	_, fi, ok := fc.lookupByID(itemID)
	if !ok {
		return nil, errFakeNotFound
	}
	if fi.item.IsFolder() {
		return nil, fmt.Errorf("fake: cannot download a folder")
	}

	return fi.contents, nil
}

func (fc *fakeClient) GetItemDownloadURL(ctx context.Context, itemID string) (string, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.streamURL == "" {
		return "", fmt.Errorf("fake: no stream endpoint configured")
	}
	if _, _, ok := fc.lookupByID(itemID); !ok {
		return "", errFakeNotFound
	}

	return fc.streamURL + "?id=" + itemID, nil
}

func (fc *fakeClient) UploadFile(ctx context.Context, reader io.Reader, parentID, fileName string, overwrite bool) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.uploadCalls++

	parentDir, _, ok := fc.lookupByID(parentID)
	if !ok {
		return errFakeNotFound
	}

	contents, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	key := fileName
	if parentDir != "" {
		key = parentDir + "/" + fileName
	}

	if _, exists := fc.items.Get(key); exists && !overwrite {
		return fmt.Errorf("fake: file already exists")
	}

	fc.putFile(key, contents)
	return nil
}
