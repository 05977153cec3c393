package api

// Item type identifiers as reported by the remote API in the odata.type field.
const (
	ItemTypeFile   = "ShareFile.Api.Models.File"
	ItemTypeFolder = "ShareFile.Api.Models.Folder"
)

// Item is a single entry in the remote item graph. Depending on the request
// that produced it, optional fields such as Info or Children may be absent.
type Item struct {
	OData              string         `json:"odata.type"`
	ID                 string         `json:"Id"`
	FileName           string         `json:"FileName"`
	FileSizeBytes      int64          `json:"FileSizeBytes"`
	CreationDate       string         `json:"CreationDate,omitempty"`
	ClientCreatedDate  string         `json:"ClientCreatedDate,omitempty"`
	ClientModifiedDate string         `json:"ClientModifiedDate,omitempty"`
	ProgenyEditDate    string         `json:"ProgenyEditDate,omitempty"`
	Parent             *ItemRef       `json:"Parent,omitempty"`
	Info               AccessControls `json:"Info,omitempty"`
	Children           []*Item        `json:"Children,omitempty"`
}

// IsFile reports whether the item is a regular file.
func (it *Item) IsFile() bool {
	return it.OData == ItemTypeFile
}

// IsFolder reports whether the item is a folder.
func (it *Item) IsFolder() bool {
	return it.OData == ItemTypeFolder
}

// ItemRef is a minimal reference to another item, used for parent links
// and for re-parenting updates.
type ItemRef struct {
	ID string `json:"Id"`
}

// AccessControls maps capability flag names to their granted state.
// Only folders carry flags; a missing key means the capability is denied.
type AccessControls map[string]bool

// Can reports whether the named capability is granted.
func (ac AccessControls) Can(name string) bool {
	return ac[name]
}

// ItemPatch describes a partial item update. Zero-valued fields are
// omitted from the request body.
type ItemPatch struct {
	Name     string   `json:"Name,omitempty"`
	FileName string   `json:"FileName,omitempty"`
	Parent   *ItemRef `json:"Parent,omitempty"`
}

// DownloadSpecification is returned when requesting a download without
// redirect; DownloadURL points at the actual content endpoint.
type DownloadSpecification struct {
	DownloadURL string `json:"DownloadUrl"`
}

// UploadSpecification is returned by the upload negotiation step.
// The file body is sent to ChunkURI in a second request.
type UploadSpecification struct {
	ChunkURI string `json:"ChunkUri"`
}
