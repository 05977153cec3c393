package sharefile

import (
	"context"
	"fmt"

	"github.com/mwantia/sharefile/api"
)

// Capability names a single permission flag on a folder's access controls.
type Capability string

// Capabilities recognized by the remote item graph. Files carry no flags
// of their own; checks against a file are evaluated on its parent folder.
const (
	CapabilityAddFolder             Capability = "CanAddFolder"
	CapabilityAddNode               Capability = "CanAddNode"
	CapabilityView                  Capability = "CanView"
	CapabilityDownload              Capability = "CanDownload"
	CapabilityUpload                Capability = "CanUpload"
	CapabilitySend                  Capability = "CanSend"
	CapabilityDeleteCurrentItem     Capability = "CanDeleteCurrentItem"
	CapabilityDeleteChildItems      Capability = "CanDeleteChildItems"
	CapabilityManagePermissions     Capability = "CanManagePermissions"
	CapabilityCreateOfficeDocuments Capability = "CanCreateOfficeDocuments"
)

// authorize verifies the capability on the item and returns ErrDenied when
// it is missing or unset. For files the check moves to the parent folder,
// where CanDeleteCurrentItem remaps to CanDeleteChildItems because the
// remote model has no per-file flags.
func (fs *FileSystem) authorize(ctx context.Context, item *api.Item, capability Capability) error {
	target := item

	if item.IsFile() {
		if item.Parent == nil || item.Parent.ID == "" {
			return fmt.Errorf("%w: file '%s' has no parent to evaluate '%s' on",
				ErrDenied, item.FileName, capability)
		}

		parent, err := fs.client.GetItemByID(ctx, item.Parent.ID, false)
		if err != nil {
			return fmt.Errorf("%w: parent lookup for '%s': %w", ErrDenied, item.FileName, err)
		}

		if capability == CapabilityDeleteCurrentItem {
			capability = CapabilityDeleteChildItems
		}
		target = parent
	}

	if !target.Info.Can(string(capability)) {
		return fmt.Errorf("%w: '%s' requires '%s'", ErrDenied, item.FileName, capability)
	}

	return nil
}
