package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/annavlsk/closetkeeper/internal/catalog"
	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/identity"
	"github.com/annavlsk/closetkeeper/internal/logging"
	"github.com/google/uuid"
)

// readFile is a seam for tests.
var readFile = os.ReadFile

// Ingestor reads a local image, optionally strips its background, and
// uploads it. Background stripping is best-effort: when the stripper fails,
// the original bytes are uploaded instead and the failure is only logged.
type Ingestor struct {
	storage  ObjectStorage
	stripper BackgroundStripper // nil disables stripping
	log      logging.Logger
}

func NewIngestor(storage ObjectStorage, stripper BackgroundStripper, log logging.Logger) *Ingestor {
	return &Ingestor{storage: storage, stripper: stripper, log: log}
}

// Ingest uploads the image at path for the owner's entry of the given kind
// and returns the durable URL to store on the entry.
func (i *Ingestor) Ingest(ctx context.Context, owner *identity.Principal, kind catalog.Kind, path string) (string, error) {
	if owner == nil || owner.ID == "" {
		return "", common.ErrUnauthenticated
	}

	data, err := readFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrImageRead, err)
	}

	if i.stripper != nil {
		stripped, err := i.stripper.Strip(ctx, data)
		if err != nil {
			i.log.Warn(ctx, "background removal failed, keeping original image", "error", err)
		} else {
			data = stripped
		}
	}

	key := storageKey(owner.ID, kind, path)
	url, err := i.storage.Put(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpload, err)
	}

	i.log.Debug(ctx, "image uploaded", "key", key)
	return url, nil
}

func storageKey(ownerID string, kind catalog.Kind, path string) string {
	return fmt.Sprintf("images/%s/%s/%s%s", ownerID, kind, uuid.New(), filepath.Ext(path))
}
