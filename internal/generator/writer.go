package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/fedfinger/internal/domain"
	"github.com/vanshika/fedfinger/internal/identity"
)

// WriteSeed serializes identities into a seed file whose format follows the
// path extension (.yaml, .yml, .json or .jsonc).
func WriteSeed(identities []domain.Identity, path string) error {
	data, err := identity.EncodeSeed(identities, filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
