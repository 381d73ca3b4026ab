package step

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the fixed name the sstart binary reads its configuration
// from, relative to the directory it is invoked in.
const ConfigFileName = "sstart.yml"

// MaterializeConfig writes the caller supplied configuration text verbatim to
// [ConfigFileName] inside dir, overwriting any existing file at that path.
// The content is not validated here; a malformed configuration only surfaces
// when the tool itself rejects it.
func MaterializeConfig(dir, content string) error {
	path := filepath.Join(dir, ConfigFileName)

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write configuration to %s: %w", path, err)
	}

	return nil
}
