package binary

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/fatih/color"
)

// extract unpacks a tar.gz archive into destination by delegating to the
// system tar utility; decompression is deliberately not reimplemented here.
// The archive file is left in place on failure so it can be inspected.
func extract(ctx context.Context, archive, destination string) (err error) {
	logdetail(fmt.Sprintf("extracting %s", archive))

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	cmd := exec.CommandContext(ctx, "tar", "-xzf", archive, "-C", destination)

	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(out); len(msg) > 0 {
			return fmt.Errorf("failed to extract %s: %w: %s", archive, err, msg)
		}
		return fmt.Errorf("failed to extract %s: %w", archive, err)
	}

	return nil
}
