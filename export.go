package step

import (
	"fmt"
	"io"
	"os"

	"github.com/sstart-io/sstart-step/envparse"
)

// WriteExports emits every variable as a NAME=value line on w.
// The core pipeline never mutates the process environment; injecting the
// variables into subsequent steps is the job of the hosting CI layer, which
// consumes this output.
func WriteExports(w io.Writer, vars []envparse.Var) error {
	for _, v := range vars {
		if _, err := fmt.Fprintf(w, "%s=%s\n", v.Name, v.Value); err != nil {
			return fmt.Errorf("failed to write exports: %w", err)
		}
	}

	return nil
}

// AppendExports appends every variable as a NAME=value line to the file at
// path, creating it when absent. This matches the env-file contract most CI
// systems use to carry variables into later steps.
func AppendExports(path string, vars []envparse.Var) (err error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open export file %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file %s: %w", path, cerr)
		}
	}()

	return WriteExports(file, vars)
}
