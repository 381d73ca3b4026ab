package binary

import (
	"strings"
	"text/template"
)

// Template contains fields used to resolve the release URL for a tool.
// It includes the platform labels, the binary location details and both
// version forms, since some artifact naming conventions embed the bare
// version while release tags carry the v prefix.
type Template struct {
	// Os is the operating system label used in artifact names (e.g. "Darwin")
	Os string
	// Arch is the architecture label used in artifact names (e.g. "amd64")
	Arch string

	// Directory where the binary is installed
	Directory string
	// Name of the binary
	Name string
	// Cmd is the qualified path to the installed binary
	Cmd string
	// Version is the v-prefixed release tag (e.g. "v0.0.2")
	Version string
	// BareVersion is Version without the v prefix (e.g. "0.0.2")
	BareVersion string
}

// Resolve executes the provided format string as a template with the
// Template's fields. Resolution is pure; no network or filesystem access
// happens here.
func (t Template) Resolve(format string) (string, error) {
	tmpl, err := template.New("bin").Parse(format)
	if err != nil {
		return "", err
	}

	var bld strings.Builder
	if err := tmpl.Execute(&bld, t); err != nil {
		return "", err
	}

	return bld.String(), nil
}

// MustResolve executes the provided format string as a template with the
// Template's fields. Panics if the template can't be resolved correctly.
func (t Template) MustResolve(format string) string {
	resolved, err := t.Resolve(format)
	if err != nil {
		panic(err)
	}
	return resolved
}
