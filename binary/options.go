package binary

import (
	"fmt"
	"path/filepath"
)

type Option func(t *Tool)

// WithVersionProbe allows customizing the command that is run to check the
// installed version of the binary. The format string should contain a single
// `%s` placeholder that will be replaced with the binary's command path.
//
// This is useful for binaries that don't support the `--version` flag.
//
// If the format string is SkipVersionProbe, the check is disabled and every
// run reinstalls the tool.
func WithVersionProbe(format string) Option {
	return func(t *Tool) {
		if format == SkipVersionProbe {
			t.probecmd = SkipVersionProbe
			return
		}

		t.probecmd = fmt.Sprintf(format, t.cmdpath)
	}
}

// WithInstallDir overrides the default ./bin install directory.
func WithInstallDir(dir string) Option {
	return func(t *Tool) {
		t.directory = dir
		t.cmdpath = filepath.Join(dir, t.name)

		t.template.Directory = t.directory
		t.template.Cmd = t.cmdpath

		if t.probecmd != SkipVersionProbe {
			t.probecmd = fmt.Sprintf("%s --version", t.cmdpath)
		}
	}
}
