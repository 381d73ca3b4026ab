package binary

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// SkipVersionProbe disables the installed-version check.
const SkipVersionProbe = ""

// Tool describes the external binary provisioned for one pipeline run.
type Tool struct {
	name      string
	version   string
	directory string
	cmdpath   string

	urlformat string
	probecmd  string

	template Template
}

// New builds the tool specification for the current host.
// The version must be a well formed semantic version; it is normalized to the
// v-prefixed form used by release tags. Platform resolution happens here, so
// an unsupported host fails the run before any side effect is performed.
func New(name, version, urlformat string, options ...Option) (*Tool, error) {
	if version == "" {
		return nil, fmt.Errorf("version must be set")
	}
	if !IsValidVersion(version) {
		return nil, fmt.Errorf("invalid version %q", version)
	}

	platform, err := ResolvePlatform(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeVersion(version)

	binDir := filepath.FromSlash("./bin")
	cmdFullPath := filepath.Join(binDir, name)

	tool := Tool{
		name:      name,
		version:   normalized,
		directory: binDir,
		cmdpath:   cmdFullPath,

		urlformat: urlformat,
		probecmd:  fmt.Sprintf("%s --version", cmdFullPath),
	}

	tool.template = Template{
		Os:   platform.Os,
		Arch: platform.Arch,

		Directory:   tool.directory,
		Name:        name,
		Cmd:         tool.cmdpath,
		Version:     normalized,
		BareVersion: strings.TrimPrefix(normalized, "v"),
	}

	for _, opt := range options {
		opt(&tool)
	}

	return &tool, nil
}

// Name of the binary as installed.
func (t *Tool) Name() string {
	return t.name
}

// BinPath is the qualified path to the installed binary.
func (t *Tool) BinPath() string {
	return t.template.Cmd
}

// URL resolves the release URL for this tool and host. Pure; identical
// inputs always yield the identical string.
func (t *Tool) URL() (string, error) {
	return t.template.Resolve(t.urlformat)
}

// Ensure makes the tool available, installing it unless the expected version
// is already present. Either way the install directory ends up registered on
// the process PATH.
func (t *Tool) Ensure(ctx context.Context) error {
	if t.installed() && t.expectedVersion() {
		return t.RegisterPath()
	}
	return t.Install(ctx)
}

// Install downloads the release archive for the current platform, extracts
// it, marks the binary executable and registers the install directory on the
// process PATH. The archive is deleted once extraction succeeds.
func (t *Tool) Install(ctx context.Context) error {
	logstep(fmt.Sprintf("installing %s %s", t.name, t.version))

	if err := os.MkdirAll(t.directory, 0o755); err != nil {
		return fmt.Errorf("failed to create destination folder %s: %w", t.directory, err)
	}

	url, err := t.URL()
	if err != nil {
		return fmt.Errorf("failed to resolve URL: %w", err)
	}

	archive := filepath.Join(t.directory, filepath.Base(url))

	if err := download(ctx, url, archive); err != nil {
		return err
	}

	if err := extract(ctx, archive, t.directory); err != nil {
		return err
	}

	_ = os.Remove(archive)

	if err := os.Chmod(t.cmdpath, 0o755); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", t.cmdpath, err)
	}

	return t.RegisterPath()
}

// RegisterPath appends the install directory to the process PATH so the tool
// resolves by name, both for the in-process runner and for anything the step
// spawns afterwards.
func (t *Tool) RegisterPath() error {
	abs, err := filepath.Abs(t.directory)
	if err != nil {
		return fmt.Errorf("failed to resolve dir %s: %w", t.directory, err)
	}

	return os.Setenv("PATH", os.Getenv("PATH")+string(os.PathListSeparator)+abs)
}

// installed returns true if the binary is present on disk.
func (t *Tool) installed() bool {
	_, err := os.Stat(t.cmdpath)
	return err == nil
}

// expectedVersion returns true if the installed binary reports the expected
// version. With the probe disabled there is no way to tell, so it returns
// false and a fresh install happens.
func (t *Tool) expectedVersion() bool {
	if t.probecmd == SkipVersionProbe {
		return false
	}

	args := strings.Split(t.probecmd, " ")

	logdetail(fmt.Sprintf("running %v looking for %s", args, t.template.BareVersion))
	out, err := exec.Command(args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return false
	}

	return bytes.Contains(out, []byte(t.template.BareVersion))
}
