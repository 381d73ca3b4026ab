package binary

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrUnsupportedPlatform is reported when the host operating system has no
// published sstart release. The run aborts before any side effect happens.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Platform carries the operating system and cpu architecture labels used in
// release artifact names. Only darwin and linux are published; the labels
// follow the Os_Arch archive naming convention (Darwin, Linux, amd64, arm64).
type Platform struct {
	Os   string
	Arch string
}

// ResolvePlatform maps runtime identifiers to release artifact labels.
// Any operating system other than darwin or linux fails with
// [ErrUnsupportedPlatform]. 64-bit x86 identifiers normalize to amd64 and
// arm64-class identifiers to arm64; anything else passes through unchanged,
// best effort, even though it may not correspond to a published artifact.
func ResolvePlatform(goos, goarch string) (Platform, error) {
	var osname string
	switch goos {
	case "darwin":
		osname = "Darwin"
	case "linux":
		osname = "Linux"
	default:
		return Platform{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}

	arch := goarch
	switch goarch {
	case "amd64", "x86_64", "x64":
		arch = "amd64"
	case "arm64", "aarch64":
		arch = "arm64"
	}

	return Platform{Os: osname, Arch: arch}, nil
}

// NormalizeVersion ensures the version carries the v prefix used by release
// tags. Already prefixed versions are returned unchanged, so normalization
// is idempotent.
func NormalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// IsValidVersion reports whether version is a well formed semantic version,
// with or without the v prefix.
func IsValidVersion(version string) bool {
	return semver.IsValid(NormalizeVersion(version))
}
