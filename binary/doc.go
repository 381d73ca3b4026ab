// Package binary provisions the sstart release binary for the current run.
//
// At the core, a [Tool] is a specification indicating the binary name, the
// desired version and the release URL template pointing at where to obtain
// the platform specific archive from.
//
// Provisioning resolves the host platform into the labels used by release
// artifacts, downloads the archive following redirects through a bounded
// loop, hands extraction to the system tar utility, marks the binary
// executable and registers the install directory on the process PATH so the
// tool can be invoked by name afterwards.
//
// example usage
//
//	tool, err := binary.New(
//		"sstart", // name the binary will have after installation
//		"0.0.2",  // version that will be installed
//		"https://github.com/sstart-io/sstart/releases/download/{{.Version}}/{{.Name}}_{{.Os}}_{{.Arch}}.tar.gz",
//	)
//	if err != nil {
//		return err
//	}
//
//	// ensure the binary is present
//	// this will download and install it if necessary
//	if err := tool.Ensure(ctx); err != nil {
//		return fmt.Errorf("failed to provision sstart binary: %w", err)
//	}
package binary
