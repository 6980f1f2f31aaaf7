// Package version exposes build identity for the CLI.
package version

import "runtime/debug"

const name = "diapason"

// Name returns the binary name.
func Name() string {
	return name
}

// Version returns the module version embedded by the toolchain, or
// "devel" for an untagged build.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "devel"
	}

	return info.Main.Version
}

// Commit returns the VCS revision embedded by the toolchain, shortened
// to twelve characters, or "unknown" when built outside a checkout.
func Commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			rev := setting.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}

			return rev
		}
	}

	return "unknown"
}
