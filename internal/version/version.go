/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides build version information.
package version

import "fmt"

// Version is the current version of Bragi CMS.
// This is set at build time via ldflags:
//
//	-X github.com/friendsincode/bragi_cms/internal/version.Version=X.Y.Z
var Version = "0.3.0"

// Commit is the git commit the binary was built from, set via ldflags.
var Commit = ""

// String renders the version with the short commit when available.
func String() string {
	if Commit == "" {
		return Version
	}
	short := Commit
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s (%s)", Version, short)
}
