// Package constants holds filesystem permission modes shared by every
// component that writes to disk.
package constants

import "os"

const (
	// DefaultFilePermissions (rw-r--r--) applies to queue snapshots,
	// downloaded audio files, and log files.
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions (rwxr-xr-x) applies to download directories
	// created on demand.
	DefaultFolderPermissions os.FileMode = 0o755
)
