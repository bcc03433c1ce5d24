//go:build !unix

package cleaner

import "io/fs"

func isPrivileged() bool { return false }

// isWritableBy cannot check ownership without unix stat; removal errors
// surface per item instead.
func isWritableBy(path string, info fs.FileInfo) bool { return true }
