package filekeep

import (
	"strings"
	"unicode/utf8"
)

// IsValidFilename validates that a client supplied filename can be embedded in
// a storage key and a Content-Disposition header. It checks that the name:
//   - is not empty, "." or ".."
//   - contains no path separators (/ or \)
//   - is valid UTF-8
//   - contains no null bytes, control characters (< 0x20) or DEL (0x7f)
//
// Spaces, quotes and repeated dots are allowed.
func IsValidFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	if strings.ContainsAny(name, `/\`) {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}

	return true
}

// StorageKey derives the blob key of a file: "{ownerID}/{id}_{filename}".
func StorageKey(ownerID, id, filename string) string {
	return ownerID + "/" + id + "_" + filename
}
