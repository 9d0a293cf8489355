package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// SanitizeString removes control characters from user supplied text
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}

// SafeFilename strips path components and control characters from an
// uploaded filename so it can be used on the local filesystem.
func SafeFilename(name string) string {
	name = filepath.Base(SanitizeString(name))
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}

// FileExtension returns the lowercased extension without the leading
// dot, e.g. "pdf" for "claim.PDF"
func FileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
