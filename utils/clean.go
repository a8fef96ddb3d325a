package utils

import (
	"regexp"
	"strings"
)

var unsafeName = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// CleanDirName replaces characters that are not allowed in file names.
func CleanDirName(input string) string {
	return strings.TrimSpace(unsafeName.ReplaceAllString(input, "_"))
}
