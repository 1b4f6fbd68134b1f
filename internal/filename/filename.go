// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filename derives file-system-safe names from paper titles and
// parses the catalog index back out of downloaded filenames. The download
// and rename stages both depend on it, so names produced by one are always
// understood by the other.
package filename

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxLength is the longest sanitized title, in characters.
const MaxLength = 150

// Ext is the extension of every file the download and rename stages touch.
const Ext = ".pdf"

var illegal = strings.NewReplacer(
	`\`, "", "/", "", "*", "", "?", "", ":", "",
	`"`, "", "<", "", ">", "", "|", "",
	" ", "_",
)

// Sanitize strips the characters \ / * ? : " < > | from title, replaces
// spaces with underscores, and truncates the result to MaxLength characters.
func Sanitize(title string) string {
	s := illegal.Replace(title)
	if r := []rune(s); len(r) > MaxLength {
		s = string(r[:MaxLength])
	}
	return s
}

// Download returns the name the download stage gives the n-th row of its
// input: "<prefix>_<n>_<sanitized title>.pdf".
func Download(prefix string, n int, title string) string {
	return fmt.Sprintf("%s_%d_%s%s", prefix, n, Sanitize(title), Ext)
}

// Renamed returns the name the rename stage gives the file of catalog row
// index: "<index>_<sanitized title>.pdf".
func Renamed(index int, title string) string {
	return fmt.Sprintf("%d_%s%s", index, Sanitize(title), Ext)
}

// IsPDF reports whether name has a .pdf extension, ignoring case.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Ext)
}

// ParseIndex extracts the catalog index from a name of the form
// "<prefix>_<index>[_anything].pdf". It returns an error when the name has
// no second underscore-separated token or that token is not an integer.
func ParseIndex(name string) (int, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return 0, fmt.Errorf("no index token in %q", name)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("index token %q in %q is not an integer", parts[1], name)
	}
	return n, nil
}
