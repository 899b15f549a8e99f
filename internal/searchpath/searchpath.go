// Package searchpath parses the delimiter-separated list of directories that
// are searched, in order, for extracted javadoc documents.
package searchpath

import "strings"

// Separator delimits entries in a raw search path.
const Separator = ","

// Parse splits raw on Separator, trims whitespace around each entry and drops
// entries that end up empty. Order is preserved. Directories are not checked
// for existence; an empty raw value yields an empty list.
func Parse(raw string) []string {
	var dirs []string
	for _, entry := range strings.Split(raw, Separator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		dirs = append(dirs, entry)
	}
	return dirs
}

// Join renders dirs back into the raw configuration form.
func Join(dirs []string) string {
	return strings.Join(dirs, Separator)
}
