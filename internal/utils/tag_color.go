package utils

import (
	"hash/fnv"
	"regexp"
	"strings"
)

// TagPalette holds the colors assigned to tags created without one.
var TagPalette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#14b8a6", // teal
	"#3b82f6", // blue
	"#6366f1", // indigo
	"#a855f7", // purple
	"#ec4899", // pink
	"#64748b", // slate
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TagColor picks a stable palette color for a tag name.
func TagColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return TagPalette[h.Sum32()%uint32(len(TagPalette))]
}

// NormalizeColor returns color in lower case, or the palette color for name
// when color is not a #rrggbb value.
func NormalizeColor(name, color string) string {
	if hexColorPattern.MatchString(color) {
		return strings.ToLower(color)
	}
	return TagColor(name)
}
