package gamedata

import (
	"slices"
	"strings"
)

// convertColors turns {"ColorBlue": true, "ColorRed": false} into a sorted,
// duplicate-free list of lower-case colour names.
func convertColors(raw ManaColors) []string {
	colors := make([]string, 0, len(raw))
	for name, set := range raw {
		if set {
			colors = append(colors, strings.ToLower(strings.ReplaceAll(name, "Color", "")))
		}
	}
	return normalizeColors(colors)
}

func normalizeColors(colors []string) []string {
	slices.Sort(colors)
	return slices.Compact(colors)
}
