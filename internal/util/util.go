package util

import "strings"

// MakeTextList renders items as a prose list: "a", "a and b", or
// "a, b, and c" with an oxford comma for three or more. Diagnostics use it
// to name all of the offending symbols in one readable clause.
func MakeTextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}

	var sb strings.Builder
	for _, it := range items[:len(items)-1] {
		sb.WriteString(it)
		sb.WriteString(", ")
	}
	sb.WriteString("and ")
	sb.WriteString(items[len(items)-1])
	return sb.String()
}
