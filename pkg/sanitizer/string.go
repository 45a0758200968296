package sanitizer

import "strings"

// CollapseSpace trims s and folds every run of Unicode white space,
// tabs and newlines included, into a single ASCII space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
