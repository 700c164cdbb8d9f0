package templates

import (
	"fmt"
	"strings"
)

// nameList renders "p0, p1, ..., p{n-1}" for parameter and argument lists.
func nameList(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(parts, ", ")
}
