package domain

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewID returns a prefixed, lexicographically sortable identifier,
// e.g. "item_01J8ZQ2M5T...".
func NewID(prefix string) string {
	return prefix + "_" + strings.ToLower(ulid.Make().String())
}
