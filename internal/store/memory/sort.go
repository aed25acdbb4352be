package memory

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// sortNewestFirst orders items by creation time descending. Ties fall back to the
// UUIDv7 identifier, which is time ordered as well.
func sortNewestFirst[T any](items []T, key func(T) (int64, uuid.UUID)) {
	slices.SortFunc(items, func(a, b T) int {
		ta, ida := key(a)
		tb, idb := key(b)
		if c := cmp.Compare(tb, ta); c != 0 {
			return c
		}
		return bytes.Compare(idb[:], ida[:])
	})
}
