package suggest

import (
	"strings"

	"golang.org/x/exp/slices"
)

// TrialKey is the de-duplication identity of an AssignmentSet.
type TrialKey string

const (
	keyPairSeparator  = ';'
	keyValueSeparator = ':'
	keyEscape         = '\\'
)

// KeyOf returns the canonical key of set: assignments sorted by name and
// rendered as "name:value" pairs joined by ';'. Separators and backslashes
// inside names or values are backslash-escaped, so two sets share a key
// only when they assign the same values to the same names.
//
// set is not modified.
func KeyOf(set AssignmentSet) TrialKey {
	sorted := slices.Clone(set)
	slices.SortFunc(sorted, func(a, b Assignment) int {
		if c := strings.Compare(a.Key, b.Key); c != 0 {
			return c
		}

		return strings.Compare(a.Value, b.Value)
	})

	var b strings.Builder

	for i, a := range sorted {
		if i > 0 {
			b.WriteByte(keyPairSeparator)
		}

		writeEscaped(&b, a.Key)
		b.WriteByte(keyValueSeparator)
		writeEscaped(&b, a.Value)
	}

	return TrialKey(b.String())
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case keyPairSeparator, keyValueSeparator, keyEscape:
			b.WriteByte(keyEscape)
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
}
