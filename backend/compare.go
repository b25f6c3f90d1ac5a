package treemodel

import (
	"cmp"
	"strings"

	"golang.org/x/text/cases"
)

// CompareText compares two strings ignoring case, using full Unicode case
// folding. Strings that fold to the same text compare equal.
func CompareText(a, b string) int {
	// A Caser carries state, so one is made per call
	return strings.Compare(cases.Fold().String(a), cases.Fold().String(b))
}

// CompareValues orders two values as the given column type. Missing ints
// compare as 0, missing bools as false and missing strings as "".
func CompareValues(a, b Value, typ ValueType) int {
	switch typ {
	case TypeInt:
		ai, _ := a.AsInt()
		bi, _ := b.AsInt()
		return cmp.Compare(ai, bi)
	case TypeBool:
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	default:
		return CompareText(a.String(), b.String())
	}
}

// Directed applies a sort direction to a comparison result.
func Directed(c int, ascending bool) int {
	if ascending {
		return c
	}
	return -c
}
