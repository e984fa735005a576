package sstable

import (
	"bytes"
)

type Comparer interface {
	Compare(a, b []byte) int
	Separator(a, b []byte) []byte
}

var DefaultComparer Comparer = defCmp{}

type defCmp struct{}

func (defCmp) Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// Separator returns a value v which meets conditions v >= a && v < b, meaning it is a separator between a and b
// Argument a must be smaller than b otherwise returned value is not true. An empty b means a is the last key and
// any v >= a is accepted.
func (defCmp) Separator(a, b []byte) []byte {
	i := SharedPrefixLen(a, b)
	separator := make([]byte, len(a))
	copy(separator, a)
	if len(b) > 0 {
		if i == len(a) {
			return separator
		}
		if i == len(b) {
			panic("a < b is a precondition, but b is a prefix of a")
		}
		if a[i] == 0xff || a[i]+1 >= b[i] {
			// incrementing a[i] would make the separator >= b, e.g. a = "1345" and b = "2".
			return separator
		}
	}

	for ; i < len(separator); i++ {
		if separator[i] != 0xff {
			separator[i]++
			return separator[:i+1]
		}
	}
	return separator
}

// SharedPrefixLen returns the length of the longest common prefix of a and b.
func SharedPrefixLen(a, b []byte) int {
	i, n := 0, len(a)
	if n > len(b) {
		n = len(b)
	}
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
