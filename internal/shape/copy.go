package shape

import (
	"fmt"
	"hash/fnv"
	"reflect"
)

// Clone returns a deep copy of s. Only Line holds a slice; every other kind is
// already copied by value.
func Clone(s Shape) Shape {
	if l, ok := s.(Line); ok {
		pts := make([]float64, len(l.Points))
		copy(pts, l.Points)
		l.Points = pts
		return l
	}
	return s
}

// CloneAll deep-copies a shape list. The result is never nil.
func CloneAll(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = Clone(s)
	}
	return out
}

// Equal reports structural equality.
func Equal(a, b Shape) bool {
	return reflect.DeepEqual(a, b)
}

// EqualAll compares two shape lists element by element. A nil and an empty
// list are equal.
func EqualAll(a, b []Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Index returns the position of the shape with the given id, or -1.
func Index(shapes []Shape, id string) int {
	for i, s := range shapes {
		if s.Meta().ID == id {
			return i
		}
	}
	return -1
}

// Fingerprint hashes the content of a shape list. Equal lists hash equally.
func Fingerprint(shapes []Shape) uint64 {
	h := fnv.New64a()
	for _, s := range shapes {
		fmt.Fprintf(h, "%#v|", s)
	}
	return h.Sum64()
}
