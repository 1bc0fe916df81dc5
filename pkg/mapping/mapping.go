// Package mapping holds the substitution policies applied to a byte stream.
package mapping

import (
	"fmt"

	"rotcat/pkg/rotation"
)

// Mapping maps one byte to its replacement.
// The boolean is false when the byte has no mapping and passes through unchanged.
type Mapping interface {
	Get(b byte) (byte, bool)
}

// Rot13 is the fixed, self-inverse rotation by 13.
type Rot13 struct{}

const rot13Offset rotation.Offset = 13

func (Rot13) Get(b byte) (byte, bool) {
	return rotation.Rotate(b, rot13Offset)
}

// RotateBy rotates letters by a fixed offset chosen at construction.
type RotateBy struct {
	offset rotation.Offset
}

// NewRotateBy builds a rotation by n, or its inverse when reverse is set.
// n is normalized modulo 26, so 0 and 26 are both the identity.
func NewRotateBy(n int, reverse bool) RotateBy {
	off := rotation.NewOffset(n)
	if reverse {
		off = off.Inverse()
	}
	return RotateBy{offset: off}
}

// Offset returns the effective forward offset.
func (r RotateBy) Offset() rotation.Offset { return r.offset }

func (r RotateBy) Get(b byte) (byte, bool) {
	return rotation.Rotate(b, r.offset)
}

// Select picks Rot13 when no offset is configured, RotateBy otherwise.
// reverse has no effect on Rot13 since it is its own inverse.
func Select(offset *int, reverse bool) Mapping {
	if offset == nil {
		return Rot13{}
	}
	return NewRotateBy(*offset, reverse)
}

// MapBytes rewrites p in place.
func MapBytes(m Mapping, p []byte) {
	for i, b := range p {
		if nb, ok := m.Get(b); ok {
			p[i] = nb
		}
	}
}

// MapString applies m to every byte of s.
func MapString(m Mapping, s string) string {
	p := []byte(s)
	MapBytes(m, p)
	return string(p)
}

// Describe names a mapping for logs.
func Describe(m Mapping) string {
	switch v := m.(type) {
	case Rot13:
		return "rot13"
	case RotateBy:
		return fmt.Sprintf("rot+%d", v.offset)
	default:
		return fmt.Sprintf("%T", m)
	}
}
