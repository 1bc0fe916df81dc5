// Package rotation implements the case-preserving alphabetic shift that every
// substitution policy is built on.
package rotation

// AlphabetSize is the number of letters in the ASCII Latin alphabet.
const AlphabetSize = 26

// caseBit is the only bit that differs between an ASCII letter and its other case.
const caseBit = 0x20

// Offset is a rotation amount, always in [0, AlphabetSize).
type Offset uint8

// NewOffset reduces any integer into [0, AlphabetSize).
func NewOffset(n int) Offset {
	return Offset(((n % AlphabetSize) + AlphabetSize) % AlphabetSize)
}

// Inverse returns the offset that undoes o.
func (o Offset) Inverse() Offset {
	return NewOffset(AlphabetSize - int(o))
}

// IsAlpha reports whether b is an ASCII letter. High-bit bytes are never letters.
func IsAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// IsLower reports whether an ASCII letter is lowercase. Only meaningful when IsAlpha(b).
func IsLower(b byte) bool {
	return b|caseBit == b
}

// Rotate shifts b forward by off positions, keeping its case.
// The second result is false, and b is returned as is, when b is not a letter.
func Rotate(b byte, off Offset) (byte, bool) {
	if !IsAlpha(b) {
		return b, false
	}
	lower := int(b | caseBit)
	shifted := byte('a' + (lower-'a'+int(off))%AlphabetSize)
	if IsLower(b) {
		return shifted, true
	}
	return shifted &^ caseBit, true
}
