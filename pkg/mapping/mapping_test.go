package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rotcat/pkg/rotation"
)

func alphabet() []byte {
	var letters []byte
	for b := 0; b < 256; b++ {
		if rotation.IsAlpha(byte(b)) {
			letters = append(letters, byte(b))
		}
	}
	return letters
}

func TestRotateByOne(t *testing.T) {
	assert.Equal(t, "Ifmmp, xpsme!", MapString(NewRotateBy(1, false), "Hello, world!"))
}

func TestRotateByOneReverse(t *testing.T) {
	assert.Equal(t, "Hello, world!", MapString(NewRotateBy(1, true), "Ifmmp, xpsme!"))
}

func TestRot13RoundTrip(t *testing.T) {
	out := MapString(Rot13{}, "Hello, World!")
	require.Equal(t, "Uryyb, Jbeyq!", out)
	assert.Equal(t, "Hello, World!", MapString(Rot13{}, out))
}

func TestRot13Involution(t *testing.T) {
	for _, b := range alphabet() {
		once, ok := Rot13{}.Get(b)
		require.True(t, ok)
		twice, ok := Rot13{}.Get(once)
		require.True(t, ok)
		assert.Equal(t, b, twice)
	}
}

func TestNonLettersHaveNoMapping(t *testing.T) {
	policies := []Mapping{Rot13{}, NewRotateBy(3, false), NewRotateBy(3, true)}
	for _, m := range policies {
		assert.Equal(t, "123!@#", MapString(m, "123!@#"))
		for b := 0; b < 256; b++ {
			if rotation.IsAlpha(byte(b)) {
				continue
			}
			_, ok := m.Get(byte(b))
			assert.False(t, ok, "%s mapped 0x%02x", Describe(m), b)
		}
	}
}

func TestCasePreserved(t *testing.T) {
	for n := 0; n <= 26; n++ {
		m := NewRotateBy(n, false)
		for _, b := range alphabet() {
			got, _ := m.Get(b)
			assert.Equal(t, rotation.IsLower(b), rotation.IsLower(got))
		}
	}
}

func TestReverseInvertsForward(t *testing.T) {
	for n := 0; n < 26; n++ {
		fwd, rev := NewRotateBy(n, false), NewRotateBy(n, true)
		for _, b := range alphabet() {
			r, ok := rev.Get(b)
			if !ok {
				r = b
			}
			got, _ := fwd.Get(r)
			assert.Equal(t, b, got, "n=%d b=%q", n, b)
		}
	}
}

func TestRotateByEdgeOffsets(t *testing.T) {
	assert.Equal(t, rotation.Offset(0), NewRotateBy(0, true).Offset())
	assert.Equal(t, rotation.Offset(0), NewRotateBy(26, false).Offset())
	assert.Equal(t, rotation.Offset(0), NewRotateBy(26, true).Offset())
	assert.Equal(t, rotation.Offset(25), NewRotateBy(1, true).Offset())
	assert.Equal(t, "abc", MapString(NewRotateBy(26, false), "abc"))
}

func TestSelect(t *testing.T) {
	assert.Equal(t, Rot13{}, Select(nil, false))
	assert.Equal(t, Rot13{}, Select(nil, true))

	n := 5
	assert.Equal(t, NewRotateBy(5, true), Select(&n, true))
	assert.Equal(t, "rot+21", Describe(Select(&n, true)))
	assert.Equal(t, "rot13", Describe(Select(nil, false)))
}
