package numeric

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinUnsignedBytes(t *testing.T) {
	assert.Equal(t, 1, MinUnsignedBytes(big.NewInt(0)))
	assert.Equal(t, 1, MinUnsignedBytes(big.NewInt(255)))
	assert.Equal(t, 2, MinUnsignedBytes(big.NewInt(256)))
}

func TestMinSignedBytes(t *testing.T) {
	assert.Equal(t, 1, MinSignedBytes(big.NewInt(0)))
	assert.Equal(t, 1, MinSignedBytes(big.NewInt(127)))
	assert.Equal(t, 2, MinSignedBytes(big.NewInt(128)), "128 needs a second byte to avoid a stray sign bit")
	assert.Equal(t, 1, MinSignedBytes(big.NewInt(-128)))
	assert.Equal(t, 2, MinSignedBytes(big.NewInt(-129)))
}

func TestAppendSigned_RoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 127, -128, 128, -129, 70000, -70000} {
		v := big.NewInt(n)
		width := MinSignedBytes(v)
		b := AppendSigned(nil, v, width)
		got := ParseSigned(b)
		assert.Equal(t, v.String(), got.String(), "round trip for %d", n)
	}
}

func TestAppendUnsigned_PadsToWidth(t *testing.T) {
	b := AppendUnsigned(nil, big.NewInt(5), 4)
	assert.Equal(t, []byte{0, 0, 0, 5}, b)
}

func TestFixedUnsignedWidth(t *testing.T) {
	w, ok := FixedUnsignedWidth(big.NewInt(255))
	assert.True(t, ok)
	assert.Equal(t, Width1, w)

	w, ok = FixedUnsignedWidth(big.NewInt(70000))
	assert.True(t, ok)
	assert.Equal(t, Width4, w)

	huge := new(big.Int).Lsh(big.NewInt(1), 64)
	_, ok = FixedUnsignedWidth(huge)
	assert.False(t, ok)
}

func TestFixedSignedWidth(t *testing.T) {
	w, ok := FixedSignedWidth(big.NewInt(-128), big.NewInt(127))
	assert.True(t, ok)
	assert.Equal(t, Width1, w)

	w, ok = FixedSignedWidth(big.NewInt(-129), big.NewInt(127))
	assert.True(t, ok)
	assert.Equal(t, Width2, w)
}

func TestMinBits(t *testing.T) {
	assert.Equal(t, 0, MinBits(0))
	assert.Equal(t, 1, MinBits(1))
	assert.Equal(t, 8, MinBits(255))
	assert.Equal(t, 9, MinBits(256))
}
