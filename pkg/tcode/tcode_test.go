package tcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {

	assert := assert.New(t)

	v, err := ParseValue("L0999")
	assert.NoError(err)
	assert.Equal(999, v)

	v, err = ParseValue("L0500I100")
	assert.NoError(err)
	assert.Equal(500, v, "interval suffix is ignored")

	v, err = ParseValue("L1000 L0250 R0500")
	assert.NoError(err)
	assert.Equal(250, v, "other axes are ignored")

	v, err = ParseValue("L0100 L0300")
	assert.NoError(err)
	assert.Equal(300, v, "last token wins")
}

func TestParseValueIgnoresMalformed(t *testing.T) {

	assert := assert.New(t)

	_, err := ParseValue("L0abc L0 D1")
	assert.ErrorIs(err, ErrNoAxisToken)

	_, err = ParseValue("")
	assert.ErrorIs(err, ErrNoAxisToken)

	v, err := ParseValue("L0x12 L0042")
	assert.NoError(err)
	assert.Equal(42, v)
}

func TestNormalizeIsMonotonicAndClamped(t *testing.T) {

	assert := assert.New(t)

	prev := -1
	for raw := 0; raw <= MaxValue; raw++ {
		v := Normalize(raw)
		assert.GreaterOrEqual(v, prev)
		assert.GreaterOrEqual(v, 0)
		assert.LessOrEqual(v, 100)
		prev = v
	}
	assert.Equal(100, Normalize(999))
	assert.Equal(0, Normalize(0))
	assert.Equal(100, Normalize(5000))
}
