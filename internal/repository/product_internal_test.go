package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "shoes", escapeLike("shoes"))
	assert.Equal(t, `50\% off`, escapeLike("50% off"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\temp`, escapeLike(`c:\temp`))
}

func TestNumericPrice(t *testing.T) {
	price, err := numericPrice(49.9)
	assert.NoError(t, err)

	f, err := price.Float64Value()
	assert.NoError(t, err)
	assert.InDelta(t, 49.9, f.Float64, 0.000001)
}
