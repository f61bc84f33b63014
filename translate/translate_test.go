package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("label syntax", From("label syntax"))
	assert.Equal("'x' is not a number", From("'%v' is not a number", "x"))
	assert.Equal("7", Number(7))
}
