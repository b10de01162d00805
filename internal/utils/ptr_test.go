package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	p := Ptr(42.5)
	assert.NotNil(t, p)
	assert.Equal(t, 42.5, *p)

	s := Ptr("hola")
	assert.Equal(t, "hola", *s)
}
