package seq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndAt(t *testing.T) {
	s, err := New("q1", "", []byte("ACDEX"))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, Encode('A'), s.At(1))
	assert.Equal(t, Encode('X'), s.At(5))
}

func TestNewRejectsUnknownResidue(t *testing.T) {
	_, err := New("q1", "", []byte("ACDZ"))
	assert.Error(t, err)
}
