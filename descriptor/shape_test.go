package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-spead/spead-go/format"
)

func TestEncodeDecodeShapeFixed(t *testing.T) {
	s := format.NewFixedShape(3, 7, 1)

	got, err := decodeShape(encodeShape(s))
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestEncodeDecodeShapeDynamic(t *testing.T) {
	s := format.DynamicShape()

	got, err := decodeShape(encodeShape(s))
	require.NoError(t, err)
	assert.Equal(t, format.ShapeDynamic, got.Kind)
}

func TestDecodeShapeAcceptsVariableTag(t *testing.T) {
	b := make([]byte, shapeEntrySize*2)
	b[0] = shapeTagFixed
	b[4] = 4
	b[shapeEntrySize] = shapeTagVariable

	got, err := decodeShape(b)
	require.NoError(t, err)
	assert.Equal(t, []int{4, -1}, got.Dims)
}

func TestDecodeShapeRejectsUnknownTag(t *testing.T) {
	b := make([]byte, shapeEntrySize)
	b[0] = 9

	_, err := decodeShape(b)
	assert.Error(t, err)
}
