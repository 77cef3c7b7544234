package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabeledVectorApplyCreatureVariation(t *testing.T) {
	args := Split("STANDARD_BIPED_GAITS:900:700:500:250:1450:2900")
	label, rest, err := Labeled(args)
	require.NoError(t, err)
	assert.Equal(t, "STANDARD_BIPED_GAITS", label)
	assert.Equal(t, []string{"900", "700", "500", "250", "1450", "2900"}, rest)
}

func TestIntegerNoneSentinel(t *testing.T) {
	n, err := Integer([]string{"NONE"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestIntegerBadArg(t *testing.T) {
	_, err := Integer([]string{"abc"})
	assert.Error(t, err, "expected error for non-numeric argument")
}

func TestArrayWrongArity(t *testing.T) {
	_, err := Array([]string{"1", "2"}, 3)
	assert.Error(t, err, "expected arity error")
}

func TestVectorWithTail(t *testing.T) {
	vec, tail, err := VectorWithTail([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, vec)
	assert.Equal(t, "c", tail)
}

func TestSplitEmpty(t *testing.T) {
	assert.Empty(t, Split(""))
}
