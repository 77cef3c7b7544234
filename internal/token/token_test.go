package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasic(t *testing.T) {
	src := "[OBJECT:CREATURE]\n[CREATURE:DWARF]\nsome comment\n" +
		"[DESCRIPTION:A short, sturdy creature fond of drink and industry.]"

	records, err := Tokenize([]byte(src))
	require.NoError(t, err)

	want := []Record{
		{Key: "OBJECT", Value: "CREATURE", Line: 1},
		{Key: "CREATURE", Value: "DWARF", Line: 2},
		{Key: "DESCRIPTION", Value: "A short, sturdy creature fond of drink and industry.", Line: 4},
	}

	require.Len(t, records, len(want))
	for i, r := range want {
		assert.Equal(t, r.Key, records[i].Key, "record %d", i)
		assert.Equal(t, r.Value, records[i].Value, "record %d", i)
	}
}

func TestTokenizeEmptyBracket(t *testing.T) {
	records, err := Tokenize([]byte("[FLIER]"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "FLIER", records[0].Key)
	assert.Equal(t, "", records[0].Value)
}

func TestTokenizeMultipleColons(t *testing.T) {
	records, err := Tokenize([]byte("[APPLY_CREATURE_VARIATION:STANDARD_BIPED_GAITS:900:700:500:250:1450:2900]"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "APPLY_CREATURE_VARIATION", records[0].Key)
	assert.Equal(t, "STANDARD_BIPED_GAITS:900:700:500:250:1450:2900", records[0].Value)
}

func TestTokenizeUnterminatedBracket(t *testing.T) {
	_, err := Tokenize([]byte("[OBJECT:CREATURE]\n[CREATURE:DWARF"))
	require.Error(t, err, "expected an error for unterminated bracket")
	tokErr, ok := err.(*Error)
	require.True(t, ok, "expected *Error, got %T", err)
	assert.Equal(t, 2, tokErr.Line)
}

func TestTokenizeLineNumbersAcrossNewlineInBracket(t *testing.T) {
	records, err := Tokenize([]byte("[A:1]\n[B:\n2]\n[C:3]"))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 4, records[2].Line)
}
