package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/token"
)

func TestParseEntityPositionDispatch(t *testing.T) {
	records := []token.Record{
		{Key: "CIV_CONTROLLABLE", Value: ""},
		{Key: "POSITION", Value: "MONARCH"},
		{Key: "NAME", Value: "king:queen"},
		{Key: "POSITION", Value: "GENERAL"},
		{Key: "SQUAD", Value: "10:melee"},
	}
	e := ParseEntity("MOUNTAIN", metadata.Metadata{}, records, nil)

	require.Len(t, e.Tags, 1, "expected 1 pre-position tag")
	assert.Equal(t, "CIV_CONTROLLABLE", e.Tags[0].Key)
	require.Len(t, e.Positions, 2)
	assert.Equal(t, "MONARCH", e.Positions[0].Name)
	assert.Len(t, e.Positions[0].Tags, 1)
	assert.Equal(t, "GENERAL", e.Positions[1].Name)
	assert.Len(t, e.Positions[1].Tags, 1)
}
