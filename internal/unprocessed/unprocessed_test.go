package unprocessed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dfraws/dfraws/internal/metadata"
)

func TestCollapsePositionalEdit(t *testing.T) {
	u := New("CREATURE", "DWARF", metadata.Metadata{})
	u.AddMainRawBody("BODY_SIZE:0:0:3000")
	u.AddMainRawBody("FREQUENCY:50")
	u.AddBeforeTagRaw("FREQUENCY", "BIOME:FOREST_TEMPERATE_BROADLEAF")

	got := u.Collapse()
	want := []string{"BODY_SIZE:0:0:3000", "BIOME:FOREST_TEMPERATE_BROADLEAF", "FREQUENCY:50"}
	assert.Equal(t, want, got)
}

func TestAdjacentModificationsMergeOnAppend(t *testing.T) {
	u := New("CREATURE", "DWARF", metadata.Metadata{})
	u.AddMainRawBody("A")
	u.AddMainRawBody("B")
	u.AddToStart("X")
	u.AddMainRawBody("C")

	assert.Len(t, u.Modifications, 3, "expected body merged, start separate, body resumed")
	assert.Equal(t, MainRawBody, u.Modifications[0].Kind)
	assert.Len(t, u.Modifications[0].Raws, 2, "expected first two body raws merged")
}

func TestAddBeforeTagMergesOnlySameTag(t *testing.T) {
	u := New("CREATURE", "DWARF", metadata.Metadata{})
	u.AddBeforeTagRaw("FREQUENCY", "A")
	u.AddBeforeTagRaw("FREQUENCY", "B")
	u.AddBeforeTagRaw("BIOME", "C")

	assert.Len(t, u.Modifications, 2)
	assert.Len(t, u.Modifications[0].Raws, 2, "expected FREQUENCY block to merge A and B")
}

func TestAddBeforeTagAppendsToEndWhenTagMissing(t *testing.T) {
	u := New("CREATURE", "DWARF", metadata.Metadata{})
	u.AddMainRawBody("FLIER")
	u.AddBeforeTagRaw("NOT_PRESENT", "EXTRA")

	got := u.Collapse()
	assert.Equal(t, []string{"FLIER", "EXTRA"}, got)
}

func TestIsSimpleFalseWithCopyTagsFrom(t *testing.T) {
	u := New("CREATURE", "DWARF", metadata.Metadata{})
	u.AddMainRawBody("FLIER")
	u.AddCopyTagsFrom("OTHER")
	assert.False(t, u.IsSimple(), "expected IsSimple() == false once CopyTagsFrom is present")
}
