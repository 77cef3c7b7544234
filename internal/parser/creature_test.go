package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/tokens"
)

func TestParseCreatureRoutesCreatureScopedFields(t *testing.T) {
	records := []token.Record{
		{Key: "NAME", Value: "dwarf:dwarves:dwarven"},
		{Key: "BIOME", Value: "MOUNTAIN"},
		{Key: "FREQUENCY", Value: "50"},
		{Key: "FLIER", Value: ""},
	}
	c := ParseCreature("DWARF", metadata.Metadata{}, records, nil)

	assert.Equal(t, "dwarf", c.Name.Singular)
	assert.Equal(t, "dwarves", c.Name.Plural)
	assert.Equal(t, "dwarven", c.Name.Adjective)
	assert.Equal(t, 50, c.Frequency)
	require.Len(t, c.Biomes, 1)
	assert.Equal(t, tokens.BiomeMountain, c.Biomes[0])

	all := c.CasteByName("ALL")
	found := false
	for _, tag := range all.Tags {
		if tag.Key == "FLIER" {
			found = true
		}
	}
	assert.True(t, found, "expected FLIER routed to ALL caste, got %+v", all.Tags)
}

func TestParseCreatureCasteScopedBabyAndChildTokens(t *testing.T) {
	records := []token.Record{
		{Key: "CASTE", Value: "FEMALE"},
		{Key: "BABY_NAME", Value: "grub:grubs:grub"},
		{Key: "BABY", Value: "1"},
		{Key: "CHILD_NAME", Value: "cub:cubs:cub"},
		{Key: "CHILD", Value: "12"},
	}
	c := ParseCreature("DWARF", metadata.Metadata{}, records, nil)

	female := c.CasteByName("FEMALE")
	assert.Equal(t, "grub", female.BabyName.Singular)
	assert.Equal(t, "grubs", female.BabyName.Plural)
	assert.Equal(t, "grub", female.BabyName.Adjective)
	assert.Equal(t, 1, female.BabyAge)
	assert.Equal(t, "cub", female.ChildName.Singular)
	assert.Equal(t, "cubs", female.ChildName.Plural)
	assert.Equal(t, "cub", female.ChildName.Adjective)
	assert.Equal(t, 12, female.ChildAge)
}

func TestParseCreatureCasteDispatch(t *testing.T) {
	records := []token.Record{
		{Key: "CASTE", Value: "MALE"},
		{Key: "MALE_ONLY_TAG", Value: ""},
		{Key: "CASTE", Value: "FEMALE"},
		{Key: "FEMALE_ONLY_TAG", Value: ""},
	}
	c := ParseCreature("DWARF", metadata.Metadata{}, records, nil)

	male := c.CasteByName("MALE")
	female := c.CasteByName("FEMALE")
	require.Len(t, male.Tags, 1)
	assert.Equal(t, "MALE_ONLY_TAG", male.Tags[0].Key)
	require.Len(t, female.Tags, 1)
	assert.Equal(t, "FEMALE_ONLY_TAG", female.Tags[0].Key)
}

func TestParseCreatureSelectCasteSilentlyFailsWhenAbsent(t *testing.T) {
	records := []token.Record{
		{Key: "SELECT_CASTE", Value: "NOT_THERE"},
		{Key: "AFTER_SELECT_TAG", Value: ""},
	}
	c := ParseCreature("DWARF", metadata.Metadata{}, records, nil)
	all := c.CasteByName("ALL")
	require.Len(t, all.Tags, 1, "expected cursor to stay on ALL after failed SELECT_CASTE")
	assert.Equal(t, "AFTER_SELECT_TAG", all.Tags[0].Key)
}

func TestParseCreatureSelectAdditionalCasteBroadcasts(t *testing.T) {
	records := []token.Record{
		{Key: "CASTE", Value: "MALE"},
		{Key: "SELECT_ADDITIONAL_CASTE", Value: "FEMALE"},
		{Key: "SHARED_TAG", Value: ""},
	}
	c := ParseCreature("DWARF", metadata.Metadata{}, records, nil)
	male := c.CasteByName("MALE")
	female := c.CasteByName("FEMALE")
	assert.Len(t, male.Tags, 1, "expected SHARED_TAG broadcast to both castes")
	assert.Len(t, female.Tags, 1, "expected SHARED_TAG broadcast to both castes")
}
