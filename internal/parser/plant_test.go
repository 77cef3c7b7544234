package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/tokens"
)

func TestParsePlantBasicFields(t *testing.T) {
	records := []token.Record{
		{Key: "NAME", Value: "oak tree:oak trees:oak"},
		{Key: "BIOME", Value: "FOREST_TEMPERATE_BROADLEAF"},
		{Key: "FREQUENCY", Value: "75"},
		{Key: "CLUSTER_SIZE", Value: "10"},
	}
	p := ParsePlant("OAK_TREE", metadata.Metadata{}, records, nil)

	assert.Equal(t, "oak tree", p.Name.Singular)
	assert.Equal(t, "oak trees", p.Name.Plural)
	assert.Equal(t, "oak", p.Name.Adjective)
	require.Len(t, p.Biomes, 1)
	assert.Equal(t, tokens.BiomeForestTemperateBroadleaf, p.Biomes[0])
	assert.Equal(t, 75, p.Frequency)
	assert.Equal(t, 10, p.ClusterSize)
}

func TestParsePlantTreeTokensRouteToTree(t *testing.T) {
	records := []token.Record{
		{Key: "TRUNK_WIDTH", Value: "1:3"},
		{Key: "TRUNK_HEIGHT", Value: "3:9"},
	}
	p := ParsePlant("OAK_TREE", metadata.Metadata{}, records, nil)

	require.NotNil(t, p.Tree)
	assert.Len(t, p.Tree.Tags, 2)
	assert.Nil(t, p.Shrub, "did not expect shrub details, got %+v", p.Shrub)
}

func TestParsePlantGrowthSectionRoutesGrowthPrefixedTags(t *testing.T) {
	records := []token.Record{
		{Key: "GROWTH", Value: "FRUIT"},
		{Key: "GROWTH_NAME", Value: "acorn:acorns:acorn"},
		{Key: "GROWTH_DENSITY", Value: "100"},
	}
	p := ParsePlant("OAK_TREE", metadata.Metadata{}, records, nil)

	require.Len(t, p.Growths, 1)
	assert.Equal(t, "FRUIT", p.Growths[0].Name)
	assert.Len(t, p.Growths[0].Tags, 2)
}

func TestParsePlantUnrecognizedTagFallsThroughToCatchAll(t *testing.T) {
	records := []token.Record{
		{Key: "SOME_UNKNOWN_TOKEN", Value: "1"},
	}
	p := ParsePlant("OAK_TREE", metadata.Metadata{}, records, nil)

	require.Len(t, p.Tags, 1)
	assert.Equal(t, "SOME_UNKNOWN_TOKEN", p.Tags[0].Key)
}
