package dfraws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/search"
	"github.com/dfraws/dfraws/internal/store"
	"github.com/dfraws/dfraws/internal/tokens"
)

func TestDbClientInsertAndSearchRoundTrip(t *testing.T) {
	client, overwrite, err := OpenDbClient(":memory:", InitDBOptions{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	result := &ParseResult{
		Modules: []*model.InfoFile{
			{Identifier: "vanilla_creatures", Name: "vanilla_creatures", NumericVersion: 50, Location: metadata.LocationVanilla, ObjectID: "module-obj-1"},
		},
		Creatures: []*model.Creature{
			{
				Identifier: "DWARF",
				Metadata:   metadata.Metadata{ModuleName: "vanilla_creatures", ModuleLocation: metadata.LocationVanilla},
				Name:       model.NameTriple{Singular: "dwarf", Plural: "dwarves", Adjective: "dwarven"},
				Frequency:  50,
				Castes: []*model.Caste{
					{Name: model.AllCaste, Tags: []tokens.Tag{{Key: "FLIER"}, {Key: "LARGE_ROAMING"}}},
				},
			},
		},
	}

	require.NoError(t, client.InsertParseResults(result, overwrite))

	results, err := client.SearchRaws(search.Query{
		RequiredFlags: []string{"FLIER"},
		RawTypes:      []metadata.ObjectType{metadata.ObjectTypeCreature},
		Limit:         10,
		Page:          1,
	})
	require.NoError(t, err)
	require.Len(t, results.Matches, 1)

	var got model.Creature
	require.NoError(t, store.Deserialize(results.Matches[0].Data, &got))
	assert.Equal(t, "DWARF", got.Identifier)
}

func TestDbClientFavoritesAndMarkers(t *testing.T) {
	client, _, err := OpenDbClient(":memory:", InitDBOptions{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.SetFavorites([]string{"DWARF"}))
	got, err := client.Favorites()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DWARF", got[0])

	require.NoError(t, client.WriteMarker("last_scan", "2026-07-31"))
	value, ok, err := client.ReadMarker("last_scan")
	require.NoError(t, err)
	assert.True(t, ok, "expected marker round-trip")
	assert.Equal(t, "2026-07-31", value)
}
