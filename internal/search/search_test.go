package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/store"
)

type noFavorites struct{}

func (noFavorites) Favorites() ([]string, error) { return nil, nil }

func setupStoreWithCreatures(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:", store.Options{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	moduleID, _, err := s.InsertModule(&store.ModuleRecord{
		ObjectID: "mod-1", Identifier: "vanilla", NumericVersion: 50, Location: metadata.LocationVanilla,
	})
	require.NoError(t, err)

	records := []store.RawRecord{
		{Identifier: "DWARF", ObjectType: metadata.ObjectTypeCreature, ObjectID: "obj-dwarf",
			Data: map[string]string{"identifier": "DWARF"}, Names: []string{"Dwarf", "Dwarves"}, Description: "A short sturdy creature",
			Flags: []string{"FLIER", "LARGE_ROAMING"}},
		{Identifier: "ELF", ObjectType: metadata.ObjectTypeCreature, ObjectID: "obj-elf",
			Data: map[string]string{"identifier": "ELF"}, Names: []string{"Elf", "Elves"}, Description: "A slender creature",
			Flags: []string{"LARGE_ROAMING"}},
	}
	require.NoError(t, s.InsertRaws(moduleID, true, records))
	return s
}

func TestSearchBM25RanksExactMatchFirst(t *testing.T) {
	s := setupStoreWithCreatures(t)
	results, err := Search(s.DB(), noFavorites{}, Query{
		SearchString: "Dwarf",
		RawTypes:     []metadata.ObjectType{metadata.ObjectTypeCreature},
		Limit:        10,
		Page:         1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results.Matches)

	var got map[string]string
	require.NoError(t, store.Deserialize(results.Matches[0].Data, &got))
	assert.Equal(t, "DWARF", got["identifier"])
}

func TestSearchRequiredFlagsIsAND(t *testing.T) {
	s := setupStoreWithCreatures(t)
	results, err := Search(s.DB(), noFavorites{}, Query{
		RequiredFlags: []string{"FLIER", "LARGE_ROAMING"},
		Limit:         10,
		Page:          1,
	})
	require.NoError(t, err)
	require.Len(t, results.Matches, 1)

	var got map[string]string
	store.Deserialize(results.Matches[0].Data, &got)
	assert.Equal(t, "DWARF", got["identifier"])
}

func TestSearchFavoritesOnlyEmptyYieldsZeroRows(t *testing.T) {
	s := setupStoreWithCreatures(t)
	results, err := Search(s.DB(), noFavorites{}, Query{FavoritesOnly: true, Limit: 10, Page: 1})
	require.NoError(t, err)
	assert.Empty(t, results.Matches)
	assert.Equal(t, 0, results.TotalCount)
}

func TestSearchPaginationStableOrdering(t *testing.T) {
	s := setupStoreWithCreatures(t)
	page1, err := Search(s.DB(), noFavorites{}, Query{Limit: 1, Page: 1})
	require.NoError(t, err)
	page2, err := Search(s.DB(), noFavorites{}, Query{Limit: 1, Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, page1.TotalCount)
	assert.Equal(t, 2, page2.TotalCount)
	require.Len(t, page1.Matches, 1)
	require.Len(t, page2.Matches, 1)
	assert.NotEqual(t, page1.Matches[0].ID, page2.Matches[0].ID, "expected distinct rows across pages")
}
