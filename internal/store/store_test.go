package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfraws/dfraws/internal/metadata"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", Options{}, nil)
	require.NoError(t, err, "opening store")
	t.Cleanup(func() { s.Close() })
	return s
}

func testModule(t *testing.T, s *Store) int64 {
	t.Helper()
	id, created, err := s.InsertModule(&ModuleRecord{
		ObjectID:       "module-object-id-1",
		Identifier:     "vanilla_creatures",
		NumericVersion: 50,
		Location:       metadata.LocationVanilla,
	})
	require.NoError(t, err, "inserting module")
	require.True(t, created, "expected module to be newly created")
	return id
}

func TestInsertModuleIsIdempotentByObjectID(t *testing.T) {
	s := openTestStore(t)
	rec := &ModuleRecord{ObjectID: "same-id", Identifier: "m", NumericVersion: 1, Location: metadata.LocationVanilla}

	id1, created1, err := s.InsertModule(rec)
	require.NoError(t, err)
	require.True(t, created1)

	id2, created2, err := s.InsertModule(rec)
	require.NoError(t, err)
	assert.False(t, created2, "expected second insert to be a no-op")
	assert.Equal(t, id1, id2, "expected same module id")
}

func TestInsertRawsSkipsWhenOverwriteDisabled(t *testing.T) {
	s := openTestStore(t)
	moduleID := testModule(t, s)

	rec := RawRecord{
		Identifier: "DWARF", ObjectType: metadata.ObjectTypeCreature, ObjectID: "dwarf-object-id",
		Data: map[string]string{"identifier": "DWARF"}, Names: []string{"DWARF"}, Flags: []string{"FLIER"},
	}
	require.NoError(t, s.InsertRaws(moduleID, false, []RawRecord{rec}))

	var count int
	s.db.QueryRow(`SELECT count(*) FROM common_raw_flags`).Scan(&count)
	require.Equal(t, 1, count, "expected 1 flag row after first insert")

	rec.Flags = []string{"FLIER", "LARGE_ROAMING"}
	require.NoError(t, s.InsertRaws(moduleID, false, []RawRecord{rec}))
	s.db.QueryRow(`SELECT count(*) FROM common_raw_flags`).Scan(&count)
	assert.Equal(t, 1, count, "expected no-op on second insert with overwrite disabled")
}

func TestInsertRawsStrictReplaceWhenOverwriteEnabled(t *testing.T) {
	s := openTestStore(t)
	moduleID := testModule(t, s)

	rec := RawRecord{
		Identifier: "DWARF", ObjectType: metadata.ObjectTypeCreature, ObjectID: "dwarf-object-id",
		Data: map[string]string{"identifier": "DWARF"}, Flags: []string{"FLIER"},
	}
	require.NoError(t, s.InsertRaws(moduleID, true, []RawRecord{rec}))
	rec.Flags = []string{"LARGE_ROAMING"}
	require.NoError(t, s.InsertRaws(moduleID, true, []RawRecord{rec}))

	rows, err := s.db.Query(`SELECT token_name FROM common_raw_flags`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		rows.Scan(&name)
		names = append(names, name)
	}
	require.Len(t, names, 1, "expected strict-replace to leave only LARGE_ROAMING")
	assert.Equal(t, "LARGE_ROAMING", names[0])
}

func TestFavoritesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SetFavorites([]string{"DWARF", "ELF"}))
	got, err := s.Favorites()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "DWARF", got[0])
	assert.Equal(t, "ELF", got[1])
}
