package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/google/uuid"
)

func TestDeriveObjectIDDeterministic(t *testing.T) {
	a := DeriveObjectID("DWARF", ObjectTypeCreature, LocationVanilla, 50)
	b := DeriveObjectID("DWARF", ObjectTypeCreature, LocationVanilla, 50)
	assert.Equal(t, a, b, "expected identical ids for identical inputs")
}

func TestDeriveObjectIDVariesWithInputs(t *testing.T) {
	base := DeriveObjectID("DWARF", ObjectTypeCreature, LocationVanilla, 50)
	variants := []struct {
		name string
		id   uuid.UUID
	}{
		{"identifier", DeriveObjectID("ELF", ObjectTypeCreature, LocationVanilla, 50)},
		{"type", DeriveObjectID("DWARF", ObjectTypePlant, LocationVanilla, 50)},
		{"location", DeriveObjectID("DWARF", ObjectTypeCreature, LocationInstalledMods, 50)},
		{"version", DeriveObjectID("DWARF", ObjectTypeCreature, LocationVanilla, 51)},
	}
	for _, v := range variants {
		assert.NotEqual(t, base, v.id, "changing %s did not change the derived id", v.name)
	}
}

func TestObjectTypeFromHeaderUnknown(t *testing.T) {
	assert.Equal(t, ObjectTypeUnknown, ObjectTypeFromHeader("NOT_A_REAL_TYPE"))
}

func TestObjectTypeFromHeaderCreature(t *testing.T) {
	assert.Equal(t, ObjectTypeCreature, ObjectTypeFromHeader("CREATURE"))
}
