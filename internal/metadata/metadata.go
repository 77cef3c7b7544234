// Package metadata implements the identity and metadata model of
// SPEC_FULL.md §3: object types, module locations, per-object metadata,
// and deterministic object-id derivation.
package metadata

import (
	"fmt"

	"github.com/google/uuid"
)

// ObjectType is the closed set of raw object kinds (§3). Values are
// held as the uppercase header keyword used in raw files, which also
// doubles as the `raw_types.name` lookup key in internal/store.
type ObjectType string

const (
	ObjectTypeCreature           ObjectType = "CREATURE"
	ObjectTypeCreatureCaste      ObjectType = "CREATURE_CASTE"
	ObjectTypeCreatureVariation  ObjectType = "CREATURE_VARIATION"
	ObjectTypeSelectCreature     ObjectType = "SELECT_CREATURE"
	ObjectTypePlant              ObjectType = "PLANT"
	ObjectTypeInorganic          ObjectType = "INORGANIC"
	ObjectTypeEntity             ObjectType = "ENTITY"
	ObjectTypeGraphics           ObjectType = "GRAPHICS"
	ObjectTypeTilePage           ObjectType = "TILE_PAGE"
	ObjectTypeMaterialTemplate   ObjectType = "MATERIAL_TEMPLATE"
	ObjectTypeBodyDetailPlan     ObjectType = "BODY_DETAIL_PLAN"
	ObjectTypeBody               ObjectType = "BODY"
	ObjectTypeLanguage           ObjectType = "LANGUAGE"
	ObjectTypeTranslation        ObjectType = "TRANSLATION"
	ObjectTypeTissueTemplate     ObjectType = "TISSUE_TEMPLATE"
	ObjectTypeTextSet            ObjectType = "TEXT_SET"
	ObjectTypeDescriptorColor    ObjectType = "DESCRIPTOR_COLOR"
	ObjectTypeDescriptorPattern  ObjectType = "DESCRIPTOR_PATTERN"
	ObjectTypeDescriptorShape    ObjectType = "DESCRIPTOR_SHAPE"
	ObjectTypePalette            ObjectType = "PALETTE"
	ObjectTypeMusic              ObjectType = "MUSIC"
	ObjectTypeSound              ObjectType = "SOUND"
	ObjectTypeInteraction        ObjectType = "INTERACTION"
	ObjectTypeReaction           ObjectType = "REACTION"
	ObjectTypeBuilding           ObjectType = "BUILDING"
	ObjectTypeBuildingWorkshop   ObjectType = "BUILDING_WORKSHOP"
	ObjectTypeBuildingFurnace    ObjectType = "BUILDING_FURNACE"
	ObjectTypeItem               ObjectType = "ITEM"
	ObjectTypeItemAmmo           ObjectType = "ITEM_AMMO"
	ObjectTypeItemArmor          ObjectType = "ITEM_ARMOR"
	ObjectTypeItemFood           ObjectType = "ITEM_FOOD"
	ObjectTypeItemGloves         ObjectType = "ITEM_GLOVES"
	ObjectTypeItemHelm           ObjectType = "ITEM_HELM"
	ObjectTypeItemInstrument     ObjectType = "ITEM_INSTRUMENT"
	ObjectTypeItemPants          ObjectType = "ITEM_PANTS"
	ObjectTypeItemShield         ObjectType = "ITEM_SHIELD"
	ObjectTypeItemShoes          ObjectType = "ITEM_SHOES"
	ObjectTypeItemSiegeAmmo      ObjectType = "ITEM_SIEGEAMMO"
	ObjectTypeItemTool           ObjectType = "ITEM_TOOL"
	ObjectTypeItemToy            ObjectType = "ITEM_TOY"
	ObjectTypeItemTrapComponent  ObjectType = "ITEM_TRAPCOMP"
	ObjectTypeItemWeapon         ObjectType = "ITEM_WEAPON"
	ObjectTypeItemPipesection   ObjectType = "ITEM_PIPESECTION"
	ObjectTypeUnknown            ObjectType = "UNKNOWN"
)

// ItemSubtypes lists the 15 item subtypes named in §3, separate from
// the plain ObjectTypeItem header.
var ItemSubtypes = []ObjectType{
	ObjectTypeItemAmmo, ObjectTypeItemArmor, ObjectTypeItemFood, ObjectTypeItemGloves,
	ObjectTypeItemHelm, ObjectTypeItemInstrument, ObjectTypeItemPants, ObjectTypeItemShield,
	ObjectTypeItemShoes, ObjectTypeItemSiegeAmmo, ObjectTypeItemTool, ObjectTypeItemToy,
	ObjectTypeItemTrapComponent, ObjectTypeItemWeapon, ObjectTypeItemPipesection,
}

// headerKeywords maps the [OBJECT:<TYPE>] header keyword (§6) to the
// ObjectType it produces. It is a map, so it carries no order of its
// own; only the ObjectType constant block above is ordered.
var headerKeywords = map[string]ObjectType{
	"CREATURE":           ObjectTypeCreature,
	"CREATURE_VARIATION":  ObjectTypeCreatureVariation,
	"SELECT_CREATURE":    ObjectTypeSelectCreature,
	"PLANT":              ObjectTypePlant,
	"INORGANIC":          ObjectTypeInorganic,
	"ENTITY":             ObjectTypeEntity,
	"GRAPHICS":           ObjectTypeGraphics,
	"TILE_PAGE":          ObjectTypeTilePage,
	"MATERIAL_TEMPLATE":  ObjectTypeMaterialTemplate,
	"BODY_DETAIL_PLAN":   ObjectTypeBodyDetailPlan,
	"BODY":               ObjectTypeBody,
	"LANGUAGE":           ObjectTypeLanguage,
	"TRANSLATION":        ObjectTypeTranslation,
	"TISSUE_TEMPLATE":    ObjectTypeTissueTemplate,
	"TEXT_SET":           ObjectTypeTextSet,
	"DESCRIPTOR_COLOR":   ObjectTypeDescriptorColor,
	"DESCRIPTOR_PATTERN": ObjectTypeDescriptorPattern,
	"DESCRIPTOR_SHAPE":   ObjectTypeDescriptorShape,
	"PALETTE":            ObjectTypePalette,
	"MUSIC":              ObjectTypeMusic,
	"SOUND":              ObjectTypeSound,
	"INTERACTION":        ObjectTypeInteraction,
	"REACTION":           ObjectTypeReaction,
	"BUILDING":           ObjectTypeBuilding,
	"BUILDING_WORKSHOP":  ObjectTypeBuildingWorkshop,
	"BUILDING_FURNACE":   ObjectTypeBuildingFurnace,
	"ITEM":               ObjectTypeItem,
	"ITEM_AMMO":          ObjectTypeItemAmmo,
	"ITEM_ARMOR":         ObjectTypeItemArmor,
	"ITEM_FOOD":          ObjectTypeItemFood,
	"ITEM_GLOVES":        ObjectTypeItemGloves,
	"ITEM_HELM":          ObjectTypeItemHelm,
	"ITEM_INSTRUMENT":    ObjectTypeItemInstrument,
	"ITEM_PANTS":         ObjectTypeItemPants,
	"ITEM_SHIELD":        ObjectTypeItemShield,
	"ITEM_SHOES":         ObjectTypeItemShoes,
	"ITEM_SIEGEAMMO":     ObjectTypeItemSiegeAmmo,
	"ITEM_TOOL":          ObjectTypeItemTool,
	"ITEM_TOY":           ObjectTypeItemToy,
	"ITEM_TRAPCOMP":      ObjectTypeItemTrapComponent,
	"ITEM_WEAPON":        ObjectTypeItemWeapon,
	"ITEM_PIPESECTION":   ObjectTypeItemPipesection,
}

// ObjectTypeFromHeader resolves an [OBJECT:<TYPE>] keyword to its
// ObjectType, returning ObjectTypeUnknown for anything unrecognized.
func ObjectTypeFromHeader(keyword string) ObjectType {
	if t, ok := headerKeywords[keyword]; ok {
		return t
	}
	return ObjectTypeUnknown
}

// ModuleLocation is the logical root a module was discovered under (§3).
type ModuleLocation string

// Values match §6's seeded enumeration literally
// (module_locations = {1:Vanilla, 2:WorkshopMods, 3:InstalledMods,
// 4:Unknown}), which takes precedence over original_source's
// "Workshop Mods"/"Installed Mods" (with spaces) seed strings — see
// DESIGN.md's ModuleLocation naming note.
const (
	LocationVanilla       ModuleLocation = "Vanilla"
	LocationWorkshopMods  ModuleLocation = "WorkshopMods"
	LocationInstalledMods ModuleLocation = "InstalledMods"
	LocationLegendsExport ModuleLocation = "LegendsExport"
	LocationUnknown       ModuleLocation = "Unknown"
)

// Metadata is attached to every raw object (§3).
type Metadata struct {
	ModuleName           string
	ModuleNumericVersion  int
	ModuleDisplayVersion  string
	ModuleObjectID        uuid.UUID
	RawFilePath           string
	RawIdentifier         string
	ObjectType            ObjectType
	ModuleLocation        ModuleLocation
	Hidden                bool
}

// namespace is a fixed, arbitrary UUID used as the root of every
// derived id in this package so that distinct runs of this module
// produce identical ids for identical inputs (§3, §8).
var namespace = uuid.MustParse("8e6e6b64-1f6a-4f0b-9a2d-9a3c9e6f9b10")

// DeriveObjectID computes the deterministic object_id named in §3:
// derived from (identifier, objectType, moduleLocation, moduleNumericVersion).
func DeriveObjectID(identifier string, objectType ObjectType, location ModuleLocation, moduleNumericVersion int) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%s|%d", identifier, objectType, location, moduleNumericVersion)
	return uuid.NewSHA1(namespace, []byte(key))
}

// DeriveModuleObjectID computes the deterministic module_object_id
// named in §3: derived from the manifest's identity-bearing contents.
func DeriveModuleObjectID(identifier string, numericVersion int, location ModuleLocation, parentDirectory string) uuid.UUID {
	key := fmt.Sprintf("module|%s|%d|%s|%s", identifier, numericVersion, location, parentDirectory)
	return uuid.NewSHA1(namespace, []byte(key))
}
