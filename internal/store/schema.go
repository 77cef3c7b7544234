package store

import "fmt"

// schemaStatements is the full schema of §4.7 (abridged there, spelled
// out here), adapted from original_source's sql_001_initial.rs with
// one deliberate addition: raw_definitions.object_id, which §3 and
// §4.7 both require ("raw_definitions — one row per object: (id PK,
// raw_type_id, identifier, module_id FK, data_blob, object_id
// unique)") but which the migration this was grounded on did not
// carry as an explicit column.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS module_locations (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS module_restriction_rules (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS raw_types (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS modules (
		id                                     INTEGER PRIMARY KEY AUTOINCREMENT,
		object_id                              TEXT NOT NULL UNIQUE,
		identifier                             TEXT NOT NULL,
		numeric_version                        INTEGER NOT NULL,
		display_version                        TEXT,
		earliest_compatible_numeric_version    INTEGER,
		earliest_compatible_display_version    TEXT,
		name                                   TEXT,
		author                                 TEXT,
		description                            TEXT,
		parent_directory                       TEXT,
		location_id                            INTEGER NOT NULL REFERENCES module_locations(id),
		steam_file_id                          TEXT,
		steam_title                            TEXT,
		steam_description                      TEXT,
		steam_changelog                        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS steam_tags (
		module_id INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		tag       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS steam_key_value_tags (
		module_id INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		key       TEXT NOT NULL,
		value     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS module_dependencies (
		module_id           INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		target_identifier   TEXT NOT NULL,
		restriction_type_id INTEGER NOT NULL REFERENCES module_restriction_rules(id)
	)`,
	`CREATE TABLE IF NOT EXISTS raw_definitions (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		raw_type_id  INTEGER NOT NULL REFERENCES raw_types(id),
		identifier   TEXT NOT NULL,
		module_id    INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		data_blob    BLOB NOT NULL,
		object_id    TEXT NOT NULL UNIQUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_raw_definitions_identifier ON raw_definitions(identifier)`,
	`CREATE INDEX IF NOT EXISTS idx_raw_definitions_module ON raw_definitions(module_id)`,
	`CREATE TABLE IF NOT EXISTS common_raw_flags (
		raw_id     INTEGER NOT NULL REFERENCES raw_definitions(id) ON DELETE CASCADE,
		token_name TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_common_raw_flags_raw ON common_raw_flags(raw_id)`,
	`CREATE INDEX IF NOT EXISTS idx_common_raw_flags_name ON common_raw_flags(token_name)`,
	`CREATE TABLE IF NOT EXISTS common_raw_flags_with_numeric_value (
		raw_id     INTEGER NOT NULL REFERENCES raw_definitions(id) ON DELETE CASCADE,
		token_name TEXT NOT NULL,
		value      INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_common_raw_flags_numeric_raw ON common_raw_flags_with_numeric_value(raw_id)`,
	`CREATE TABLE IF NOT EXISTS raw_names (
		raw_id INTEGER NOT NULL REFERENCES raw_definitions(id) ON DELETE CASCADE,
		name   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_raw_names_raw ON raw_names(raw_id)`,
	`CREATE INDEX IF NOT EXISTS idx_raw_names_name ON raw_names(name)`,
	`CREATE VIRTUAL TABLE IF NOT EXISTS raw_search_index USING fts5(
		names, description
	)`,
	`CREATE TABLE IF NOT EXISTS tile_pages (
		raw_id      INTEGER PRIMARY KEY REFERENCES raw_definitions(id) ON DELETE CASCADE,
		file_path   TEXT,
		tile_width  INTEGER,
		tile_height INTEGER,
		page_width  INTEGER,
		page_height INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS sprite_graphics (
		raw_id              INTEGER NOT NULL REFERENCES raw_definitions(id) ON DELETE CASCADE,
		tile_page_id         TEXT NOT NULL,
		offset_x             INTEGER NOT NULL,
		offset_y             INTEGER NOT NULL,
		primary_condition    TEXT,
		secondary_condition  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sprite_graphics_raw ON sprite_graphics(raw_id)`,
	`CREATE TABLE IF NOT EXISTS large_sprite_graphics (
		raw_id              INTEGER NOT NULL REFERENCES raw_definitions(id) ON DELETE CASCADE,
		tile_page_id         TEXT NOT NULL,
		offset_x             INTEGER NOT NULL,
		offset_y             INTEGER NOT NULL,
		secondary_offset_x   INTEGER NOT NULL,
		secondary_offset_y   INTEGER NOT NULL,
		primary_condition    TEXT,
		secondary_condition  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_large_sprite_graphics_raw ON large_sprite_graphics(raw_id)`,
	`CREATE TABLE IF NOT EXISTS metadata_markers (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// moduleLocationSeed mirrors §6's seeded enumeration
// (module_locations = {1:Vanilla, 2:WorkshopMods, 3:InstalledMods,
// 4:Unknown}) plus LegendsExport, which §3's module_location closed
// set also names but §6's seed table predates. The stored names match
// the literal spec enumeration (no embedded spaces), which takes
// precedence over original_source's "Workshop Mods"/"Installed Mods"
// seed strings — see DESIGN.md's ModuleLocation naming note.
var moduleLocationSeed = []string{"Vanilla", "WorkshopMods", "InstalledMods", "Unknown", "LegendsExport"}

// restrictionRuleSeed mirrors §6's module_restriction_rules enum.
var restrictionRuleSeed = []string{"REQUIRES", "CONFLICTS", "BEFORE", "AFTER"}

// rawTypeSeed mirrors §3's closed object-type set, in the same order
// metadata.ObjectType lists them.
var rawTypeSeed = []string{
	"CREATURE", "CREATURE_CASTE", "CREATURE_VARIATION", "SELECT_CREATURE",
	"PLANT", "INORGANIC", "ENTITY", "GRAPHICS", "TILE_PAGE",
	"MATERIAL_TEMPLATE", "BODY_DETAIL_PLAN", "BODY", "LANGUAGE", "TRANSLATION",
	"TISSUE_TEMPLATE", "TEXT_SET", "DESCRIPTOR_COLOR", "DESCRIPTOR_PATTERN",
	"DESCRIPTOR_SHAPE", "PALETTE", "MUSIC", "SOUND", "INTERACTION", "REACTION",
	"BUILDING", "BUILDING_WORKSHOP", "BUILDING_FURNACE",
	"ITEM", "ITEM_AMMO", "ITEM_ARMOR", "ITEM_FOOD", "ITEM_GLOVES", "ITEM_HELM",
	"ITEM_INSTRUMENT", "ITEM_PANTS", "ITEM_SHIELD", "ITEM_SHOES", "ITEM_SIEGEAMMO",
	"ITEM_TOOL", "ITEM_TOY", "ITEM_TRAPCOMP", "ITEM_WEAPON", "ITEM_PIPESECTION",
	"UNKNOWN",
}

func (s *Store) migrate() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	if err := s.seedEnum("module_locations", moduleLocationSeed); err != nil {
		return err
	}
	if err := s.seedEnum("module_restriction_rules", restrictionRuleSeed); err != nil {
		return err
	}
	if err := s.seedEnum("raw_types", rawTypeSeed); err != nil {
		return err
	}
	return nil
}

func (s *Store) seedEnum(table string, names []string) error {
	stmt, err := s.db.Prepare(fmt.Sprintf(`INSERT OR IGNORE INTO %s (id, name) VALUES (?, ?)`, table))
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, name := range names {
		if _, err := stmt.Exec(i+1, name); err != nil {
			return fmt.Errorf("seeding %s: %w", table, err)
		}
	}
	return nil
}
