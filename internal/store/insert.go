package store

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
)

// maxConsecutiveSerializationFailures is the abort budget of §4.7:
// "Five consecutive serialization failures within a single module
// abort that module's insertion."
const maxConsecutiveSerializationFailures = 5

// spriteFlushThreshold is the sprite-row count at which InsertRaws
// resets its pending-sprite counter. No buffer is flushed there: every
// row is already written as it is produced.
const spriteFlushThreshold = 5000

// RawRecord is everything the insert pipeline needs about one object
// to populate raw_definitions and its side tables (§4.7). Callers
// (the dfraws.go facade) build these from model objects; this package
// stays ignorant of the object model's concrete shape beyond what it
// must persist.
type RawRecord struct {
	Identifier string
	ObjectType metadata.ObjectType
	ObjectID   string
	Data       any // serialized into data_blob

	Names       []string // raw_names
	Description string   // raw_search_index.description
	Flags       []string // common_raw_flags
	NumericFlags map[string]int // common_raw_flags_with_numeric_value

	TilePage *TilePageData
	Sprites  []SpriteData
}

// TilePageData populates the tile_pages side table for a TilePage object.
type TilePageData struct {
	FilePath              string
	TileWidth, TileHeight int
	PageWidth, PageHeight int
}

// SpriteData populates sprite_graphics or large_sprite_graphics,
// depending on whether a secondary offset is present.
type SpriteData struct {
	TilePageID                   string
	OffsetX, OffsetY             int
	SecondaryOffsetX             *int
	SecondaryOffsetY             *int
	PrimaryCondition             string
	SecondaryCondition           string
}

// InsertModule upserts a module keyed by its object_id (§4.7 step 1).
// Dependencies are inserted only when the module is newly created.
func (s *Store) InsertModule(info *ModuleRecord) (moduleID int64, created bool, err error) {
	locationID, err := s.lookupEnumID("module_locations", string(info.Location))
	if err != nil {
		return 0, false, fmt.Errorf("resolving module location: %w", err)
	}

	var existingID int64
	err = s.db.QueryRow(`SELECT id FROM modules WHERE object_id = ?`, info.ObjectID).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		// fall through to insert
	case err != nil:
		return 0, false, fmt.Errorf("looking up existing module: %w", err)
	default:
		return existingID, false, nil
	}

	res, err := s.db.Exec(`
		INSERT INTO modules (
			object_id, identifier, numeric_version, display_version,
			earliest_compatible_numeric_version, earliest_compatible_display_version,
			name, author, description, parent_directory, location_id,
			steam_file_id, steam_title, steam_description, steam_changelog
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		info.ObjectID, info.Identifier, info.NumericVersion, info.DisplayVersion,
		info.EarliestCompatibleNumericVersion, info.EarliestCompatibleDisplayVersion,
		info.Name, info.Author, info.Description, info.ParentDirectory, locationID,
		info.SteamFileID, info.SteamTitle, info.SteamDescription, info.SteamChangelog,
	)
	if err != nil {
		return 0, false, fmt.Errorf("inserting module: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("reading inserted module id: %w", err)
	}

	for _, dep := range info.Dependencies {
		restrictionID, err := s.lookupEnumID("module_restriction_rules", string(dep.Restriction))
		if err != nil {
			s.log.Warn("unknown restriction type", zap.String("restriction", string(dep.Restriction)))
			continue
		}
		if _, err := s.db.Exec(`INSERT INTO module_dependencies (module_id, target_identifier, restriction_type_id) VALUES (?,?,?)`,
			id, dep.TargetIdentifier, restrictionID); err != nil {
			return 0, false, fmt.Errorf("inserting dependency: %w", err)
		}
	}
	return id, true, nil
}

// ModuleRecord is the insert-pipeline view of a model.InfoFile.
type ModuleRecord struct {
	ObjectID                           string
	Identifier                         string
	NumericVersion                     int
	DisplayVersion                     string
	EarliestCompatibleNumericVersion   int
	EarliestCompatibleDisplayVersion   string
	Name, Author, Description          string
	ParentDirectory                    string
	Location                           metadata.ModuleLocation
	SteamFileID, SteamTitle            string
	SteamDescription, SteamChangelog   string
	Dependencies                       []DependencyRecord
}

// DependencyRecord is the insert-pipeline view of a model.Dependency.
type DependencyRecord struct {
	TargetIdentifier string
	Restriction      string
}

func (s *Store) lookupEnumID(table, name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(fmt.Sprintf(`SELECT id FROM %s WHERE name = ?`, table), name).Scan(&id)
	return id, err
}

// InsertRaws runs the §4.7 insert pipeline for one module's raws
// within a single transaction: upsert-or-skip raw_definitions per
// overwriteRaws, then clear-and-repopulate side tables. Side-table
// rows are not buffered: each one is written with its own Exec inside
// the transaction, and statements are not prepared for reuse.
func (s *Store) InsertRaws(moduleID int64, overwriteRaws bool, records []RawRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	consecutiveFailures := 0
	spritesPending := 0

	for _, rec := range records {
		blob, err := Serialize(rec.Data)
		if err != nil {
			consecutiveFailures++
			s.log.Warn("serialization failed", zap.String("identifier", rec.Identifier), zap.Error(err))
			if consecutiveFailures >= maxConsecutiveSerializationFailures {
				return fmt.Errorf("aborting module insertion after %d consecutive serialization failures", consecutiveFailures)
			}
			continue
		}
		consecutiveFailures = 0

		rawID, changed, err := s.upsertRawDefinition(tx, moduleID, rec, blob, overwriteRaws)
		if err != nil {
			return fmt.Errorf("upserting raw %s: %w", rec.Identifier, err)
		}
		if !changed {
			continue
		}

		if err := s.clearSideTables(tx, rawID); err != nil {
			return fmt.Errorf("clearing side tables for raw %s: %w", rec.Identifier, err)
		}
		if err := s.populateSideTables(tx, rawID, rec); err != nil {
			return fmt.Errorf("populating side tables for raw %s: %w", rec.Identifier, err)
		}
		spritesPending += len(rec.Sprites)
		if spritesPending >= spriteFlushThreshold {
			spritesPending = 0
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing module insertion: %w", err)
	}
	committed = true
	return nil
}

func (s *Store) upsertRawDefinition(tx *sql.Tx, moduleID int64, rec RawRecord, blob []byte, overwriteRaws bool) (rawID int64, changed bool, err error) {
	typeID, err := s.lookupEnumID("raw_types", string(rec.ObjectType))
	if err != nil {
		return 0, false, fmt.Errorf("resolving raw type %s: %w", rec.ObjectType, err)
	}

	var existingID int64
	err = tx.QueryRow(`SELECT id FROM raw_definitions WHERE object_id = ?`, rec.ObjectID).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(`INSERT INTO raw_definitions (raw_type_id, identifier, module_id, data_blob, object_id) VALUES (?,?,?,?,?)`,
			typeID, rec.Identifier, moduleID, blob, rec.ObjectID)
		if err != nil {
			return 0, false, err
		}
		id, err := res.LastInsertId()
		return id, true, err
	case err != nil:
		return 0, false, err
	default:
		if !overwriteRaws {
			return existingID, false, nil
		}
		_, err := tx.Exec(`UPDATE raw_definitions SET data_blob = ?, identifier = ?, raw_type_id = ? WHERE id = ?`,
			blob, rec.Identifier, typeID, existingID)
		return existingID, err == nil, err
	}
}

func (s *Store) clearSideTables(tx *sql.Tx, rawID int64) error {
	stmts := []string{
		`DELETE FROM common_raw_flags WHERE raw_id = ?`,
		`DELETE FROM common_raw_flags_with_numeric_value WHERE raw_id = ?`,
		`DELETE FROM raw_names WHERE raw_id = ?`,
		`DELETE FROM tile_pages WHERE raw_id = ?`,
		`DELETE FROM sprite_graphics WHERE raw_id = ?`,
		`DELETE FROM large_sprite_graphics WHERE raw_id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, rawID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM raw_search_index WHERE rowid = ?`, rawID); err != nil {
		return err
	}
	return nil
}

func (s *Store) populateSideTables(tx *sql.Tx, rawID int64, rec RawRecord) error {
	for _, flag := range rec.Flags {
		if _, err := tx.Exec(`INSERT INTO common_raw_flags (raw_id, token_name) VALUES (?,?)`, rawID, flag); err != nil {
			return err
		}
	}
	for name, value := range rec.NumericFlags {
		if _, err := tx.Exec(`INSERT INTO common_raw_flags_with_numeric_value (raw_id, token_name, value) VALUES (?,?,?)`, rawID, name, value); err != nil {
			return err
		}
	}
	for _, name := range rec.Names {
		if _, err := tx.Exec(`INSERT INTO raw_names (raw_id, name) VALUES (?,?)`, rawID, name); err != nil {
			return err
		}
	}

	names := ""
	for i, n := range rec.Names {
		if i > 0 {
			names += " "
		}
		names += n
	}
	if _, err := tx.Exec(`INSERT INTO raw_search_index (rowid, names, description) VALUES (?,?,?)`, rawID, names, rec.Description); err != nil {
		return err
	}

	if rec.TilePage != nil {
		tp := rec.TilePage
		if _, err := tx.Exec(`INSERT INTO tile_pages (raw_id, file_path, tile_width, tile_height, page_width, page_height) VALUES (?,?,?,?,?,?)`,
			rawID, tp.FilePath, tp.TileWidth, tp.TileHeight, tp.PageWidth, tp.PageHeight); err != nil {
			return err
		}
	}

	for _, sprite := range rec.Sprites {
		if sprite.SecondaryOffsetX != nil && sprite.SecondaryOffsetY != nil {
			if _, err := tx.Exec(`INSERT INTO large_sprite_graphics
				(raw_id, tile_page_id, offset_x, offset_y, secondary_offset_x, secondary_offset_y, primary_condition, secondary_condition)
				VALUES (?,?,?,?,?,?,?,?)`,
				rawID, sprite.TilePageID, sprite.OffsetX, sprite.OffsetY, *sprite.SecondaryOffsetX, *sprite.SecondaryOffsetY,
				sprite.PrimaryCondition, sprite.SecondaryCondition); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.Exec(`INSERT INTO sprite_graphics (raw_id, tile_page_id, offset_x, offset_y, primary_condition, secondary_condition) VALUES (?,?,?,?,?,?)`,
			rawID, sprite.TilePageID, sprite.OffsetX, sprite.OffsetY, sprite.PrimaryCondition, sprite.SecondaryCondition); err != nil {
			return err
		}
	}
	return nil
}

// Favorites reads the persisted favorites-list metadata marker (§6
// "metadata-marker read/write for small caller state"). An absent
// marker yields an empty list.
func (s *Store) Favorites() ([]string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata_markers WHERE key = 'favorites'`).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading favorites marker: %w", err)
	}
	var favorites []string
	if err := Deserialize([]byte(value), &favorites); err != nil {
		return nil, fmt.Errorf("decoding favorites marker: %w", err)
	}
	return favorites, nil
}

// SetFavorites writes the favorites-list metadata marker.
func (s *Store) SetFavorites(favorites []string) error {
	blob, err := Serialize(favorites)
	if err != nil {
		return fmt.Errorf("encoding favorites marker: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO metadata_markers (key, value) VALUES ('favorites', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, string(blob))
	return err
}

// ReadMarker/WriteMarker expose the generic metadata-marker interface
// of §6 for arbitrary small caller state beyond favorites.
func (s *Store) ReadMarker(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata_markers WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) WriteMarker(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO metadata_markers (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}
