package dfraws

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/search"
	"github.com/dfraws/dfraws/internal/store"
)

// DbClient is the §6 consumer-facing persistence/search facade: a
// thin wrapper pairing internal/store's insert pipeline with
// internal/search's query compiler.
type DbClient struct {
	store *store.Store
}

// InitDBOptions are OpenDbClient's options. ResetDatabase is applied
// when the database is opened. OverwriteRaws is handed back by
// OpenDbClient for the caller to pass to InsertParseResults; the
// client does not store it.
type InitDBOptions struct {
	ResetDatabase bool
	OverwriteRaws bool
}

// OpenDbClient opens a DbClient backed by the SQLite database at path.
func OpenDbClient(path string, opts InitDBOptions, log *zap.Logger) (*DbClient, bool, error) {
	s, err := store.Open(path, store.Options{ResetDatabase: opts.ResetDatabase}, log)
	if err != nil {
		return nil, false, err
	}
	return &DbClient{store: s}, opts.OverwriteRaws, nil
}

// Close releases the underlying database connection.
func (c *DbClient) Close() error { return c.store.Close() }

// InsertParseResults persists a ParseResult's modules and raws, per
// §4.7's insert pipeline: one upsert-by-object_id per module, one
// transaction per module covering all of that module's raws.
func (c *DbClient) InsertParseResults(result *ParseResult, overwriteRaws bool) error {
	moduleIDs := map[string]int64{}
	for _, info := range result.Modules {
		rec := infoFileToModuleRecord(info)
		id, _, err := c.store.InsertModule(rec)
		if err != nil {
			return fmt.Errorf("inserting module %s: %w", info.Identifier, err)
		}
		moduleIDs[info.Name] = id
	}

	fallbackModuleID, err := c.ensureFallbackModule()
	if err != nil {
		return err
	}

	byModule := map[int64][]store.RawRecord{}
	for _, creature := range result.Creatures {
		id := moduleIDs[creature.Metadata.ModuleName]
		if id == 0 {
			id = fallbackModuleID
		}
		byModule[id] = append(byModule[id], creatureToRawRecord(creature))
	}
	for _, obj := range result.Others {
		md := obj.ObjectMetadata()
		id := moduleIDs[md.ModuleName]
		if id == 0 {
			id = fallbackModuleID
		}
		byModule[id] = append(byModule[id], objectToRawRecord(obj))
	}

	for moduleID, recs := range byModule {
		if err := c.store.InsertRaws(moduleID, overwriteRaws, recs); err != nil {
			return fmt.Errorf("inserting raws for module %d: %w", moduleID, err)
		}
	}
	return nil
}

// ensureFallbackModule provides a destination module row for objects
// whose metadata does not name a module that was part of this run
// (e.g. explicit raw files parsed without a manifest).
func (c *DbClient) ensureFallbackModule() (int64, error) {
	id, _, err := c.store.InsertModule(&store.ModuleRecord{
		ObjectID:   "unattached-objects-module",
		Identifier: "unattached",
		Location:   metadata.LocationUnknown,
	})
	return id, err
}

// SearchRaws compiles and executes q, per §6's "search_raws(SearchQuery) -> SearchResults".
func (c *DbClient) SearchRaws(q search.Query) (search.Results, error) {
	return search.Search(c.store.DB(), c.store, q)
}

// Favorites / SetFavorites expose the metadata-marker surface of §6.
func (c *DbClient) Favorites() ([]string, error)        { return c.store.Favorites() }
func (c *DbClient) SetFavorites(favorites []string) error { return c.store.SetFavorites(favorites) }
func (c *DbClient) ReadMarker(key string) (string, bool, error) { return c.store.ReadMarker(key) }
func (c *DbClient) WriteMarker(key, value string) error         { return c.store.WriteMarker(key, value) }

func infoFileToModuleRecord(info *model.InfoFile) *store.ModuleRecord {
	var steamFileID, steamTitle, steamDescription, steamChangelog string
	if info.Steam != nil {
		steamFileID = info.Steam.FileID
		steamTitle = info.Steam.Title
		steamDescription = info.Steam.Description
		steamChangelog = info.Steam.Changelog
	}
	deps := make([]store.DependencyRecord, 0, len(info.Dependencies()))
	for _, d := range info.Dependencies() {
		deps = append(deps, store.DependencyRecord{TargetIdentifier: d.TargetIdentifier, Restriction: string(d.Restriction)})
	}
	return &store.ModuleRecord{
		ObjectID:                         info.ObjectID,
		Identifier:                       info.Identifier,
		NumericVersion:                   info.NumericVersion,
		DisplayVersion:                   info.DisplayVersion,
		EarliestCompatibleNumericVersion: info.EarliestCompatibleNumericVersion,
		EarliestCompatibleDisplayVersion: info.EarliestCompatibleDisplayVersion,
		Name:                             info.Name,
		Author:                           info.Author,
		Description:                      info.Description,
		ParentDirectory:                  info.ParentDirectory,
		Location:                         info.Location,
		SteamFileID:                      steamFileID,
		SteamTitle:                       steamTitle,
		SteamDescription:                 steamDescription,
		SteamChangelog:                   steamChangelog,
		Dependencies:                     deps,
	}
}

func creatureToRawRecord(c *model.Creature) store.RawRecord {
	objectID := metadata.DeriveObjectID(c.Identifier, metadata.ObjectTypeCreature, c.Metadata.ModuleLocation, c.Metadata.ModuleNumericVersion).String()

	names := []string{c.Name.Singular, c.Name.Plural, c.Name.Adjective}
	var flags []string
	for _, caste := range c.Castes {
		for _, tag := range caste.Tags {
			if tag.Value == "" {
				flags = append(flags, tag.Key)
			}
		}
	}
	for _, tag := range c.Tags {
		if tag.Value == "" {
			flags = append(flags, tag.Key)
		}
	}

	return store.RawRecord{
		Identifier: c.Identifier,
		ObjectType: metadata.ObjectTypeCreature,
		ObjectID:   objectID,
		Data:       c,
		Names:      names,
		Flags:      flags,
		NumericFlags: map[string]int{
			"FREQUENCY": c.Frequency,
		},
	}
}

func objectToRawRecord(obj model.Object) store.RawRecord {
	md := obj.ObjectMetadata()
	identifier := obj.ObjectIdentifier()
	objectID := metadata.DeriveObjectID(identifier, md.ObjectType, md.ModuleLocation, md.ModuleNumericVersion).String()
	return store.RawRecord{
		Identifier: identifier,
		ObjectType: md.ObjectType,
		ObjectID:   objectID,
		Data:       obj,
		Names:      []string{identifier},
	}
}
