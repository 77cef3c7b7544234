// Package module implements discovery of Dwarf Fortress module
// directories and parsing of their manifest files into model.InfoFile
// values (§4.6 "Module Discovery & Info Parser").
//
// Grounded on codenerd's internal/types/extract.go for the
// directory-walk-plus-parse shape, and on original_source's manifest
// handling for the token set a manifest actually carries.
package module

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/value"
)

// ManifestFileName is the manifest filename Discover looks for within
// each candidate module directory.
const ManifestFileName = "info.txt"

// Discover walks each root and returns every directory directly
// containing a manifest file — a module per §4.6's definition ("any
// directory containing a manifest file").
func Discover(roots []string, location metadata.ModuleLocation, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var moduleDirs []string
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			log.Warn("failed to read location root", zap.String("root", root), zap.Error(err))
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(root, entry.Name())
			manifestPath := filepath.Join(dir, ManifestFileName)
			if _, err := os.Stat(manifestPath); err == nil {
				moduleDirs = append(moduleDirs, dir)
			}
		}
	}
	return moduleDirs, nil
}

// ParseManifestOptions controls the strictness of manifest parsing
// (§4.6: "Unknown tokens in the manifest warn but do not fail unless
// include_warnings_for_info_file_format is set").
type ParseManifestOptions struct {
	IncludeWarningsForInfoFileFormat bool
}

// ParseManifest tokenizes and parses a module directory's manifest
// file into an InfoFile (§4.6).
func ParseManifest(dir string, location metadata.ModuleLocation, opts ParseManifestOptions, log *zap.Logger) (*model.InfoFile, error) {
	if log == nil {
		log = zap.NewNop()
	}
	path := filepath.Join(dir, ManifestFileName)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	records, err := token.Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("tokenizing manifest %s: %w", path, err)
	}

	info := &model.InfoFile{ParentDirectory: dir, Location: location, Steam: &model.SteamMetadata{KeyValues: map[string]string{}}}

	for _, rec := range records {
		args := value.Split(rec.Value)
		switch rec.Key {
		case "ID":
			v, err := value.Single(args)
			if err == nil {
				info.Identifier = v
			}
		case "NUMERIC_VERSION":
			v, err := value.Integer(args)
			if err == nil {
				info.NumericVersion = v
			}
		case "DISPLAYED_VERSION":
			v, err := value.Single(args)
			if err == nil {
				info.DisplayVersion = v
			}
		case "EARLIEST_COMPATIBLE_NUMERIC_VERSION":
			v, err := value.Integer(args)
			if err == nil {
				info.EarliestCompatibleNumericVersion = v
			}
		case "EARLIEST_COMPATIBLE_DISPLAYED_VERSION":
			v, err := value.Single(args)
			if err == nil {
				info.EarliestCompatibleDisplayVersion = v
			}
		case "NAME":
			v, err := value.Single(args)
			if err == nil {
				info.Name = v
			}
		case "AUTHOR":
			v, err := value.Single(args)
			if err == nil {
				info.Author = v
			}
		case "DESCRIPTION":
			v, err := value.Single(args)
			if err == nil {
				info.Description = v
			}
		case "STEAM_FILE_ID":
			v, err := value.Single(args)
			if err == nil {
				info.Steam.FileID = v
			}
		case "STEAM_TITLE":
			v, err := value.Single(args)
			if err == nil {
				info.Steam.Title = v
			}
		case "STEAM_DESCRIPTION":
			v, err := value.Single(args)
			if err == nil {
				info.Steam.Description = v
			}
		case "STEAM_CHANGELOG":
			v, err := value.Single(args)
			if err == nil {
				info.Steam.Changelog = v
			}
		case "STEAM_TAG":
			v, err := value.Single(args)
			if err == nil {
				info.Steam.Tags = append(info.Steam.Tags, v)
			}
		case "STEAM_KEY_VALUE_TAG":
			k, v, err := value.KeyValue(args)
			if err == nil {
				info.Steam.KeyValues[k] = v
			}
		case "REQUIRES_ID":
			v, err := value.Single(args)
			if err == nil {
				info.Requires = append(info.Requires, v)
			}
		case "CONFLICTS_WITH_ID":
			v, err := value.Single(args)
			if err == nil {
				info.ConflictsWith = append(info.ConflictsWith, v)
			}
		case "REQUIRES_ID_BEFORE_ME":
			v, err := value.Single(args)
			if err == nil {
				info.RequiresBefore = append(info.RequiresBefore, v)
			}
		case "REQUIRES_ID_AFTER_ME":
			v, err := value.Single(args)
			if err == nil {
				info.RequiresAfter = append(info.RequiresAfter, v)
			}
		case "OBJECT":
			// header of the manifest's own pseudo-object; not a real token.
		default:
			log.Warn("unknown manifest token", zap.String("key", rec.Key), zap.Int("line", rec.Line))
			if opts.IncludeWarningsForInfoFileFormat {
				return nil, fmt.Errorf("unknown manifest token %s at line %d in %s", rec.Key, rec.Line, path)
			}
		}
	}

	info.ObjectID = metadata.DeriveModuleObjectID(info.Identifier, info.NumericVersion, location, dir).String()
	return info, nil
}
