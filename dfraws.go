// Package dfraws is the library surface of §6: a Parse() entry point
// that ingests Dwarf Fortress raws into a typed object graph, and a
// DbClient facade over internal/store and internal/search for
// persisting and querying that graph.
//
// Grounded on codenerd's cmd/nerd/main.go for the package-root
// facade-over-internal-packages shape (a thin public API wrapping a
// much larger internal/ tree), carried into a library rather than a
// CLI entry point since this module's command-line front end is
// explicitly out of spec scope (§1).
package dfraws

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/module"
	"github.com/dfraws/dfraws/internal/parser"
	"github.com/dfraws/dfraws/internal/resolver"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/tokens"
	"github.com/dfraws/dfraws/internal/unprocessed"
	"github.com/dfraws/dfraws/internal/value"
)

// Options enumerates a parse run's inputs and toggles (§6's "parse(options)").
type Options struct {
	Locations          []metadata.ModuleLocation
	LocationRoots      map[metadata.ModuleLocation][]string
	ObjectTypes        []metadata.ObjectType // empty means "all"
	ExplicitRawFiles   []string
	ExplicitModuleDirs []string
	ExplicitManifests  []string

	AttachMetadata bool
	SkipCopyFrom   bool
	SkipVariations bool
	EmitSummary    bool

	Logger *zap.Logger
}

// ParseResult is the output of a parse run (§6).
type ParseResult struct {
	Creatures []*model.Creature
	Others    []model.Object
	Modules   []*model.InfoFile
}

// Parse runs module discovery, tokenization, object parsing, and
// resolution over the inputs named by opts, per §4.6/§4.5.
//
// Per §7's propagation policy, Parse returns either a ParseResult or
// a single structured error describing why the run could not begin;
// per-object failures never propagate, they only log.
func Parse(opts Options) (*ParseResult, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var modules []*model.InfoFile
	var creatureBuffers []*unprocessed.UnprocessedRaw
	variations := resolver.VariationCatalog{}
	var others []model.Object

	allowed := objectTypeFilter(opts.ObjectTypes)

	processModuleDir := func(dir string, location metadata.ModuleLocation) {
		info, err := module.ParseManifest(dir, location, module.ParseManifestOptions{}, log)
		if err != nil {
			log.Warn("skipping module with unreadable manifest", zap.String("dir", dir), zap.Error(err))
			return
		}
		modules = append(modules, info)

		md := metadata.Metadata{
			ModuleName:           info.Name,
			ModuleNumericVersion: info.NumericVersion,
			ModuleDisplayVersion: info.DisplayVersion,
			ModuleLocation:       location,
		}

		rawFiles, err := filepath.Glob(filepath.Join(dir, "objects", "*.txt"))
		if err != nil {
			log.Warn("globbing raw files", zap.String("dir", dir), zap.Error(err))
			return
		}
		buffers, objs, vars, err := parseRawFiles(rawFiles, md, allowed, log)
		if err != nil {
			log.Warn("parsing raw files", zap.String("dir", dir), zap.Error(err))
			return
		}
		creatureBuffers = append(creatureBuffers, buffers...)
		others = append(others, objs...)
		for id, v := range vars {
			variations[id] = v
		}
	}

	for _, location := range opts.Locations {
		roots := opts.LocationRoots[location]
		found, err := module.Discover(roots, location, log)
		if err != nil {
			return nil, fmt.Errorf("discovering modules for %s: %w", location, err)
		}
		for _, dir := range found {
			processModuleDir(dir, location)
		}
	}

	// ExplicitModuleDirs/ExplicitManifests let a caller name module
	// directories directly, bypassing location-root discovery (§6).
	// Manifests named directly are treated as their containing
	// directory's module, both under metadata.LocationUnknown since
	// neither carries a discovered location root.
	for _, dir := range opts.ExplicitModuleDirs {
		processModuleDir(dir, metadata.LocationUnknown)
	}
	for _, manifestPath := range opts.ExplicitManifests {
		processModuleDir(filepath.Dir(manifestPath), metadata.LocationUnknown)
	}

	for _, path := range opts.ExplicitRawFiles {
		buffers, objs, vars, err := parseRawFiles([]string{path}, metadata.Metadata{}, allowed, log)
		if err != nil {
			log.Warn("parsing explicit raw file", zap.String("path", path), zap.Error(err))
			continue
		}
		creatureBuffers = append(creatureBuffers, buffers...)
		others = append(others, objs...)
		for id, v := range vars {
			variations[id] = v
		}
	}

	if opts.SkipVariations {
		variations = resolver.VariationCatalog{}
	}
	if opts.SkipCopyFrom {
		for _, b := range creatureBuffers {
			b.Modifications = dropCopyTagsFrom(b.Modifications)
		}
	}

	creatures := resolver.Resolve(creatureBuffers, variations, log)

	if opts.EmitSummary {
		log.Info("parse summary",
			zap.Int("modules", len(modules)),
			zap.Int("creatures", len(creatures)),
			zap.Int("other_objects", len(others)),
		)
	}

	return &ParseResult{Creatures: creatures, Others: others, Modules: modules}, nil
}

// objectTypeFilter returns a predicate selecting whether a raw file's
// header object type should be parsed at all, per §6's "ObjectTypes
// (empty means all)". An empty allow-list matches everything.
func objectTypeFilter(allowed []metadata.ObjectType) func(metadata.ObjectType) bool {
	if len(allowed) == 0 {
		return func(metadata.ObjectType) bool { return true }
	}
	set := make(map[metadata.ObjectType]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}
	return func(t metadata.ObjectType) bool {
		_, ok := set[t]
		return ok
	}
}

func dropCopyTagsFrom(mods []unprocessed.Modification) []unprocessed.Modification {
	out := mods[:0]
	for _, m := range mods {
		if m.Kind != unprocessed.CopyTagsFrom {
			out = append(out, m)
		}
	}
	return out
}

// parseRawFiles tokenizes and routes each object header in the given
// files, returning unresolved creature buffers, finished non-creature
// objects, and any creature variations encountered (Phase 0's
// contribution to the catalog, §4.5).
func parseRawFiles(paths []string, md metadata.Metadata, allowed func(metadata.ObjectType) bool, log *zap.Logger) ([]*unprocessed.UnprocessedRaw, []model.Object, map[string]*model.CreatureVariation, error) {
	var buffers []*unprocessed.UnprocessedRaw
	var others []model.Object
	variations := map[string]*model.CreatureVariation{}

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable raw file", zap.String("path", path), zap.Error(err))
			continue
		}
		records, err := token.Tokenize(src)
		if err != nil {
			log.Warn("skipping malformed raw file", zap.String("path", path), zap.Error(err))
			continue
		}
		if len(records) == 0 || records[0].Key != "OBJECT" {
			log.Warn("raw file missing OBJECT header", zap.String("path", path))
			continue
		}
		objectType := metadata.ObjectTypeFromHeader(records[0].Value)
		md.RawFilePath = path
		md.ObjectType = objectType

		// Creature variations are always collected regardless of the
		// object-type filter: Phase 0 of the resolver needs the full
		// catalog even when the caller only asked to persist creatures.
		if objectType != metadata.ObjectTypeCreatureVariation && !allowed(objectType) {
			continue
		}

		// The per-object header key (e.g. CREATURE_GRAPHICS, TILE_PAGE)
		// becomes a graphic's Kind; splitObjectRecords only tracks one
		// header key per call, so a GRAPHICS file mixing more than one
		// object kind is split under its first object's kind only —
		// the same simplification splitObjectRecords already carries
		// for every other object type.
		graphicKind := ""
		if len(records) > 1 {
			graphicKind = records[1].Key
		}

		splitObjectRecords(records[1:], func(identifier string, body []token.Record) {
			switch objectType {
			case metadata.ObjectTypeCreature:
				buffers = append(buffers, buildCreatureBuffer(identifier, md, body, log))
			case metadata.ObjectTypeCreatureVariation:
				variations[identifier] = buildCreatureVariation(identifier, md, body)
			case metadata.ObjectTypeGraphics:
				others = append(others, parser.ParseGraphic(identifier, md, graphicKind, body, log))
			case metadata.ObjectTypeTilePage:
				others = append(others, parser.ParseTilePage(identifier, md, body, log))
			case metadata.ObjectTypePlant:
				others = append(others, parser.ParsePlant(identifier, md, body, log))
			case metadata.ObjectTypeEntity:
				others = append(others, parser.ParseEntity(identifier, md, body, log))
			default:
				others = append(others, &model.Generic{
					Identifier: identifier,
					Metadata:   md,
					Tags:       tagsFrom(body),
				})
			}
		})
	}
	return buffers, others, variations, nil
}

// splitObjectRecords groups a file's post-header records into
// per-object runs: every top-level identifier bracket opens a new
// object whose body runs until the next top-level identifier (§6).
// The key of the first record (e.g. CREATURE) is taken as the
// top-level key: every record with that key opens a new object, its
// value is the identifier (e.g. CREATURE:DWARF, CREATURE:ELF, ...),
// and the records up to the next such record form the object's body.
func splitObjectRecords(records []token.Record, emit func(identifier string, body []token.Record)) {
	if len(records) == 0 {
		return
	}
	headerKey := records[0].Key
	var identifier string
	var body []token.Record
	started := false

	flush := func() {
		if started {
			emit(identifier, body)
		}
	}

	for _, rec := range records {
		if rec.Key == headerKey {
			flush()
			identifier = rec.Value
			body = nil
			started = true
			continue
		}
		body = append(body, rec)
	}
	flush()
}

func buildCreatureBuffer(identifier string, md metadata.Metadata, body []token.Record, log *zap.Logger) *unprocessed.UnprocessedRaw {
	u := unprocessed.New("CREATURE", identifier, md)
	section := unprocessed.MainRawBody
	var pendingTag string

	for _, rec := range body {
		line := rec.Key
		if rec.Value != "" {
			line += ":" + rec.Value
		}
		switch rec.Key {
		case "COPY_TAGS_FROM":
			u.AddCopyTagsFrom(rec.Value)
		case "APPLY_CREATURE_VARIATION":
			args := value.Split(rec.Value)
			if len(args) == 0 {
				continue
			}
			u.AddApplyCreatureVariation(args[0], args[1:])
		case "GO_TO_START":
			section = unprocessed.AddToBeginning
		case "GO_TO_END":
			section = unprocessed.AddToEnding
		case "GO_TO_TAG":
			section = unprocessed.AddBeforeTag
			pendingTag = rec.Value
		default:
			switch section {
			case unprocessed.AddToBeginning:
				u.AddToStart(line)
			case unprocessed.AddToEnding:
				u.AddToEnd(line)
			case unprocessed.AddBeforeTag:
				u.AddBeforeTagRaw(pendingTag, line)
			default:
				u.AddMainRawBody(line)
			}
		}
	}
	return u
}

// buildCreatureVariation dispatches CV_* / CVCT_* tokens into
// tokens.Rule values, grounded on original_source's
// parsed_definitions/raw_object/creature_variation.rs parse_tag: most
// CV_* keywords produce one rule per record, but CVCT_MASTER /
// CVCT_TARGET / CVCT_REPLACEMENT instead mutate the most recently
// appended CV_CONVERT_TAG rule, so this function (unlike the other
// object parsers) needs to see the running rule list rather than
// translate one record at a time.
func buildCreatureVariation(identifier string, md metadata.Metadata, body []token.Record) *model.CreatureVariation {
	cv := &model.CreatureVariation{Identifier: identifier, Metadata: md}
	for _, rec := range body {
		args := value.Split(rec.Value)
		switch rec.Key {
		case "CV_ADD_TAG":
			cv.Rules = append(cv.Rules, tagValueRule(tokens.RuleAddTag, args))
		case "CV_NEW_TAG":
			cv.Rules = append(cv.Rules, tagValueRule(tokens.RuleNewTag, args))
		case "CV_REMOVE_TAG":
			cv.Rules = append(cv.Rules, tagValueRule(tokens.RuleRemoveTag, args))
		case "CV_CONVERT_TAG":
			cv.Rules = append(cv.Rules, tokens.Rule{Kind: tokens.RuleConvertTag})
		case "CVCT_MASTER":
			setLastRuleTag(cv.Rules, firstArg(args))
		case "CVCT_TARGET":
			setLastRuleTarget(cv.Rules, firstArg(args))
		case "CVCT_REPLACEMENT":
			setLastRuleReplacement(cv.Rules, firstArg(args))

		case "CV_CONDITIONAL_ADD_TAG":
			cv.Rules = append(cv.Rules, conditionalTagValueRule(tokens.RuleConditionalAddTag, args))
		case "CV_CONDITIONAL_NEW_TAG":
			cv.Rules = append(cv.Rules, conditionalTagValueRule(tokens.RuleConditionalNewTag, args))
		case "CV_CONDITIONAL_REMOVE_TAG":
			cv.Rules = append(cv.Rules, conditionalTagValueRule(tokens.RuleConditionalRemoveTag, args))
		case "CV_CONDITIONAL_CONVERT_TAG":
			idx, req, _ := value.LabeledArray(args, 1)
			n, _ := value.Integer([]string{idx})
			cv.Rules = append(cv.Rules, tokens.Rule{
				Kind: tokens.RuleConditionalConvertTag, ArgumentIndex: n, ArgumentRequirement: firstArg(req),
			})
		}
	}
	return cv
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func tagValueRule(kind tokens.RuleKind, args []string) tokens.Rule {
	r := tokens.Rule{Kind: kind}
	if len(args) > 0 {
		r.Tag = args[0]
	}
	if len(args) > 1 {
		v := args[1]
		r.Value = &v
	}
	return r
}

// conditionalTagValueRule parses "argument_index:argument_requirement:tag[:value]".
func conditionalTagValueRule(kind tokens.RuleKind, args []string) tokens.Rule {
	r := tokens.Rule{Kind: kind}
	if len(args) > 0 {
		n, _ := value.Integer(args[0:1])
		r.ArgumentIndex = n
	}
	if len(args) > 1 {
		r.ArgumentRequirement = args[1]
	}
	if len(args) > 2 {
		r.Tag = args[2]
	}
	if len(args) > 3 {
		v := args[3]
		r.Value = &v
	}
	return r
}

func setLastRuleTag(rules []tokens.Rule, tag string) {
	if n := len(rules); n > 0 {
		rules[n-1].Tag = tag
	}
}

func setLastRuleTarget(rules []tokens.Rule, target string) {
	if n := len(rules); n > 0 {
		rules[n-1].Target = &target
	}
}

func setLastRuleReplacement(rules []tokens.Rule, replacement string) {
	if n := len(rules); n > 0 {
		rules[n-1].Replacement = &replacement
	}
}

func tagsFrom(records []token.Record) []tokens.Tag {
	out := make([]tokens.Tag, 0, len(records))
	for _, rec := range records {
		out = append(out, tokens.Tag{Key: rec.Key, Value: rec.Value})
	}
	return out
}
