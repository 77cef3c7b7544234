// Package resolver implements the two-phase module/raw resolver of
// §4.5: it turns unprocessed creature buffers, a catalog of creature
// variations, and (for Phase 2) a catalog of already-resolved
// creatures into finished Creature objects.
//
// Grounded on original_source's parser/parse.rs (the simple/complex
// split and phase ordering) and reader/unprocessed_raw.rs::resolve
// (per-buffer collapse-then-apply algorithm), adapted to the ordering
// decision recorded in DESIGN.md: CopyTagsFrom directives apply in
// full before any ApplyCreatureVariation directive, rather than the
// original's modification-order interleaving, because §4.5's four
// numbered steps specify that as the literal contract.
package resolver

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/parser"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/tokens"
	"github.com/dfraws/dfraws/internal/unprocessed"
)

// VariationCatalog is the Phase 0 result: every CreatureVariation
// parsed across all modules, keyed by identifier (case-sensitive; the
// spec only requires case-insensitivity for CopyTagsFrom lookups).
type VariationCatalog map[string]*model.CreatureVariation

// CreatureCatalog is the running set of resolved creatures, keyed by
// uppercased identifier so CopyTagsFrom lookups in §4.5.1 are
// case-insensitive as §9 requires. Multiple creatures may share an
// identifier across modules; the catalog keeps every entry, and
// Lookup returns the highest module-numeric-version one, per §4.5 step 2.
type CreatureCatalog struct {
	byIdentifier map[string][]*model.Creature
}

// NewCreatureCatalog returns an empty catalog.
func NewCreatureCatalog() *CreatureCatalog {
	return &CreatureCatalog{byIdentifier: make(map[string][]*model.Creature)}
}

// Add registers a resolved creature for later CopyTagsFrom lookups.
func (cc *CreatureCatalog) Add(c *model.Creature) {
	key := strings.ToUpper(c.Identifier)
	cc.byIdentifier[key] = append(cc.byIdentifier[key], c)
}

// Lookup returns the creature with the given identifier (case
// insensitive) that has the highest module_numeric_version, or nil if
// none exists (§4.5.1).
func (cc *CreatureCatalog) Lookup(identifier string) *model.Creature {
	candidates := cc.byIdentifier[strings.ToUpper(identifier)]
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Metadata.ModuleNumericVersion > best.Metadata.ModuleNumericVersion {
			best = c
		}
	}
	return best
}

// Resolve runs the full three-phase resolution of §4.5 over a set of
// unprocessed creature buffers and the variation catalog built in
// Phase 0, returning the finished creatures in (Phase 1 order, Phase
// 2 source order) — the ordering Phase-2 buffers need to observe
// earlier creatures deterministically.
func Resolve(buffers []*unprocessed.UnprocessedRaw, variations VariationCatalog, log *zap.Logger) []*model.Creature {
	if log == nil {
		log = zap.NewNop()
	}

	var simple, complex []*unprocessed.UnprocessedRaw
	for _, b := range buffers {
		if b.IsSimple() {
			simple = append(simple, b)
		} else {
			complex = append(complex, b)
		}
	}

	catalog := NewCreatureCatalog()
	results := make([]*model.Creature, 0, len(buffers))

	for _, b := range simple {
		c := resolveOne(b, variations, catalog, log)
		catalog.Add(c)
		results = append(results, c)
	}
	for _, b := range complex {
		c := resolveOne(b, variations, catalog, log)
		catalog.Add(c)
		results = append(results, c)
	}
	return results
}

// resolveOne runs the four-step algorithm of §4.5 against a single
// buffer.
func resolveOne(b *unprocessed.UnprocessedRaw, variations VariationCatalog, catalog *CreatureCatalog, log *zap.Logger) *model.Creature {
	c := &model.Creature{Identifier: b.Identifier, Metadata: b.Metadata}

	// Step 2: CopyTagsFrom, in source order.
	for _, m := range b.CopyTagsFromDirectives() {
		src := catalog.Lookup(m.Identifier)
		if src == nil {
			log.Warn("copy-tags-from target not found", zap.String("identifier", m.Identifier))
			continue
		}
		model.CopyTagsFrom(c, src)
	}

	// Step 3: ApplyCreatureVariation, in source order.
	for _, m := range b.ApplyCreatureVariationDirectives() {
		variation, ok := variations[m.VariationID]
		if !ok {
			log.Warn("creature variation not found", zap.String("identifier", m.VariationID))
			continue
		}
		for _, rule := range variation.Rules {
			concrete := rule.WithArgs(m.Args)
			c.Tags = concrete.Apply(c.Tags, m.Args, func(msg string) {
				log.Warn(msg, zap.String("variation", m.VariationID))
			})
		}
	}

	// Step 1 (computed lazily here since it doesn't depend on steps
	// 2/3) + Step 4: parse the flattened body.
	records := toRecords(b.Collapse())
	parsed := parser.ParseCreature(b.Identifier, b.Metadata, records, log)

	// original_source's collapse_modifications() always relocates the
	// body modification to the end of the modification vector, so the
	// body is applied last: [copy-from tags] ++ [variation tags] ++
	// [body tags], never the reverse.
	parsed.Tags = prependTags(c.Tags, parsed.Tags)
	for _, caste := range c.Castes {
		target := parsed.CasteByName(caste.Name)
		target.Tags = prependTags(caste.Tags, target.Tags)
	}
	parsed.Metadata = b.Metadata
	return parsed
}

// prependTags returns front followed by back, without mutating either
// slice's backing array.
func prependTags(front, back []tokens.Tag) []tokens.Tag {
	out := make([]tokens.Tag, 0, len(front)+len(back))
	out = append(out, front...)
	out = append(out, back...)
	return out
}

func toRecords(lines []string) []token.Record {
	records := make([]token.Record, 0, len(lines))
	for _, line := range lines {
		key, val := splitKeyValue(line)
		records = append(records, token.Record{Key: key, Value: val})
	}
	return records
}

func splitKeyValue(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// ObjectID derives and returns the deterministic object_id for a
// resolved creature, per §3's identity invariant; it does not set it
// on the creature.
func ObjectID(c *model.Creature) string {
	return metadata.DeriveObjectID(c.Identifier, metadata.ObjectTypeCreature, c.Metadata.ModuleLocation, c.Metadata.ModuleNumericVersion).String()
}
