package parser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/tokens"
	"github.com/dfraws/dfraws/internal/value"
)

// treeTokens and shrubTokens are the small closed sets of TREE_TOKENS/
// SHRUB_TOKENS keywords this parser recognizes. original_source's
// raw_definitions module that builds these tables wasn't part of the
// retrieved source tree (only parsed_definitions/plant.rs's dispatch
// that consults them was retrieved), so the keyword lists below are
// supplemented from the stable, documented Dwarf Fortress plant raw
// vocabulary rather than invented wholesale — same fallback as
// internal/tokens/biome.go and internal/parser/graphics.go.
var treeTokens = map[string]struct{}{
	"TRUNK_NAME": {}, "TRUNK_PERIOD": {}, "TRUNK_WIDTH": {}, "TRUNK_HEIGHT": {},
	"BRANCH_DENSITY": {}, "BRANCH_RADIUS": {}, "ROOT_NAME": {}, "ROOT_RADIUS": {},
	"TWIGS": {}, "TWIGS_PERIOD": {}, "HEIGHT_TO_GROW_NEW_TRUNK_BRANCH": {},
}

var shrubTokens = map[string]struct{}{
	"SHRUB_TILE": {}, "DEAD_SHRUB_TILE": {}, "SHRUB_COLOR": {}, "DEAD_SHRUB_COLOR": {},
}

// ParsePlant walks a flattened token sequence into a Plant, grounded
// on parsed_definitions/plant.rs's parse_tag dispatch: TREE_TOKENS
// keys route to a lazily-created Tree, SHRUB_TOKENS keys to a lazily-
// created Shrub, a bare GROWTH opens a new named growth section
// (growth-scoped tokens conventionally carry the GROWTH_ prefix in
// the real raw vocabulary, per plant_growth.rs's GROWTH_NAME/
// GROWTH_ITEM/GROWTH_HOST_TILE/GROWTH_TRUNK_HEIGHT_PERCENT/
// GROWTH_DENSITY/GROWTH_TIMING/GROWTH_PRINT keys), and anything else
// unrecognized falls through to the plant's own catch-all Tags vector
// (§4.3 kind 3).
func ParsePlant(identifier string, md metadata.Metadata, records []token.Record, log *zap.Logger) *model.Plant {
	if log == nil {
		log = zap.NewNop()
	}
	p := &model.Plant{Identifier: identifier, Metadata: md, Frequency: 50}

	for _, rec := range records {
		args := value.Split(rec.Value)

		switch rec.Key {
		case "NAME":
			n, err := value.Array(args, 3)
			if err != nil {
				log.Warn("bad plant NAME", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			p.Name = model.NameTriple{Singular: n[0], Plural: n[1], Adjective: n[2]}
			continue
		case "NAME_SINGULAR":
			if v, err := value.Single(args); err == nil {
				p.Name.Singular = v
			}
			continue
		case "NAME_PLURAL":
			if v, err := value.Single(args); err == nil {
				p.Name.Plural = v
			}
			continue
		case "NAME_ADJECTIVE":
			if v, err := value.Single(args); err == nil {
				p.Name.Adjective = v
			}
			continue
		case "BIOME":
			v, err := value.Single(args)
			if err != nil {
				log.Warn("bad plant BIOME", zap.Int("line", rec.Line))
				continue
			}
			p.Biomes = append(p.Biomes, tokens.ParseBiome(v))
			continue
		case "FREQUENCY":
			n, err := value.Integer(args)
			if err != nil {
				log.Warn("bad FREQUENCY", zap.Int("line", rec.Line))
				continue
			}
			p.Frequency = n
			continue
		case "CLUSTER_SIZE":
			n, err := value.Integer(args)
			if err != nil {
				log.Warn("bad CLUSTER_SIZE", zap.Int("line", rec.Line))
				continue
			}
			p.ClusterSize = n
			continue
		case "GROWTH":
			name, err := value.Single(args)
			if err != nil {
				log.Warn("bad GROWTH", zap.Int("line", rec.Line))
				continue
			}
			p.Growths = append(p.Growths, model.PlantGrowth{Name: name})
			continue
		}

		if _, ok := treeTokens[rec.Key]; ok {
			if p.Tree == nil {
				p.Tree = &model.Tree{}
			}
			p.Tree.Tags = append(p.Tree.Tags, tokens.Tag{Key: rec.Key, Value: rec.Value})
			continue
		}
		if _, ok := shrubTokens[rec.Key]; ok {
			if p.Shrub == nil {
				p.Shrub = &model.Shrub{}
			}
			p.Shrub.Tags = append(p.Shrub.Tags, tokens.Tag{Key: rec.Key, Value: rec.Value})
			continue
		}
		if strings.HasPrefix(rec.Key, "GROWTH_") {
			if len(p.Growths) == 0 {
				log.Warn("growth tag out of order (not after a GROWTH)", zap.String("key", rec.Key), zap.Int("line", rec.Line))
				continue
			}
			last := &p.Growths[len(p.Growths)-1]
			last.Tags = append(last.Tags, tokens.Tag{Key: rec.Key, Value: rec.Value})
			continue
		}

		p.Tags = append(p.Tags, tokens.Tag{Key: rec.Key, Value: rec.Value})
	}

	return p
}
