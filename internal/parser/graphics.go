package parser

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/tokens"
	"github.com/dfraws/dfraws/internal/value"
)

// customGraphicTokens and growthTokens are the small closed sets of
// CUSTOM_GRAPHIC_TOKENS/GROWTH_TOKENS keywords this parser recognizes
// (§4.9). original_source's raw_definitions module that builds these
// tables wasn't part of the retrieved source tree (only the dispatch
// that consults them, in parsed_definitions/graphic.rs and
// definitions/graphic.rs, was retrieved), so the keyword lists below
// are supplemented from the stable, publicly documented Dwarf
// Fortress graphics raw vocabulary rather than invented wholesale —
// the same approach taken for internal/tokens/biome.go.
var customGraphicTokens = map[string]struct{}{
	"CONDITION_DYE":           {},
	"CONDITION_MATERIAL_FLAG": {},
	"CONDITION_MATERIAL_TYPE": {},
	"CONDITION_ITEM_WORN":     {},
	"CONDITION_SHUT":          {},
	"CONDITION_SYN_CLASS":     {},
}

var growthTokens = map[string]struct{}{
	"LEAVES": {}, "FRUIT": {}, "SPATHE": {}, "POD": {}, "BUD": {},
	"SEED_CATKINS": {}, "POLLEN_CATKINS": {}, "FLOWERS": {}, "NUT": {},
	"CONE": {}, "GROWTH_1": {}, "GROWTH_2": {}, "GROWTH_3": {}, "GROWTH_4": {},
}

var plantGraphicTemplateTokens = map[string]struct{}{
	"STANDARD_TILES": {}, "TREE_TILES": {}, "SAPLING_TILES": {}, "SHRUB_TILES": {},
}

// ParseTilePage walks a flattened token sequence into a TilePage.
// Its token vocabulary (FILE/TILE_DIM/PAGE_DIM) isn't covered by any
// retrieved original_source file — no tile_page.rs was part of the
// retrieved tree — so it's grounded directly on the stable, publicly
// documented Dwarf Fortress TILE_PAGE raw format rather than on a
// specific source file, the same fallback used for
// internal/tokens/biome.go's keyword table.
func ParseTilePage(identifier string, md metadata.Metadata, records []token.Record, log *zap.Logger) *model.TilePage {
	if log == nil {
		log = zap.NewNop()
	}
	tp := &model.TilePage{Identifier: identifier, Metadata: md}

	for _, rec := range records {
		args := value.Split(rec.Value)
		switch rec.Key {
		case "FILE":
			v, err := value.Single(args)
			if err != nil {
				log.Warn("bad TILE_PAGE FILE", zap.Int("line", rec.Line))
				continue
			}
			tp.FilePath = v
		case "TILE_DIM":
			dims, err := value.UintArray(args, 2)
			if err != nil {
				log.Warn("bad TILE_DIM", zap.Int("line", rec.Line))
				continue
			}
			tp.TileWidth, tp.TileHeight = int(dims[0]), int(dims[1])
		case "PAGE_DIM":
			dims, err := value.UintArray(args, 2)
			if err != nil {
				log.Warn("bad PAGE_DIM", zap.Int("line", rec.Line))
				continue
			}
			tp.PageWidth, tp.PageHeight = int(dims[0]), int(dims[1])
		}
	}

	return tp
}

// ParseGraphic walks a flattened token sequence into a Graphic,
// implementing the layer/growth/palette cursor described in §4.9:
// LAYER_SET opens a named layer group and enters layer mode, LAYER
// appends a sprite layer to whichever group was opened last (or a
// synthesized "default" group if none was), LAYER_GROUP/END_LAYER_GROUP
// toggle layer mode without naming a group, GROWTH opens a named growth
// section, LS_PALETTE* tokens attach to the most recently opened
// palette, and — while in layer mode — any token this function doesn't
// otherwise recognize is treated as a condition on the last layer of
// the last group rather than a plain sprite. A third cursor, the
// active group-condition list, buffers LG_CONDITION_BP entries and
// copies them onto every LAYER added before the group ends
// (LAYER_SET or END_LAYER_GROUP both clear it).
func ParseGraphic(identifier string, md metadata.Metadata, kind string, records []token.Record, log *zap.Logger) *model.Graphic {
	if log == nil {
		log = zap.NewNop()
	}
	g := &model.Graphic{
		Identifier:  identifier,
		Metadata:    md,
		Kind:        kind,
		LayerGroups: map[string][]model.SpriteLayer{},
		Growths:     map[string][]model.SpriteGraphic{},
	}
	layerMode := false
	var groupConditions []tokens.Condition

	for _, rec := range records {
		key, raw := rec.Key, rec.Value

		switch key {
		case "LS_PALETTE":
			name, err := value.Single(value.Split(raw))
			if err != nil {
				log.Warn("bad LS_PALETTE", zap.Int("line", rec.Line))
				continue
			}
			g.Palettes = append(g.Palettes, model.Palette{Identifier: name})
			continue
		case "LS_PALETTE_FILE":
			if len(g.Palettes) == 0 {
				log.Warn("LS_PALETTE_FILE out of order (no open palette)", zap.Int("line", rec.Line))
				continue
			}
			g.Palettes[len(g.Palettes)-1].FilePath = raw
			continue
		case "LS_PALETTE_DEFAULT":
			if len(g.Palettes) == 0 {
				log.Warn("LS_PALETTE_DEFAULT out of order (no open palette)", zap.Int("line", rec.Line))
				continue
			}
			g.Palettes[len(g.Palettes)-1].Default = true
			continue

		case "LAYER_SET":
			groupConditions = nil
			addLayerGroup(g, raw)
			layerMode = true
			continue
		case "LAYER":
			layer := parseSpriteLayer(raw)
			if layer != nil {
				layer.Conditions = append(layer.Conditions, groupConditions...)
			}
			appendLayer(g, layer)
			layerMode = true
			continue
		case "LAYER_GROUP":
			layerMode = true
			continue
		case "END_LAYER_GROUP":
			groupConditions = nil
			layerMode = false
			continue
		case "LG_CONDITION_BP":
			// LG_CONDITION_BP gates an entire layer group on a body
			// part, accepting the same selection tokens CONDITION_BP
			// does (original_source's definitions/graphic.rs); it
			// buffers onto the active group and is copied onto every
			// LAYER added to that group until the group ends.
			groupConditions = append(groupConditions, tokens.ConditionBPCondition)
			continue

		case "TREE_TILE":
			continue

		case "GROWTH":
			g.GrowthOrder = append(g.GrowthOrder, raw)
			if _, ok := g.Growths[raw]; !ok {
				g.Growths[raw] = nil
			}
			continue
		}

		if raw == "" {
			g.Tokens = append(g.Tokens, tokens.Tag{Key: key})
			continue
		}

		args := value.Split(raw)

		if _, ok := customGraphicTokens[key]; ok {
			g.CustomExtensions = append(g.CustomExtensions, tokens.Tag{Key: key, Value: raw})
			continue
		}

		_, isGrowthToken := growthTokens[key]
		_, isPlantTemplateToken := plantGraphicTemplateTokens[key]
		if isGrowthToken || isPlantTemplateToken {
			sprite := parseSpriteGraphicArgs(args)
			if sprite == nil {
				log.Warn("bad growth sprite token", zap.String("key", key), zap.Int("line", rec.Line))
				continue
			}
			if len(g.GrowthOrder) == 0 {
				log.Warn("growth token out of order (not after a GROWTH)", zap.String("key", key), zap.Int("line", rec.Line))
				continue
			}
			last := g.GrowthOrder[len(g.GrowthOrder)-1]
			g.Growths[last] = append(g.Growths[last], *sprite)
			continue
		}

		if layerMode {
			// ISSUE_MIN_LENGTH is a known typo in one shipped raw mod
			// (original_source's parse_condition_token carries the
			// same carve-out); silently drop it rather than warn on
			// every load of that mod.
			if key == "ISSUE_MIN_LENGTH" {
				continue
			}
			appendLayerCondition(g, tokens.ParseCondition(key), log)
			continue
		}

		sprite := parseSpriteGraphicArgs(args)
		if sprite == nil {
			log.Warn("unrecognized graphic token", zap.String("key", key), zap.Int("line", rec.Line))
			continue
		}
		g.Sprites = append(g.Sprites, *sprite)
	}

	return g
}

// addLayerGroup creates name as a new (empty) layer group unless one
// by that name already exists (§4.9: LAYER_SET reuses an existing
// group of the same name instead of duplicating it).
func addLayerGroup(g *model.Graphic, name string) {
	if _, ok := g.LayerGroups[name]; ok {
		return
	}
	g.LayerGroups[name] = nil
	g.LayerGroupOrder = append(g.LayerGroupOrder, name)
}

// appendLayer appends layer to the last layer group, synthesizing a
// "default" group first if LAYER_SET was never seen (§4.9).
func appendLayer(g *model.Graphic, layer *model.SpriteLayer) {
	if layer == nil {
		return
	}
	if len(g.LayerGroupOrder) == 0 {
		addLayerGroup(g, "default")
	}
	last := g.LayerGroupOrder[len(g.LayerGroupOrder)-1]
	g.LayerGroups[last] = append(g.LayerGroups[last], *layer)
}

// appendLayerCondition attaches cond to the last layer of the last
// layer group. A token arriving before any LAYER is logged and
// dropped rather than attached nowhere.
func appendLayerCondition(g *model.Graphic, cond tokens.Condition, log *zap.Logger) {
	if len(g.LayerGroupOrder) == 0 {
		log.Warn("layer condition out of order (no open layer group)")
		return
	}
	last := g.LayerGroupOrder[len(g.LayerGroupOrder)-1]
	layers := g.LayerGroups[last]
	if len(layers) == 0 {
		log.Warn("layer condition out of order (no layer in group)", zap.String("group", last))
		return
	}
	layers[len(layers)-1].Conditions = append(layers[len(layers)-1].Conditions, cond)
}

func parseSpriteLayer(raw string) *model.SpriteLayer {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 {
		return nil
	}
	name := parts[0]
	sprite := parseSpriteGraphicArgs(parts[1:])
	if sprite == nil {
		return nil
	}
	return &model.SpriteLayer{Name: name, Sprite: *sprite}
}

// parseSpriteGraphicArgs parses a tile page id followed by either a
// plain X:Y offset or a LARGE_IMAGE:x1:y1:x2:y2 large-sprite offset,
// with up to two trailing condition keywords. Grounded on
// sprite_layer.rs's SpriteLayer::parse_layer_from_value (the layer
// variant of this same shape) — SpriteGraphic::from_token's own
// source wasn't part of the retrieved tree, so the plain (non-layer)
// case below is inferred from that sibling parser plus
// model.SpriteGraphic's field shape (TilePageID/OffsetX/OffsetY/
// SecondaryOffset*/PrimaryCondition/SecondaryCondition all line up
// with what parse_layer_from_value already builds).
func parseSpriteGraphicArgs(args []string) *model.SpriteGraphic {
	if len(args) < 3 {
		return nil
	}
	sprite := &model.SpriteGraphic{TilePageID: args[0]}
	rest := args[1:]

	if rest[0] == "LARGE_IMAGE" {
		if len(rest) < 5 {
			return nil
		}
		x1, err1 := strconv.Atoi(rest[1])
		y1, err2 := strconv.Atoi(rest[2])
		x2, err3 := strconv.Atoi(rest[3])
		y2, err4 := strconv.Atoi(rest[4])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil
		}
		sprite.OffsetX, sprite.OffsetY = x1, y1
		sprite.SecondaryOffsetX, sprite.SecondaryOffsetY = &x2, &y2
		rest = rest[5:]
	} else {
		if len(rest) < 2 {
			return nil
		}
		x, err1 := strconv.Atoi(rest[0])
		y, err2 := strconv.Atoi(rest[1])
		if err1 != nil || err2 != nil {
			return nil
		}
		sprite.OffsetX, sprite.OffsetY = x, y
		rest = rest[2:]
	}

	if len(rest) >= 1 {
		c := tokens.ParseCondition(rest[0])
		sprite.PrimaryCondition = &c
	}
	if len(rest) >= 2 {
		c := tokens.ParseCondition(rest[1])
		sprite.SecondaryCondition = &c
	}
	return sprite
}
