package model

import (
	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/tokens"
)

// Graphic is the finished graphics object (§3 "Graphics"). Layer
// groups and growths preserve insertion order, both of entries within
// a group/growth and of groups/growths themselves, per the §3
// invariant "Graphics layer groups preserve insertion order of layers
// within a group and of groups within the graphic."
type Graphic struct {
	Identifier string
	ObjectID   string
	Metadata   metadata.Metadata

	Kind string

	Sprites []SpriteGraphic

	LayerGroupOrder []string
	LayerGroups     map[string][]SpriteLayer

	GrowthOrder []string
	Growths     map[string][]SpriteGraphic

	CustomExtensions []tokens.Tag
	Tokens           []tokens.Tag
	Palettes         []Palette
}

func (g *Graphic) ObjectIdentifier() string         { return g.Identifier }
func (g *Graphic) ObjectMetadata() metadata.Metadata { return g.Metadata }

// SpriteGraphic is a single sprite reference: a tile page, an offset
// into it, an optional secondary offset for large (multi-tile)
// sprites, and up to two conditions gating when it is shown.
type SpriteGraphic struct {
	TilePageID         string
	OffsetX, OffsetY   int
	SecondaryOffsetX   *int
	SecondaryOffsetY   *int
	PrimaryCondition   *tokens.Condition
	SecondaryCondition *tokens.Condition
}

// SpriteLayer is a single LAYER entry within a layer group, carrying
// its own conditions plus any group-scoped conditions that were
// active at the time it was declared (§4.9).
type SpriteLayer struct {
	Name       string
	Sprite     SpriteGraphic
	Conditions []tokens.Condition
}

// Palette attaches LS_PALETTE / LS_PALETTE_FILE / LS_PALETTE_DEFAULT
// data to the most recently declared palette (§4.9).
type Palette struct {
	Identifier string
	FilePath   string
	Default    bool
}

// TilePage is the finished tile-page object (§3 "TilePage").
type TilePage struct {
	Identifier string
	ObjectID   string
	Metadata   metadata.Metadata

	FilePath string

	TileWidth, TileHeight int
	PageWidth, PageHeight int
}

func (tp *TilePage) ObjectIdentifier() string         { return tp.Identifier }
func (tp *TilePage) ObjectMetadata() metadata.Metadata { return tp.Metadata }
