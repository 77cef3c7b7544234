package model

import (
	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/tokens"
)

// Plant is the finished plant object. Trees, shrubs, and growths are
// modeled as optional sub-structures rather than separate object
// types, mirroring how a single PLANT raw body carries tree-only or
// shrub-only tokens interleaved with shared ones.
type Plant struct {
	Identifier string
	ObjectID   string
	Metadata   metadata.Metadata

	Name NameTriple

	Biomes      []tokens.Biome
	Frequency   int
	ClusterSize int

	Tree    *Tree
	Shrub   *Shrub
	Growths []PlantGrowth

	Tags []tokens.Tag
}

func (p *Plant) ObjectIdentifier() string         { return p.Identifier }
func (p *Plant) ObjectMetadata() metadata.Metadata { return p.Metadata }

// Tree holds TreeToken-routed fields (§3 token variants: TreeToken).
type Tree struct {
	Tags []tokens.Tag
}

// Shrub holds ShrubToken-routed fields.
type Shrub struct {
	Tags []tokens.Tag
}

// PlantGrowth is a single GROWTH definition on a plant
// (PlantGrowthToken).
type PlantGrowth struct {
	Name string
	Tags []tokens.Tag
}
