package model

import (
	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/tokens"
)

// Object is implemented by every finished object kind so that
// generic stages (persistence, search indexing) can operate over a
// mixed list without a type switch per call site (§9 "tagged unions
// over inheritance" — the closed set is enumerated in metadata.ObjectType,
// and this interface is the exhaustive-visitor analogue for a
// language without sum types).
type Object interface {
	ObjectIdentifier() string
	ObjectMetadata() metadata.Metadata
}

// Generic is the catch-all object representation for object types
// the spec names but does not give a bespoke field-level shape beyond
// "an identifier, metadata, and a tag vector" (SelectCreature,
// Inorganic, MaterialTemplate, BodyDetailPlan, Body, Language,
// Translation, TissueTemplate, TextSet, DescriptorColor,
// DescriptorPattern, DescriptorShape, Palette, Music, Sound,
// Interaction, Reaction, Building and its two subtypes, Item and its
// fifteen subtypes). Every token not routed to a dedicated field
// collapses to the Tags catch-all per §4.3.
type Generic struct {
	Identifier string
	ObjectID   string
	Metadata   metadata.Metadata
	Tags       []tokens.Tag
}

func (g *Generic) ObjectIdentifier() string            { return g.Identifier }
func (g *Generic) ObjectMetadata() metadata.Metadata    { return g.Metadata }

func (c *Creature) ObjectIdentifier() string         { return c.Identifier }
func (c *Creature) ObjectMetadata() metadata.Metadata { return c.Metadata }
