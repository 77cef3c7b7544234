package model

import (
	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/tokens"
)

// Entity is the finished entity object, holding positions (EntityToken
// PositionToken-routed) and the generic entity tag vector.
type Entity struct {
	Identifier string
	ObjectID   string
	Metadata   metadata.Metadata

	Positions []Position
	Tags      []tokens.Tag
}

func (e *Entity) ObjectIdentifier() string         { return e.Identifier }
func (e *Entity) ObjectMetadata() metadata.Metadata { return e.Metadata }

// Position is a single POSITION definition within an entity
// (PositionToken).
type Position struct {
	Name string
	Tags []tokens.Tag
}
