package model

import (
	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/tokens"
)

// CreatureVariation is the finished creature-variation object (§3
// "Creature variation"): an identifier plus an ordered list of rules.
// Rule ordering is significant — §4.5.3 requires directives (and,
// transitively, the rules within an applied variation) to execute
// strictly in source order.
type CreatureVariation struct {
	Identifier string
	ObjectID   string
	Metadata   metadata.Metadata

	Rules []tokens.Rule
}

func (cv *CreatureVariation) ObjectIdentifier() string         { return cv.Identifier }
func (cv *CreatureVariation) ObjectMetadata() metadata.Metadata { return cv.Metadata }
