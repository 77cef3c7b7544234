// Package model holds the finished, frozen object types produced by
// the parser and resolver (SPEC_FULL.md §3 DATA MODEL). Objects here
// are constructed empty, populated by parsing, optionally modified by
// the resolver (creatures only), and never mutated again once
// persisted — there are no back-references; cross-object relations
// are identifier-valued, matching the original's arena-like ownership
// (grounded on codenerd's internal/types/types.go value-struct style).
package model

import (
	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/tokens"
)

// NameTriple is the recurring (singular, plural, adjective) name shape
// used by creatures, castes, and several other object kinds.
type NameTriple struct {
	Singular  string
	Plural    string
	Adjective string
}

// Range is an inclusive [Min, Max] numeric range, used for
// cluster-number, population-number, and underground-depth fields.
type Range struct {
	Min int
	Max int
}

// AllCaste is the synthetic caste name that broadcasts to every
// concrete caste (§4.4).
const AllCaste = "ALL"

// Creature is the finished creature object (§3 "Creature entity").
type Creature struct {
	Identifier string
	ObjectID   string // UUID string form; kept as string to avoid a hard uuid dependency on every consumer
	Metadata   metadata.Metadata

	Name NameTriple

	Biomes      []tokens.Biome
	PrefStrings []string
	Tile        string

	Frequency          int
	ClusterNumber      Range
	PopulationNumber   Range
	UndergroundDepth   Range

	Castes []*Caste

	// Tags holds creature-scoped tokens that aren't routed to a typed
	// field — the catch-all vector of §4.3, and the list that
	// CopyTagsFrom/creature-variation rules read and write (§4.5.1,
	// §4.5.2).
	Tags []tokens.Tag

	GeneralBabyName  NameTriple
	GeneralChildName NameTriple
}

// CasteByName returns the named caste, creating and appending it if
// absent. AllCaste is treated like any other name: the first call
// with it creates and appends a caste named "ALL".
func (c *Creature) CasteByName(name string) *Caste {
	for _, caste := range c.Castes {
		if caste.Name == name {
			return caste
		}
	}
	caste := &Caste{Name: name}
	c.Castes = append(c.Castes, caste)
	return caste
}

// Caste is the finished caste object (§3 "Caste entity").
type Caste struct {
	Name        string
	DisplayName NameTriple

	BabyName  NameTriple
	BabyAge   int
	ChildName NameTriple
	ChildAge  int

	Body         []BodyPart
	TissueLayers []TissueLayer
	Attacks      []Attack
	Gaits        []tokens.Gait
	Materials    []string

	// Parameterized properties (§3): the child age is held in ChildAge
	// above, and BodySize{...}, AttackTrigger{...}, NaturalSkill{...}
	// are represented as dedicated slices rather than folded into Tags, since they are
	// fixed-arity records the persistence/search layers query on
	// directly; everything else caste-scoped collapses to Tags.
	BodySizes      []BodySize
	AttackTriggers []AttackTrigger
	NaturalSkills  []NaturalSkill

	ColorModifiers []string

	Tags []tokens.Tag
}

// BodySize is the BodySize{year, days, size_cm3} caste property.
type BodySize struct {
	Year    int
	Days    int
	SizeCM3 int
}

// AttackTrigger is the AttackTrigger{population, exported_wealth,
// created_wealth} caste property.
type AttackTrigger struct {
	Population     int
	ExportedWealth int
	CreatedWealth  int
}

// NaturalSkill is the NaturalSkill{skill, level} caste property.
type NaturalSkill struct {
	Skill string
	Level int
}

// BodyPart is a single body-part entry with its attributes, as
// referenced by a caste's body definition (§3).
type BodyPart struct {
	Token      string
	Category   string
	Attributes []tokens.Tag
}

// TissueLayer is a single tissue-layer entry on a caste.
type TissueLayer struct {
	Tissue    string
	BodyParts []string
}

// Attack is a single caste attack definition.
type Attack struct {
	Name string
	Tags []tokens.Tag
}
