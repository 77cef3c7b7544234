package model

import "github.com/dfraws/dfraws/internal/metadata"

// SteamMetadata carries the optional Steam Workshop fields a manifest
// may declare (§3 "InfoFile (module manifest)").
type SteamMetadata struct {
	FileID      string
	Title       string
	Description string
	Changelog   string
	Tags        []string
	KeyValues   map[string]string
}

// DependencyRestriction is one of the four module_restriction_rules
// kinds (§6 "module_restriction_rules = {1:REQUIRES, 2:CONFLICTS,
// 3:BEFORE, 4:AFTER}").
type DependencyRestriction string

const (
	RestrictionRequires  DependencyRestriction = "REQUIRES"
	RestrictionConflicts DependencyRestriction = "CONFLICTS"
	RestrictionBefore    DependencyRestriction = "BEFORE"
	RestrictionAfter     DependencyRestriction = "AFTER"
)

// Dependency is a single module dependency/restriction edge
// ((module_id, target_identifier, restriction_type_id) in §4.7).
type Dependency struct {
	TargetIdentifier string
	Restriction      DependencyRestriction
}

// InfoFile is the finished module manifest object (§3 "InfoFile").
type InfoFile struct {
	Identifier                         string
	NumericVersion                     int
	DisplayVersion                     string
	EarliestCompatibleNumericVersion   int
	EarliestCompatibleDisplayVersion   string
	Name                               string
	Author                             string
	Description                        string
	ParentDirectory                    string
	Location                           metadata.ModuleLocation

	Steam *SteamMetadata

	Requires       []string
	ConflictsWith  []string
	RequiresBefore []string
	RequiresAfter  []string

	ObjectID string
}

// Dependencies flattens the four dependency lists into the
// restriction-tagged edges the persistence layer's
// module_dependencies table expects (§4.7).
func (i *InfoFile) Dependencies() []Dependency {
	deps := make([]Dependency, 0, len(i.Requires)+len(i.ConflictsWith)+len(i.RequiresBefore)+len(i.RequiresAfter))
	for _, id := range i.Requires {
		deps = append(deps, Dependency{TargetIdentifier: id, Restriction: RestrictionRequires})
	}
	for _, id := range i.ConflictsWith {
		deps = append(deps, Dependency{TargetIdentifier: id, Restriction: RestrictionConflicts})
	}
	for _, id := range i.RequiresBefore {
		deps = append(deps, Dependency{TargetIdentifier: id, Restriction: RestrictionBefore})
	}
	for _, id := range i.RequiresAfter {
		deps = append(deps, Dependency{TargetIdentifier: id, Restriction: RestrictionAfter})
	}
	return deps
}
