package model

import "github.com/dfraws/dfraws/internal/tokens"

// CopyTagsFrom overlays src onto the creature under construction,
// per §4.5.1:
//
//   - Scalar/struct fields on the target are overlaid by src's fields
//     only where the target's field is still at its zero value.
//   - Tag lists are concatenated: source tags first, then whatever
//     tags are already present on the target.
//   - Castes are adopted by identifier: a caste src has that the
//     target lacks is inserted wholesale; a caste both share has
//     src's tags appended to the target caste's existing tags.
//
// dst is mutated in place. src must already be a fully resolved
// creature (§4.5 Phase 2 precondition).
func CopyTagsFrom(dst, src *Creature) {
	if dst.Name == (NameTriple{}) {
		dst.Name = src.Name
	}
	if len(dst.Biomes) == 0 && len(src.Biomes) > 0 {
		dst.Biomes = append([]tokens.Biome{}, src.Biomes...)
	}
	if len(dst.PrefStrings) == 0 && len(src.PrefStrings) > 0 {
		dst.PrefStrings = append([]string{}, src.PrefStrings...)
	}
	if dst.Tile == "" {
		dst.Tile = src.Tile
	}
	if dst.Frequency == 0 {
		dst.Frequency = src.Frequency
	}
	if dst.ClusterNumber == (Range{}) {
		dst.ClusterNumber = src.ClusterNumber
	}
	if dst.PopulationNumber == (Range{}) {
		dst.PopulationNumber = src.PopulationNumber
	}
	if dst.UndergroundDepth == (Range{}) {
		dst.UndergroundDepth = src.UndergroundDepth
	}
	if dst.GeneralBabyName == (NameTriple{}) {
		dst.GeneralBabyName = src.GeneralBabyName
	}
	if dst.GeneralChildName == (NameTriple{}) {
		dst.GeneralChildName = src.GeneralChildName
	}

	merged := make([]tokens.Tag, 0, len(src.Tags)+len(dst.Tags))
	merged = append(merged, src.Tags...)
	merged = append(merged, dst.Tags...)
	dst.Tags = merged

	for _, srcCaste := range src.Castes {
		target := findCaste(dst.Castes, srcCaste.Name)
		if target == nil {
			copied := *srcCaste
			dst.Castes = append(dst.Castes, &copied)
			continue
		}
		target.Tags = append(target.Tags, srcCaste.Tags...)
	}
}

func findCaste(castes []*Caste, name string) *Caste {
	for _, c := range castes {
		if c.Name == name {
			return c
		}
	}
	return nil
}
