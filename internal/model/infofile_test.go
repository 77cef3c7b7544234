package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoFileDependenciesFlattensAllFourLists(t *testing.T) {
	info := &InfoFile{
		Requires:       []string{"a"},
		ConflictsWith:  []string{"b"},
		RequiresBefore: []string{"c"},
		RequiresAfter:  []string{"d"},
	}
	deps := info.Dependencies()
	require.Len(t, deps, 4)
	want := map[string]DependencyRestriction{
		"a": RestrictionRequires,
		"b": RestrictionConflicts,
		"c": RestrictionBefore,
		"d": RestrictionAfter,
	}
	for _, d := range deps {
		assert.Equal(t, want[d.TargetIdentifier], d.Restriction, "unexpected restriction for %s", d.TargetIdentifier)
	}
}
