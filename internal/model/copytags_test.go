package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfraws/dfraws/internal/tokens"
)

func TestCopyTagsFromConcatenatesSourceFirst(t *testing.T) {
	src := &Creature{
		Identifier: "BASE",
		Tags:       []tokens.Tag{{Key: "FLIER", Value: ""}},
		Castes:     []*Caste{{Name: AllCaste, Tags: []tokens.Tag{{Key: "PETVALUE", Value: "20"}}}},
	}
	dst := &Creature{
		Identifier: "DERIVED",
		Tags:       []tokens.Tag{{Key: "LARGE_ROAMING", Value: ""}},
	}

	CopyTagsFrom(dst, src)

	require.Len(t, dst.Tags, 2, "expected source tags first")
	assert.Equal(t, "FLIER", dst.Tags[0].Key)
	assert.Equal(t, "LARGE_ROAMING", dst.Tags[1].Key)
}

func TestCopyTagsFromAdoptsNewCasteAndMergesExisting(t *testing.T) {
	src := &Creature{
		Castes: []*Caste{
			{Name: AllCaste, Tags: []tokens.Tag{{Key: "PETVALUE", Value: "20"}}},
			{Name: "MALE", Tags: []tokens.Tag{{Key: "MALE_TAG", Value: ""}}},
		},
	}
	dst := &Creature{
		Castes: []*Caste{
			{Name: AllCaste, Tags: []tokens.Tag{{Key: "TRAINABLE", Value: ""}}},
		},
	}

	CopyTagsFrom(dst, src)

	require.Len(t, dst.Castes, 2, "expected MALE caste adopted")
	all := findCaste(dst.Castes, AllCaste)
	assert.Len(t, all.Tags, 2, "expected ALL caste tags appended")
}

func TestCopyTagsFromDoesNotOverwriteNonZeroFields(t *testing.T) {
	src := &Creature{Frequency: 100}
	dst := &Creature{Frequency: 50}
	CopyTagsFrom(dst, src)
	assert.Equal(t, 50, dst.Frequency, "expected target frequency preserved")
}
