package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionalAddTagScenario(t *testing.T) {
	value := "WALK:Jog:!ARG1:NO_BUILD_UP:5"
	rule := Rule{
		Kind:                RuleConditionalAddTag,
		ArgumentIndex:       2,
		ArgumentRequirement: "BIPED",
		Tag:                 "GAIT",
		Value:               &value,
	}

	concrete := rule.WithArgs([]string{"300", "BIPED"})
	tags := concrete.Apply(nil, []string{"300", "BIPED"}, nil)

	require.Len(t, tags, 1)
	assert.Equal(t, "GAIT", tags[0].Key)
	assert.Equal(t, "WALK:Jog:300:NO_BUILD_UP:5", tags[0].Value)
}

func TestConditionalAddTagDoesNotFireOnMismatch(t *testing.T) {
	value := "WALK:Jog:!ARG1:NO_BUILD_UP:5"
	rule := Rule{
		Kind:                RuleConditionalAddTag,
		ArgumentIndex:       2,
		ArgumentRequirement: "BIPED",
		Tag:                 "GAIT",
		Value:               &value,
	}
	concrete := rule.WithArgs([]string{"300", "QUADRUPED"})
	tags := concrete.Apply(nil, []string{"300", "QUADRUPED"}, nil)
	assert.Empty(t, tags, "expected no tags appended")
}

func TestWithArgsIdempotent(t *testing.T) {
	value := "WALK:Jog:!ARG1:NO_BUILD_UP:5"
	rule := Rule{Kind: RuleAddTag, Tag: "GAIT", Value: &value}
	args := []string{"300"}

	once := rule.WithArgs(args)
	twice := once.WithArgs(args)

	assert.Equal(t, *once.Value, *twice.Value, "WithArgs not idempotent")
}

func TestRemoveTagMatchesValue(t *testing.T) {
	tags := []Tag{{Key: "FLIER", Value: ""}, {Key: "BIOME", Value: "FOREST"}}
	value := "FOREST"
	rule := Rule{Kind: RuleRemoveTag, Tag: "BIOME", Value: &value}
	out := rule.Apply(tags, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "FLIER", out[0].Key)
}

func TestConvertTagRewritesSubstring(t *testing.T) {
	tags := []Tag{{Key: "GAIT", Value: "WALK:Jog:300:NO_BUILD_UP:5"}}
	target := "Jog"
	replacement := "Sprint"
	rule := Rule{Kind: RuleConvertTag, Tag: "GAIT", Target: &target, Replacement: &replacement}
	out := rule.Apply(tags, nil, nil)
	assert.Equal(t, "WALK:Sprint:300:NO_BUILD_UP:5", out[0].Value)
}
