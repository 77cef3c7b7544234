package tokens

import (
	"strconv"
	"strings"
)

// RuleKind discriminates the creature-variation rule shapes of §3/§4.5.
type RuleKind int

const (
	RuleAddTag RuleKind = iota
	RuleNewTag
	RuleRemoveTag
	RuleConvertTag
	RuleConditionalAddTag
	RuleConditionalNewTag
	RuleConditionalRemoveTag
	RuleConditionalConvertTag
)

// Rule is a single creature-variation rule (§3 Creature variation).
// AddTag and NewTag are distinct source keywords but behave
// identically once parsed (both append a tag), matching the
// original's CVCT_ token handling.
type Rule struct {
	Kind   RuleKind
	Tag    string
	Value  *string // nil means "no value half of the tag"
	Target *string // ConvertTag only: substring to replace
	Replacement *string // ConvertTag only: replacement substring

	// Conditional* only:
	ArgumentIndex       int // 1-indexed, per §3
	ArgumentRequirement string
}

// IsConditional reports whether this rule only fires when a
// particular positional argument matches a required value.
func (r Rule) IsConditional() bool {
	switch r.Kind {
	case RuleConditionalAddTag, RuleConditionalNewTag, RuleConditionalRemoveTag, RuleConditionalConvertTag:
		return true
	}
	return false
}

// baseKind returns the unconditional rule kind this rule executes as
// once its condition (if any) is satisfied.
func (r Rule) baseKind() RuleKind {
	switch r.Kind {
	case RuleConditionalAddTag:
		return RuleAddTag
	case RuleConditionalNewTag:
		return RuleNewTag
	case RuleConditionalRemoveTag:
		return RuleRemoveTag
	case RuleConditionalConvertTag:
		return RuleConvertTag
	default:
		return r.Kind
	}
}

// WithArgs substitutes every !ARGn placeholder (1-indexed, §3/§6) in
// every string field of the rule with the corresponding element of
// args, returning a new Rule. The stored rule is never mutated
// (§3 invariant: "creature variation rules never mutate their stored
// form").
//
// Applying WithArgs twice with the same arguments is idempotent
// (§8): once substitution has run, no !ARGn placeholders remain in
// the result, so a second call is a no-op.
func (r Rule) WithArgs(args []string) Rule {
	if len(args) == 0 {
		return r
	}
	out := r
	out.Tag = substitute(r.Tag, args)
	out.Value = substitutePtr(r.Value, args)
	out.Target = substitutePtr(r.Target, args)
	out.Replacement = substitutePtr(r.Replacement, args)
	out.ArgumentRequirement = substitute(r.ArgumentRequirement, args)
	return out
}

func substitutePtr(s *string, args []string) *string {
	if s == nil {
		return nil
	}
	v := substitute(*s, args)
	return &v
}

// substitute replaces every occurrence of !ARG1, !ARG2, ... with the
// corresponding (1-indexed) element of args. Out-of-range indices are
// left untouched.
func substitute(s string, args []string) string {
	if !strings.Contains(s, "!ARG") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] == '!' && strings.HasPrefix(s[i:], "!ARG") {
			j := i + 4
			start := j
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j > start {
				n, err := strconv.Atoi(s[start:j])
				if err == nil && n >= 1 && n <= len(args) {
					b.WriteString(args[n-1])
					i = j
					continue
				}
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// Apply executes the rule against a tag list, per §4.5.2:
//
//   - AddTag/NewTag: append Tag{tag, value}.
//   - RemoveTag: remove the first tag matching (Tag, Value when set).
//   - ConvertTag: for every tag with a matching key, replace
//     occurrences of Target with Replacement within that tag's value.
//   - Conditional*: first check args[ArgumentIndex-1] == ArgumentRequirement;
//     run the base rule only on a match. Out-of-bounds indices log and no-op.
//
// warn receives a single warning message when a conditional rule's
// argument index is out of bounds; pass nil to suppress.
func (r Rule) Apply(tags []Tag, args []string, warn func(string)) []Tag {
	if r.IsConditional() {
		idx := r.ArgumentIndex - 1
		if idx < 0 || idx >= len(args) {
			if warn != nil {
				warn("conditional rule argument_index out of bounds")
			}
			return tags
		}
		if args[idx] != r.ArgumentRequirement {
			return tags
		}
	}

	switch r.baseKind() {
	case RuleAddTag, RuleNewTag:
		value := ""
		if r.Value != nil {
			value = *r.Value
		}
		return append(tags, Tag{Key: r.Tag, Value: value})
	case RuleRemoveTag:
		for i, t := range tags {
			if t.Match(r.Tag, r.Value) {
				return append(append([]Tag{}, tags[:i]...), tags[i+1:]...)
			}
		}
		return tags
	case RuleConvertTag:
		if r.Target == nil || r.Replacement == nil {
			return tags
		}
		out := make([]Tag, len(tags))
		copy(out, tags)
		for i, t := range out {
			if t.Key == r.Tag {
				out[i].Value = strings.ReplaceAll(t.Value, *r.Target, *r.Replacement)
			}
		}
		return out
	default:
		return tags
	}
}

// ptr is a small helper for constructing *string literals in tests
// and rule tables without a local variable at every call site.
func ptr(s string) *string { return &s }
