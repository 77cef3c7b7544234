// Package unprocessed implements the builder that captures a raw
// object's tokens in unresolved form, annotated with the modification
// directives §4.5 and §6 describe (copy-from, creature-variation
// application, and the GO_TO_* positional edits), deferring
// resolution until every module has been tokenized.
//
// Grounded on original_source's reader/unprocessed_raw.rs: the merge-
// on-append rule for adjacent same-kind modifications and the
// collapse algorithm (Collapse here) are carried over faithfully, restated
// in Go idiom.
package unprocessed

import (
	"strings"

	"github.com/dfraws/dfraws/internal/metadata"
)

// ModificationKind discriminates the six Modification shapes of §3.
type ModificationKind int

const (
	MainRawBody ModificationKind = iota
	AddToBeginning
	AddToEnding
	AddBeforeTag
	CopyTagsFrom
	ApplyCreatureVariation
)

// Modification is one entry in an UnprocessedRaw's ordered
// modification list (§3 "Unprocessed raw").
type Modification struct {
	Kind ModificationKind

	// MainRawBody / AddToBeginning / AddToEnding / AddBeforeTag:
	Raws []string
	// AddBeforeTag only:
	Tag string
	// CopyTagsFrom only:
	Identifier string
	// ApplyCreatureVariation only:
	VariationID string
	Args        []string
}

// UnprocessedRaw is the builder of §3: a raw_type, identifier,
// metadata, and an ordered modification list, built up incrementally
// as the object parser walks an object's token stream.
type UnprocessedRaw struct {
	RawType    string
	Identifier string
	Metadata   metadata.Metadata

	Modifications []Modification
}

// New starts an empty builder for the given object header.
func New(rawType, identifier string, md metadata.Metadata) *UnprocessedRaw {
	return &UnprocessedRaw{RawType: rawType, Identifier: identifier, Metadata: md}
}

// appendRaws appends raw to the last modification if it is of kind
// and (for AddBeforeTag) shares the same tag; otherwise it starts a
// new modification. This merge-adjacent-on-append rule is required so
// that streaming append produces the same result as batched append
// (§3 invariant).
func (u *UnprocessedRaw) appendRaws(kind ModificationKind, tag, raw string) {
	if n := len(u.Modifications); n > 0 {
		last := &u.Modifications[n-1]
		if last.Kind == kind && (kind != AddBeforeTag || last.Tag == tag) {
			last.Raws = append(last.Raws, raw)
			return
		}
	}
	m := Modification{Kind: kind, Raws: []string{raw}}
	if kind == AddBeforeTag {
		m.Tag = tag
	}
	u.Modifications = append(u.Modifications, m)
}

// AddMainRawBody appends a token line to the object's main body.
func (u *UnprocessedRaw) AddMainRawBody(raw string) { u.appendRaws(MainRawBody, "", raw) }

// AddToStart appends a token line captured after GO_TO_START (§6).
func (u *UnprocessedRaw) AddToStart(raw string) { u.appendRaws(AddToBeginning, "", raw) }

// AddToEnd appends a token line captured after GO_TO_END (§6).
func (u *UnprocessedRaw) AddToEnd(raw string) { u.appendRaws(AddToEnding, "", raw) }

// AddBeforeTagRaw appends a token line captured after GO_TO_TAG:tag (§6).
func (u *UnprocessedRaw) AddBeforeTagRaw(tag, raw string) { u.appendRaws(AddBeforeTag, tag, raw) }

// AddCopyTagsFrom records a COPY_TAGS_FROM directive (§6). Unlike the
// Raws-bearing kinds, consecutive CopyTagsFrom directives do not
// merge — each names a distinct source identifier.
func (u *UnprocessedRaw) AddCopyTagsFrom(identifier string) {
	u.Modifications = append(u.Modifications, Modification{Kind: CopyTagsFrom, Identifier: identifier})
}

// AddApplyCreatureVariation records an APPLY_CREATURE_VARIATION
// directive (§6).
func (u *UnprocessedRaw) AddApplyCreatureVariation(id string, args []string) {
	u.Modifications = append(u.Modifications, Modification{Kind: ApplyCreatureVariation, VariationID: id, Args: args})
}

// IsSimple reports whether every modification is one of MainRawBody,
// AddToBeginning, AddToEnding, AddBeforeTag, or ApplyCreatureVariation
// (§4.5 Phase 1 eligibility) — i.e. the buffer carries no
// CopyTagsFrom and so does not depend on any other creature.
func (u *UnprocessedRaw) IsSimple() bool {
	for _, m := range u.Modifications {
		if m.Kind == CopyTagsFrom {
			return false
		}
	}
	return true
}

// Collapse flattens the positional-edit modifications into a single
// ordered token-line sequence, per §4.5 step 1:
//
//  1. body = concatenation of every MainRawBody's raws in append order.
//  2. Prepend every AddToBeginning block in order.
//  3. Append every AddToEnding block in order.
//  4. For each AddBeforeTag{tag, raws} in order, splice raws
//     immediately before the first body token whose text starts with
//     tag; append to the end if no such token exists.
//
// CopyTagsFrom and ApplyCreatureVariation modifications are not part
// of the flattened body; Resolve consumes them separately.
func (u *UnprocessedRaw) Collapse() []string {
	var body []string
	for _, m := range u.Modifications {
		if m.Kind == MainRawBody {
			body = append(body, m.Raws...)
		}
	}
	var beginnings []string
	var endings []string
	var beforeTag []Modification
	for _, m := range u.Modifications {
		switch m.Kind {
		case AddToBeginning:
			beginnings = append(beginnings, m.Raws...)
		case AddToEnding:
			endings = append(endings, m.Raws...)
		case AddBeforeTag:
			beforeTag = append(beforeTag, m)
		}
	}

	flattened := make([]string, 0, len(beginnings)+len(body)+len(endings))
	flattened = append(flattened, beginnings...)
	flattened = append(flattened, body...)
	flattened = append(flattened, endings...)

	for _, m := range beforeTag {
		flattened = spliceBefore(flattened, m.Tag, m.Raws)
	}
	return flattened
}

func spliceBefore(body []string, tag string, raws []string) []string {
	for i, line := range body {
		if strings.HasPrefix(line, tag) {
			out := make([]string, 0, len(body)+len(raws))
			out = append(out, body[:i]...)
			out = append(out, raws...)
			out = append(out, body[i:]...)
			return out
		}
	}
	return append(body, raws...)
}

// CopyTagsFromDirectives returns every CopyTagsFrom modification in
// source order (§4.5 step 2).
func (u *UnprocessedRaw) CopyTagsFromDirectives() []Modification {
	return u.filterKind(CopyTagsFrom)
}

// ApplyCreatureVariationDirectives returns every
// ApplyCreatureVariation modification in source order (§4.5 step 3).
func (u *UnprocessedRaw) ApplyCreatureVariationDirectives() []Modification {
	return u.filterKind(ApplyCreatureVariation)
}

func (u *UnprocessedRaw) filterKind(kind ModificationKind) []Modification {
	var out []Modification
	for _, m := range u.Modifications {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
