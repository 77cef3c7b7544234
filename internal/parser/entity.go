package parser

import (
	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/tokens"
	"github.com/dfraws/dfraws/internal/value"
)

// ParseEntity walks a flattened token sequence into an Entity. A bare
// POSITION opens a new named position section; every token after it
// is scoped to that position until the next POSITION (or end of
// input). Everything before the first POSITION, or when a body names
// no POSITION at all, falls through to the entity's own catch-all
// Tags vector.
//
// The retrieved original_source tree has no entity.rs struct dispatch
// to ground this against directly (only tag-metadata enum files under
// definitions/tokens/ were retrieved, not a parse_tag implementation),
// so this reuses the GROWTH-section cursor idiom from
// parsed_definitions/plant.rs — open-a-named-section-then-route — in
// the same style as ParsePlant in this package.
func ParseEntity(identifier string, md metadata.Metadata, records []token.Record, log *zap.Logger) *model.Entity {
	if log == nil {
		log = zap.NewNop()
	}
	e := &model.Entity{Identifier: identifier, Metadata: md}

	for _, rec := range records {
		if rec.Key == "POSITION" {
			name, err := value.Single(value.Split(rec.Value))
			if err != nil {
				log.Warn("bad POSITION", zap.Int("line", rec.Line))
				continue
			}
			e.Positions = append(e.Positions, model.Position{Name: name})
			continue
		}

		if len(e.Positions) == 0 {
			e.Tags = append(e.Tags, tokens.Tag{Key: rec.Key, Value: rec.Value})
			continue
		}
		last := &e.Positions[len(e.Positions)-1]
		last.Tags = append(last.Tags, tokens.Tag{Key: rec.Key, Value: rec.Value})
	}

	return e
}
