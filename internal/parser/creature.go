// Package parser turns a flattened token sequence into finished
// object values (§4.3 "Object Parsers"). Each object type gets its
// own parser function; all of them share the routing contract of
// §4.3 (typed field, list append, caste/sub-entity dispatch, or
// catch-all tag vector) and the failure policy of §4.2/§7 kind 2/3:
// unknown keys and bad argument shapes are warned and dropped, never
// fatal.
package parser

import (
	"go.uber.org/zap"

	"github.com/dfraws/dfraws/internal/metadata"
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/token"
	"github.com/dfraws/dfraws/internal/tokens"
	"github.com/dfraws/dfraws/internal/value"
)

// casteCursor tracks the creature parser's current caste target
// (§4.4): either the synthetic ALL caste, or a set of named castes
// that SELECT_ADDITIONAL_CASTE has extended the cursor to cover.
type casteCursor struct {
	names []string
}

func newCasteCursor() *casteCursor { return &casteCursor{names: []string{model.AllCaste}} }

func (c *casteCursor) setSingle(name string) { c.names = []string{name} }
func (c *casteCursor) add(name string)       { c.names = append(c.names, name) }

// ParseCreature walks a flattened token sequence (the output of
// unprocessed.UnprocessedRaw.Collapse, already merged with any
// copy-from/variation contributions) and builds a Creature, routing
// each record per §4.3 and dispatching caste-scoped tokens per §4.4.
//
// records with a key not recognized as creature- or caste-scoped fall
// through to the creature's (or cursor castes') catch-all Tags vector
// unchanged — this parser never fails on an unknown key.
func ParseCreature(identifier string, md metadata.Metadata, records []token.Record, log *zap.Logger) *model.Creature {
	if log == nil {
		log = zap.NewNop()
	}
	c := &model.Creature{Identifier: identifier, Metadata: md}
	cursor := newCasteCursor()

	for _, rec := range records {
		args := value.Split(rec.Value)

		switch rec.Key {
		case "CASTE":
			name, err := value.Single(args)
			if err != nil {
				log.Warn("CASTE missing name", zap.Int("line", rec.Line))
				continue
			}
			c.CasteByName(name)
			cursor.setSingle(name)
		case "SELECT_CASTE":
			name, err := value.Single(args)
			if err != nil {
				log.Warn("SELECT_CASTE missing name", zap.Int("line", rec.Line))
				continue
			}
			if findCasteModel(c, name) == nil {
				// §4.4: fail silently if absent.
				continue
			}
			cursor.setSingle(name)
		case "SELECT_ADDITIONAL_CASTE":
			name, err := value.Single(args)
			if err != nil {
				log.Warn("SELECT_ADDITIONAL_CASTE missing name", zap.Int("line", rec.Line))
				continue
			}
			// Open Question (§9): create-and-broadcast rather than drop.
			c.CasteByName(name)
			cursor.add(name)

		case "NAME":
			n, err := value.Array(args, 3)
			if err != nil {
				log.Warn("bad NAME", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.Name = model.NameTriple{Singular: n[0], Plural: n[1], Adjective: n[2]}
		case "BIOME":
			v, err := value.Single(args)
			if err != nil {
				log.Warn("bad BIOME", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.Biomes = append(c.Biomes, tokens.ParseBiome(v))
		case "PREFSTRING":
			v, err := value.Single(args)
			if err != nil {
				log.Warn("bad PREFSTRING", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.PrefStrings = append(c.PrefStrings, v)
		case "TILE":
			v, err := value.Single(args)
			if err != nil {
				log.Warn("bad TILE", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.Tile = v
		case "FREQUENCY":
			v, err := value.Integer(args)
			if err != nil {
				log.Warn("bad FREQUENCY", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.Frequency = v
		case "CLUSTER_NUMBER":
			r, err := parseRange(args)
			if err != nil {
				log.Warn("bad CLUSTER_NUMBER", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.ClusterNumber = r
		case "POPULATION_NUMBER":
			r, err := parseRange(args)
			if err != nil {
				log.Warn("bad POPULATION_NUMBER", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.PopulationNumber = r
		case "UNDERGROUND_DEPTH":
			r, err := parseRange(args)
			if err != nil {
				log.Warn("bad UNDERGROUND_DEPTH", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.UndergroundDepth = r
		case "GENERAL_BABY_NAME":
			n, err := value.Array(args, 3)
			if err != nil {
				log.Warn("bad GENERAL_BABY_NAME", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.GeneralBabyName = model.NameTriple{Singular: n[0], Plural: n[1], Adjective: n[2]}
		case "GENERAL_CHILD_NAME":
			n, err := value.Array(args, 3)
			if err != nil {
				log.Warn("bad GENERAL_CHILD_NAME", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			c.GeneralChildName = model.NameTriple{Singular: n[0], Plural: n[1], Adjective: n[2]}

		case "CASTE_NAME":
			n, err := value.Array(args, 3)
			if err != nil {
				log.Warn("bad CASTE_NAME", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.DisplayName = model.NameTriple{Singular: n[0], Plural: n[1], Adjective: n[2]}
			})
		case "BABY_NAME":
			n, err := value.Array(args, 3)
			if err != nil {
				log.Warn("bad BABY_NAME", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.BabyName = model.NameTriple{Singular: n[0], Plural: n[1], Adjective: n[2]}
			})
		case "CHILD_NAME":
			n, err := value.Array(args, 3)
			if err != nil {
				log.Warn("bad CHILD_NAME", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.ChildName = model.NameTriple{Singular: n[0], Plural: n[1], Adjective: n[2]}
			})
		case "CHILD":
			n, err := value.Integer(args)
			if err != nil {
				log.Warn("bad CHILD", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.ChildAge = n
			})
		case "BABY":
			n, err := value.Integer(args)
			if err != nil {
				log.Warn("bad BABY", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.BabyAge = n
			})
		case "GAIT":
			g, err := parseGait(args)
			if err != nil {
				log.Warn("bad GAIT", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.Gaits = append(caste.Gaits, g)
			})
		case "BODY_SIZE":
			bs, err := parseBodySize(args)
			if err != nil {
				log.Warn("bad BODY_SIZE", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.BodySizes = append(caste.BodySizes, bs)
			})
		case "ATTACKTRIGGER":
			at, err := parseAttackTrigger(args)
			if err != nil {
				log.Warn("bad ATTACKTRIGGER", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.AttackTriggers = append(caste.AttackTriggers, at)
			})
		case "NATURAL_SKILL":
			ns, err := parseNaturalSkill(args)
			if err != nil {
				log.Warn("bad NATURAL_SKILL", zap.Error(err), zap.Int("line", rec.Line))
				continue
			}
			broadcastCaste(c, cursor, func(caste *model.Caste) {
				caste.NaturalSkills = append(caste.NaturalSkills, ns)
			})

		default:
			tag := tokens.Tag{Key: rec.Key, Value: rec.Value}
			if isCasteScoped(rec.Key) {
				broadcastCaste(c, cursor, func(caste *model.Caste) {
					caste.Tags = append(caste.Tags, tag)
				})
			} else {
				c.Tags = append(c.Tags, tag)
			}
		}
	}
	return c
}

// isCasteScoped decides, for the catch-all path, whether an
// unrecognized key should route to the cursor's caste(s) or to the
// creature directly. Per §4.4, creature-scoped tokens like FREQUENCY
// and BIOME always hit the creature regardless of cursor; everything
// else not explicitly handled above is treated as caste-scoped, since
// in practice the overwhelming majority of a creature raw's body sits
// inside caste blocks.
func isCasteScoped(key string) bool {
	switch key {
	case "FREQUENCY", "BIOME", "ALL_NAMES", "NAME", "PREFSTRING", "TILE",
		"CLUSTER_NUMBER", "POPULATION_NUMBER", "UNDERGROUND_DEPTH",
		"GENERAL_BABY_NAME", "GENERAL_CHILD_NAME",
		"COPY_TAGS_FROM", "APPLY_CREATURE_VARIATION",
		"GO_TO_START", "GO_TO_END", "GO_TO_TAG":
		return false
	default:
		return true
	}
}

func broadcastCaste(c *model.Creature, cursor *casteCursor, fn func(*model.Caste)) {
	for _, name := range cursor.names {
		fn(c.CasteByName(name))
	}
}

func findCasteModel(c *model.Creature, name string) *model.Caste {
	for _, caste := range c.Castes {
		if caste.Name == name {
			return caste
		}
	}
	return nil
}

func parseRange(args []string) (model.Range, error) {
	pair, err := value.Array(args, 2)
	if err != nil {
		return model.Range{}, err
	}
	min, err := value.Integer([]string{pair[0]})
	if err != nil {
		return model.Range{}, err
	}
	max, err := value.Integer([]string{pair[1]})
	if err != nil {
		return model.Range{}, err
	}
	return model.Range{Min: min, Max: max}, nil
}

func parseGait(args []string) (tokens.Gait, error) {
	label, rest, err := value.Labeled(args)
	if err != nil {
		return tokens.Gait{}, err
	}
	g := tokens.Gait{Type: tokens.GaitType(label)}
	if len(rest) > 0 {
		g.Name = rest[0]
	}
	if len(rest) > 1 {
		speed, err := value.Integer(rest[1:2])
		if err == nil {
			g.MaxSpeed = speed
		}
	}
	for _, flag := range rest[min(2, len(rest)):] {
		if n, err := value.Integer([]string{flag}); err == nil {
			g.BuildUpTime = n
			continue
		}
		g.Flags = append(g.Flags, tokens.GaitFlag(flag))
	}
	return g, nil
}

func parseBodySize(args []string) (model.BodySize, error) {
	a, err := value.Array(args, 3)
	if err != nil {
		return model.BodySize{}, err
	}
	year, err := value.Integer(a[0:1])
	if err != nil {
		return model.BodySize{}, err
	}
	days, err := value.Integer(a[1:2])
	if err != nil {
		return model.BodySize{}, err
	}
	size, err := value.Integer(a[2:3])
	if err != nil {
		return model.BodySize{}, err
	}
	return model.BodySize{Year: year, Days: days, SizeCM3: size}, nil
}

func parseAttackTrigger(args []string) (model.AttackTrigger, error) {
	a, err := value.Array(args, 3)
	if err != nil {
		return model.AttackTrigger{}, err
	}
	pop, err := value.Integer(a[0:1])
	if err != nil {
		return model.AttackTrigger{}, err
	}
	exported, err := value.Integer(a[1:2])
	if err != nil {
		return model.AttackTrigger{}, err
	}
	created, err := value.Integer(a[2:3])
	if err != nil {
		return model.AttackTrigger{}, err
	}
	return model.AttackTrigger{Population: pop, ExportedWealth: exported, CreatedWealth: created}, nil
}

func parseNaturalSkill(args []string) (model.NaturalSkill, error) {
	label, rest, err := value.Labeled(args)
	if err != nil {
		return model.NaturalSkill{}, err
	}
	level := 0
	if len(rest) > 0 {
		level, _ = value.Integer(rest[0:1])
	}
	return model.NaturalSkill{Skill: label, Level: level}, nil
}
