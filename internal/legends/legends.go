// Package legends defines an external-producer interface for
// legends-export data. Nothing in this module calls a Source: the
// resolver takes unprocessed buffers, and a caller can pass the output
// of Source.Creatures to resolver.Resolve alongside parsed ones (§1: "the legends-export
// XML ingest, beyond the requirement that the resolver accept an
// external producer of creature/entity records with the same shape as
// parsed raws" is explicitly out of scope — this package is that
// requirement's seam, not an XML parser).
package legends

import (
	"github.com/dfraws/dfraws/internal/model"
	"github.com/dfraws/dfraws/internal/unprocessed"
)

// Source produces unprocessed creature/entity buffers from an
// external record format (e.g. a legends export), shaped identically
// to what the raw tokenizer/parser pipeline produces, so the resolver
// can treat them uniformly. Implementations live outside this module;
// this package only fixes the seam.
type Source interface {
	// Creatures returns unprocessed creature buffers tagged with
	// metadata.LocationLegendsExport.
	Creatures() ([]*unprocessed.UnprocessedRaw, error)
	// Entities returns finished entity objects contributed directly
	// (legends exports carry entities as whole records, not
	// modification buffers, since they are never copy-from targets).
	Entities() ([]*model.Entity, error)
}
