// Package search implements the query compiler of §4.8: composing
// text, identifier, type, location, flag, and favorites filters with
// BM25 ranking and stable pagination over internal/store's schema.
//
// Grounded on original_source's sqlite_lib/src/db/queries/
// search_raw_definitions.rs for the join/filter composition and the
// bm25(raw_search_index, 5.0, 1.0) ranking weights.
package search

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dfraws/dfraws/internal/metadata"
)

// Query is the search request of §4.8's SearchQuery model.
type Query struct {
	SearchString     string
	IdentifierQuery  string
	RawTypes         []metadata.ObjectType
	Locations        []metadata.ModuleLocation
	RequiredFlags    []string
	FavoritesOnly    bool
	Limit            uint32
	Page             uint32 // 1-indexed
}

// Result is a single matched row: the raw's id and its serialized
// payload, left for the caller to deserialize (§4.8 "Output").
type Result struct {
	ID   int64
	Data []byte
}

// Results is the full response of §4.8: a page of matches plus the
// total count across all pages.
type Results struct {
	Matches    []Result
	TotalCount int
}

// favoritesReader is the minimal seam this package needs into
// internal/store without importing it directly, keeping the query
// compiler's dependency surface to database/sql plus whatever reads
// the favorites marker (§4.8 "favorites_only reads a favorites list
// from a persisted metadata marker").
type favoritesReader interface {
	Favorites() ([]string, error)
}

// Search compiles and executes a Query against db, per §4.8's
// composition and ranking rules.
func Search(db *sql.DB, favorites favoritesReader, q Query) (Results, error) {
	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Page == 0 {
		q.Page = 1
	}

	var joins []string
	var where []string
	var args []any

	if q.FavoritesOnly {
		list, err := favorites.Favorites()
		if err != nil {
			return Results{}, fmt.Errorf("reading favorites: %w", err)
		}
		if len(list) == 0 {
			// §4.8: empty favorites with this flag set yields zero rows.
			return Results{Matches: nil, TotalCount: 0}, nil
		}
		placeholders := make([]string, len(list))
		for i, fav := range list {
			placeholders[i] = "?"
			args = append(args, fav)
		}
		where = append(where, fmt.Sprintf("r.identifier IN (%s)", strings.Join(placeholders, ",")))
	}

	for i, flag := range q.RequiredFlags {
		alias := fmt.Sprintf("crf%d", i)
		joins = append(joins, fmt.Sprintf("JOIN common_raw_flags %s ON %s.raw_id = r.id AND %s.token_name = ?", alias, alias, alias))
		args = append(args, flag)
	}

	if len(q.RawTypes) > 0 {
		names := make([]string, len(q.RawTypes))
		placeholders := make([]string, len(q.RawTypes))
		for i, t := range q.RawTypes {
			names[i] = string(t)
			placeholders[i] = "?"
		}
		where = append(where, fmt.Sprintf(
			"r.raw_type_id IN (SELECT id FROM raw_types WHERE name IN (%s))", strings.Join(placeholders, ",")))
		for _, n := range names {
			args = append(args, n)
		}
	}

	if len(q.Locations) > 0 {
		placeholders := make([]string, len(q.Locations))
		for i := range q.Locations {
			placeholders[i] = "?"
		}
		where = append(where, fmt.Sprintf(
			"r.module_id IN (SELECT id FROM modules WHERE location_id IN (SELECT id FROM module_locations WHERE name IN (%s)))",
			strings.Join(placeholders, ",")))
		for _, loc := range q.Locations {
			args = append(args, string(loc))
		}
	}

	if q.IdentifierQuery != "" {
		where = append(where, "r.identifier LIKE ?")
		args = append(args, "%"+q.IdentifierQuery+"%")
	}

	useFTS := q.SearchString != ""
	if useFTS {
		joins = append(joins, "JOIN raw_search_index fts ON fts.rowid = r.id")
		where = append(where, "raw_search_index MATCH ?")
		args = append(args, q.SearchString)
	}

	whereClause := "1=1"
	if len(where) > 0 {
		whereClause = strings.Join(where, " AND ")
	}
	joinClause := strings.Join(joins, " ")

	countQuery := fmt.Sprintf(`SELECT COUNT(DISTINCT r.id) FROM raw_definitions r %s WHERE %s`, joinClause, whereClause)
	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return Results{}, fmt.Errorf("counting results: %w", err)
	}

	orderBy := "r.identifier ASC, r.id ASC"
	selectCols := "DISTINCT r.id, r.data_blob"
	if useFTS {
		orderBy = "bm25(raw_search_index, 5.0, 1.0)"
		selectCols = "r.id, r.data_blob"
	}

	offset := (q.Page - 1) * q.Limit
	rowQuery := fmt.Sprintf(`SELECT %s FROM raw_definitions r %s WHERE %s ORDER BY %s LIMIT ? OFFSET ?`,
		selectCols, joinClause, whereClause, orderBy)
	rowArgs := append(append([]any{}, args...), q.Limit, offset)

	rows, err := db.Query(rowQuery, rowArgs...)
	if err != nil {
		return Results{}, fmt.Errorf("executing search: %w", err)
	}
	defer rows.Close()

	var matches []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Data); err != nil {
			return Results{}, fmt.Errorf("scanning result row: %w", err)
		}
		matches = append(matches, r)
	}
	return Results{Matches: matches, TotalCount: total}, nil
}
