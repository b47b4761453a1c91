// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/title-extractor/pkg/types"
)

// ListOptions holds parameters for catalog listings.
type ListOptions struct {
	// Match keeps titles containing this substring, compared case-insensitively.
	Match string

	// MaxResults limits the result count. Zero uses the store default and
	// a negative value means no limit, as does a store default of zero.
	MaxResults int
}

// List returns catalog entries in byte order of their titles, the same
// order the extractor writes them in.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.CatalogEntry, error) {
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT title, payload_kind, first_seen, last_seen, seen_count FROM titles`)
	if opts.Match != "" {
		qb.WriteString(` WHERE instr(lower(title), lower(?)) > 0`)
		args = append(args, opts.Match)
	}
	qb.WriteString(` ORDER BY title COLLATE BINARY`)
	if maxResults > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, maxResults)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying titles: %w", err)
	}
	defer rows.Close()

	var entries []types.CatalogEntry
	for rows.Next() {
		var (
			e                   types.CatalogEntry
			firstSeen, lastSeen string
		)
		if err := rows.Scan(&e.Title, &e.PayloadKind, &firstSeen, &lastSeen, &e.SeenCount); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		e.FirstSeen, _ = time.Parse(timeFormat, firstSeen)
		e.LastSeen, _ = time.Parse(timeFormat, lastSeen)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Export writes every catalog entry to path, as JSON when the path ends
// in ".json" and as YAML otherwise.
func (s *Store) Export(ctx context.Context, path string) error {
	entries, err := s.List(ctx, ListOptions{MaxResults: -1})
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []types.CatalogEntry{}
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
