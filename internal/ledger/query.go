// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/textract/pkg/types"
)

// QueryOptions filters ledger entries. Zero values match everything.
type QueryOptions struct {
	Status types.FileStatus
	RunID  string
	Path   string

	// Limit caps the number of entries. Zero uses the default (50).
	Limit int
}

// Entry is a recorded file outcome with the run it belongs to.
type Entry struct {
	types.FileRecord `yaml:",inline"`

	RunID string `json:"run_id" yaml:"run_id"`
}

// Recent returns recorded files, newest first, matching opts.
func (s *Store) Recent(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT run_id, path, kind, status, digest, pages, chars, output_path, error, recorded_at
		FROM files WHERE 1=1`)
	if opts.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(opts.Status))
	}
	if opts.RunID != "" {
		qb.WriteString(` AND run_id = ?`)
		args = append(args, opts.RunID)
	}
	if opts.Path != "" {
		qb.WriteString(` AND path = ?`)
		args = append(args, opts.Path)
	}
	qb.WriteString(` ORDER BY rowid DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                            Entry
			kind, status, recorded       string
			digest, outputPath, errorMsg sql.NullString
			pages, chars                 sql.NullInt64
		)
		if err := rows.Scan(&e.RunID, &e.Path, &kind, &status, &digest, &pages, &chars,
			&outputPath, &errorMsg, &recorded); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		e.Kind = types.FileKind(kind)
		e.Status = types.FileStatus(status)
		e.Digest = digest.String
		e.Pages = int(pages.Int64)
		e.Chars = int(chars.Int64)
		e.OutputPath = outputPath.String
		e.Error = errorMsg.String
		e.RecordedAt = parseTime(recorded)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
