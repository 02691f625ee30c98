// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Runs  []Run   `json:"runs" yaml:"runs"`
	Files []Entry `json:"files" yaml:"files"`
}

// ExportYAML writes runs and the entries matching opts to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts QueryOptions) error {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes runs and the entries matching opts to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts QueryOptions) error {
	doc, err := s.export(ctx, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) export(ctx context.Context, opts QueryOptions) (Export, error) {
	if opts.Limit <= 0 {
		opts.Limit = exportLimit
	}
	files, err := s.Recent(ctx, opts)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	runs, err := s.Runs(ctx, exportLimit)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	if opts.RunID != "" {
		filtered := runs[:0]
		for _, r := range runs {
			if r.ID == opts.RunID {
				filtered = append(filtered, r)
			}
		}
		runs = filtered
	}
	if files == nil {
		files = []Entry{}
	}
	if runs == nil {
		runs = []Run{}
	}
	return Export{Runs: runs, Files: files}, nil
}
