package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// WriteBuild records a build and its templates in one transaction.
//
// The build's Seq is assigned here (one past the current maximum) and
// returned. Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the
// same id twice keeps the first record and returns its seq.
func (s *Store) WriteBuild(ctx context.Context, b Build) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write build: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM builds WHERE id = ?`, b.ID).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("write build: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM builds`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write build: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO builds
		(id, seq, document_hash, spec_dir, base, xml, tool_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		b.ID,
		seq,
		b.DocumentHash,
		b.SpecDir,
		b.Base,
		b.XML,
		b.ToolVersion,
		b.IRVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write build: %w", err)
	}

	for i, t := range b.Templates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO build_templates
			(build_id, position, name, kind, base, size, template_hash, spec_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			b.ID,
			i,
			t.Name,
			t.Kind,
			t.Base,
			t.Size,
			t.TemplateHash,
			t.SpecJSON,
		)
		if err != nil {
			return 0, fmt.Errorf("write build template %q: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write build: commit: %w", err)
	}
	return seq, nil
}
