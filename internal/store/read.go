package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a build id has no record.
var ErrNotFound = errors.New("build not found")

// ReadBuild returns a build with its XML and templates.
func (s *Store) ReadBuild(ctx context.Context, id string) (Build, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, document_hash, spec_dir, base, xml, tool_version, ir_version
		FROM builds
		WHERE id = ?
	`, id)

	var b Build
	err := row.Scan(&b.ID, &b.Seq, &b.DocumentHash, &b.SpecDir, &b.Base, &b.XML, &b.ToolVersion, &b.IRVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Build{}, fmt.Errorf("read build: %w", err)
	}

	b.Templates, err = s.readTemplates(ctx, b.ID)
	if err != nil {
		return Build{}, err
	}
	return b, nil
}

// ListBuilds returns every build without its XML.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if no builds exist.
func (s *Store) ListBuilds(ctx context.Context) ([]Build, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, document_hash, spec_dir, base, tool_version, ir_version
		FROM builds
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []Build{}
	for rows.Next() {
		var b Build
		if err := rows.Scan(&b.ID, &b.Seq, &b.DocumentHash, &b.SpecDir, &b.Base, &b.ToolVersion, &b.IRVersion); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}

	// templates are read after rows is drained; the pool has one connection
	for i := range builds {
		builds[i].Templates, err = s.readTemplates(ctx, builds[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return builds, nil
}

// LatestByHash returns the most recent build whose document hash equals
// hash, or ErrNotFound.
func (s *Store) LatestByHash(ctx context.Context, hash string) (Build, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM builds
		WHERE document_hash = ?
		ORDER BY seq DESC
		LIMIT 1
	`, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("%w: hash %s", ErrNotFound, hash)
	}
	if err != nil {
		return Build{}, fmt.Errorf("lookup build by hash: %w", err)
	}
	return s.ReadBuild(ctx, id)
}

func (s *Store) readTemplates(ctx context.Context, buildID string) ([]BuildTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, base, size, template_hash, spec_json
		FROM build_templates
		WHERE build_id = ?
		ORDER BY position ASC
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("query build templates: %w", err)
	}
	defer rows.Close()

	templates := []BuildTemplate{}
	for rows.Next() {
		var t BuildTemplate
		if err := rows.Scan(&t.Name, &t.Kind, &t.Base, &t.Size, &t.TemplateHash, &t.SpecJSON); err != nil {
			return nil, fmt.Errorf("scan build template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build templates: %w", err)
	}
	return templates, nil
}
