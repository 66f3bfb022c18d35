package sqlstore

import (
	"context"

	"github.com/mycelian/mycelian-identities/server/internal/model"
)

// --- Characters ---
type characters struct{ s *DB }

func scanCharacter(r scanner) (*model.Character, error) {
	var c model.Character
	var created string
	if err := r.Scan(&c.ID, &c.ProjectID, &c.Name, &created); err != nil {
		return nil, notFound(err)
	}
	c.CreatedAt = parseTS(created)
	return &c, nil
}

func (c characters) Create(ctx context.Context, m *model.Character) (*model.Character, error) {
	out := *m
	out.ID = newID(m.ID)
	stamp := c.s.stamp()
	if _, err := c.s.exec(ctx, c.s.db, `
        INSERT INTO characters (id, project_id, name, created_at) VALUES (?,?,?,?)
    `, out.ID, out.ProjectID, out.Name, stamp); err != nil {
		return nil, err
	}
	out.CreatedAt = parseTS(stamp)
	return &out, nil
}

func (c characters) Get(ctx context.Context, id string) (*model.Character, error) {
	return scanCharacter(c.s.queryRow(ctx, c.s.db, `
        SELECT id, project_id, name, created_at FROM characters WHERE id=?
    `, id))
}

func (c characters) ListByProject(ctx context.Context, projectID string) ([]*model.Character, error) {
	rows, err := c.s.query(ctx, c.s.db, `
        SELECT id, project_id, name, created_at FROM characters
        WHERE project_id=? ORDER BY created_at, id
    `, projectID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCharacter)
}

// --- Career catalog ---
type careers struct{ s *DB }

func scanCareer(r scanner) (*model.Career, error) {
	var c model.Career
	var created string
	if err := r.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Type, &c.MaxStage, &created); err != nil {
		return nil, notFound(err)
	}
	c.CreatedAt = parseTS(created)
	return &c, nil
}

func (c careers) Create(ctx context.Context, m *model.Career) (*model.Career, error) {
	out := *m
	out.ID = newID(m.ID)
	stamp := c.s.stamp()
	if _, err := c.s.exec(ctx, c.s.db, `
        INSERT INTO careers (id, project_id, name, type, max_stage, created_at) VALUES (?,?,?,?,?,?)
    `, out.ID, out.ProjectID, out.Name, out.Type, out.MaxStage, stamp); err != nil {
		return nil, err
	}
	out.CreatedAt = parseTS(stamp)
	return &out, nil
}

func (c careers) Get(ctx context.Context, id string) (*model.Career, error) {
	return scanCareer(c.s.queryRow(ctx, c.s.db, `
        SELECT id, project_id, name, type, max_stage, created_at FROM careers WHERE id=?
    `, id))
}

func (c careers) ListByProject(ctx context.Context, projectID string) ([]*model.Career, error) {
	rows, err := c.s.query(ctx, c.s.db, `
        SELECT id, project_id, name, type, max_stage, created_at FROM careers
        WHERE project_id=? ORDER BY created_at, id
    `, projectID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCareer)
}
