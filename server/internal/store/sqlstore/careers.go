package sqlstore

import (
	"context"
	"database/sql"

	"github.com/mycelian/mycelian-identities/server/internal/model"
)

const identityCareerSelect = `
        SELECT ic.id, ic.identity_id, ic.career_id, ic.career_type, ic.current_stage, ic.stage_progress,
            ic.started_at, ic.reached_current_stage_at, ic.notes, ic.created_at, ic.updated_at,
            COALESCE(c.name, ''), COALESCE(c.max_stage, 0)
        FROM identity_careers ic LEFT JOIN careers c ON c.id = ic.career_id`

type identityCareers struct{ s *DB }

func scanIdentityCareer(r scanner) (*model.IdentityCareer, error) {
	var m model.IdentityCareer
	var created, updated string
	if err := r.Scan(&m.ID, &m.IdentityID, &m.CareerID, &m.CareerType, &m.CurrentStage, &m.StageProgress,
		&m.StartedAt, &m.ReachedCurrentStageAt, &m.Notes, &created, &updated,
		&m.CareerName, &m.CareerMaxStage); err != nil {
		return nil, notFound(err)
	}
	m.CreatedAt, m.UpdatedAt = parseTS(created), parseTS(updated)
	return &m, nil
}

func (c identityCareers) get(ctx context.Context, q querier, identityID, careerID string) (*model.IdentityCareer, error) {
	return scanIdentityCareer(c.s.queryRow(ctx, q,
		identityCareerSelect+` WHERE ic.identity_id=? AND ic.career_id=?`, identityID, careerID))
}

func (c identityCareers) Add(ctx context.Context, m *model.IdentityCareer) (*model.IdentityCareer, error) {
	id := newID(m.ID)
	stamp := c.s.stamp()
	if _, err := c.s.exec(ctx, c.s.db, `
        INSERT INTO identity_careers (id, identity_id, career_id, career_type, current_stage, stage_progress,
            started_at, reached_current_stage_at, notes, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?)
    `, id, m.IdentityID, m.CareerID, m.CareerType, m.CurrentStage, m.StageProgress,
		m.StartedAt, m.ReachedCurrentStageAt, m.Notes, stamp, stamp); err != nil {
		return nil, err
	}
	return c.get(ctx, c.s.db, m.IdentityID, m.CareerID)
}

func (c identityCareers) Get(ctx context.Context, identityID, careerID string) (*model.IdentityCareer, error) {
	return c.get(ctx, c.s.db, identityID, careerID)
}

func (c identityCareers) List(ctx context.Context, identityID string) ([]*model.IdentityCareer, error) {
	rows, err := c.s.query(ctx, c.s.db,
		identityCareerSelect+` WHERE ic.identity_id=? ORDER BY ic.created_at, ic.id`, identityID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanIdentityCareer)
}

func (c identityCareers) Update(ctx context.Context, identityID, careerID string, p model.CareerPatch) (*model.IdentityCareer, error) {
	var out *model.IdentityCareer
	err := c.s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := c.get(ctx, tx, identityID, careerID)
		if err != nil {
			return err
		}
		if p.CurrentStage != nil {
			cur.CurrentStage = *p.CurrentStage
		}
		if p.StageProgress != nil {
			cur.StageProgress = *p.StageProgress
		}
		if p.StartedAt != nil {
			cur.StartedAt = *p.StartedAt
		}
		if p.ReachedCurrentStageAt != nil {
			cur.ReachedCurrentStageAt = *p.ReachedCurrentStageAt
		}
		if p.Notes != nil {
			cur.Notes = *p.Notes
		}
		stamp := c.s.stamp()
		if _, err := c.s.exec(ctx, tx, `
            UPDATE identity_careers SET current_stage=?, stage_progress=?, started_at=?,
                reached_current_stage_at=?, notes=?, updated_at=?
            WHERE identity_id=? AND career_id=?
        `, cur.CurrentStage, cur.StageProgress, cur.StartedAt, cur.ReachedCurrentStageAt, cur.Notes, stamp,
			identityID, careerID); err != nil {
			return err
		}
		cur.UpdatedAt = parseTS(stamp)
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c identityCareers) Delete(ctx context.Context, identityID, careerID string) error {
	return mustAffect(c.s.exec(ctx, c.s.db,
		`DELETE FROM identity_careers WHERE identity_id=? AND career_id=?`, identityID, careerID))
}
