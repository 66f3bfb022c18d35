package sqlstore

import (
	"context"
	"database/sql"

	"github.com/mycelian/mycelian-identities/server/internal/model"
)

const knowledgeSelect = `
        SELECT k.id, k.identity_id, k.knower_character_id, k.knowledge_level, k.since_when,
            k.discovered_how, k.is_secret, k.created_at, COALESCE(ch.name, '')
        FROM identity_knowledge k LEFT JOIN characters ch ON ch.id = k.knower_character_id`

type knowledge struct{ s *DB }

func scanKnowledge(r scanner) (*model.IdentityKnowledge, error) {
	var m model.IdentityKnowledge
	var created string
	if err := r.Scan(&m.ID, &m.IdentityID, &m.KnowerCharacterID, &m.KnowledgeLevel, &m.SinceWhen,
		&m.DiscoveredHow, &m.IsSecret, &created, &m.KnowerName); err != nil {
		return nil, notFound(err)
	}
	m.CreatedAt = parseTS(created)
	return &m, nil
}

func (k knowledge) get(ctx context.Context, q querier, identityID, id string) (*model.IdentityKnowledge, error) {
	return scanKnowledge(k.s.queryRow(ctx, q, knowledgeSelect+` WHERE k.identity_id=? AND k.id=?`, identityID, id))
}

func (k knowledge) Add(ctx context.Context, m *model.IdentityKnowledge) (*model.IdentityKnowledge, error) {
	id := newID(m.ID)
	if _, err := k.s.exec(ctx, k.s.db, `
        INSERT INTO identity_knowledge (id, identity_id, knower_character_id, knowledge_level, since_when,
            discovered_how, is_secret, created_at)
        VALUES (?,?,?,?,?,?,?,?)
    `, id, m.IdentityID, m.KnowerCharacterID, m.KnowledgeLevel, m.SinceWhen,
		m.DiscoveredHow, m.IsSecret, k.s.stamp()); err != nil {
		return nil, err
	}
	return k.get(ctx, k.s.db, m.IdentityID, id)
}

func (k knowledge) Get(ctx context.Context, identityID, id string) (*model.IdentityKnowledge, error) {
	return k.get(ctx, k.s.db, identityID, id)
}

func (k knowledge) FindByKnower(ctx context.Context, identityID, knowerCharacterID string) (*model.IdentityKnowledge, error) {
	return scanKnowledge(k.s.queryRow(ctx, k.s.db,
		knowledgeSelect+` WHERE k.identity_id=? AND k.knower_character_id=?`, identityID, knowerCharacterID))
}

func (k knowledge) List(ctx context.Context, identityID string) ([]*model.IdentityKnowledge, error) {
	rows, err := k.s.query(ctx, k.s.db, knowledgeSelect+` WHERE k.identity_id=? ORDER BY k.created_at, k.id`, identityID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanKnowledge)
}

func (k knowledge) Update(ctx context.Context, identityID, id string, p model.KnowledgePatch) (*model.IdentityKnowledge, error) {
	var out *model.IdentityKnowledge
	err := k.s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := k.get(ctx, tx, identityID, id)
		if err != nil {
			return err
		}
		if p.KnowledgeLevel != nil {
			cur.KnowledgeLevel = *p.KnowledgeLevel
		}
		if p.SinceWhen != nil {
			cur.SinceWhen = *p.SinceWhen
		}
		if p.DiscoveredHow != nil {
			cur.DiscoveredHow = *p.DiscoveredHow
		}
		if p.IsSecret != nil {
			cur.IsSecret = *p.IsSecret
		}
		if _, err := k.s.exec(ctx, tx, `
            UPDATE identity_knowledge SET knowledge_level=?, since_when=?, discovered_how=?, is_secret=?
            WHERE identity_id=? AND id=?
        `, cur.KnowledgeLevel, cur.SinceWhen, cur.DiscoveredHow, cur.IsSecret, identityID, id); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (k knowledge) Delete(ctx context.Context, identityID, id string) error {
	return mustAffect(k.s.exec(ctx, k.s.db, `DELETE FROM identity_knowledge WHERE identity_id=? AND id=?`, identityID, id))
}
