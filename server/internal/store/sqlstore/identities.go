package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mycelian/mycelian-identities/server/internal/model"
)

const identityCols = `id, project_id, character_id, name, identity_type, is_primary,
        appearance, personality, background, voice_style, status, created_at, updated_at`

type identities struct{ s *DB }

func scanIdentity(r scanner) (*model.Identity, error) {
	var m model.Identity
	var created, updated string
	if err := r.Scan(&m.ID, &m.ProjectID, &m.CharacterID, &m.Name, &m.IdentityType, &m.IsPrimary,
		&m.Appearance, &m.Personality, &m.Background, &m.VoiceStyle, &m.Status, &created, &updated); err != nil {
		return nil, notFound(err)
	}
	m.CreatedAt, m.UpdatedAt = parseTS(created), parseTS(updated)
	return &m, nil
}

func (i identities) get(ctx context.Context, q querier, id string) (*model.Identity, error) {
	return scanIdentity(i.s.queryRow(ctx, q, `SELECT `+identityCols+` FROM identities WHERE id=?`, id))
}

// demote clears is_primary on the character's identities other than keep.
func (i identities) demote(ctx context.Context, q querier, characterID, keep, stamp string) error {
	_, err := i.s.exec(ctx, q, `
        UPDATE identities SET is_primary=?, updated_at=?
        WHERE character_id=? AND is_primary=? AND id<>?
    `, false, stamp, characterID, true, keep)
	return err
}

func (i identities) Create(ctx context.Context, m *model.Identity) (*model.Identity, error) {
	out := *m
	out.ID = newID(m.ID)
	stamp := i.s.stamp()
	err := i.s.withTx(ctx, func(tx *sql.Tx) error {
		if out.IsPrimary {
			if err := i.demote(ctx, tx, out.CharacterID, out.ID, stamp); err != nil {
				return err
			}
		}
		_, err := i.s.exec(ctx, tx, `
            INSERT INTO identities (`+identityCols+`)
            VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
        `, out.ID, out.ProjectID, out.CharacterID, out.Name, out.IdentityType, out.IsPrimary,
			out.Appearance, out.Personality, out.Background, out.VoiceStyle, out.Status, stamp, stamp)
		return err
	})
	if err != nil {
		return nil, err
	}
	out.CreatedAt, out.UpdatedAt = parseTS(stamp), parseTS(stamp)
	return &out, nil
}

func (i identities) Get(ctx context.Context, id string) (*model.Identity, error) {
	return i.get(ctx, i.s.db, id)
}

var identitySortColumns = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
}

func (i identities) List(ctx context.Context, f model.IdentityFilter) ([]*model.Identity, int, error) {
	where := []string{"project_id=?"}
	args := []any{f.ProjectID}
	if f.CharacterID != "" {
		where = append(where, "character_id=?")
		args = append(args, f.CharacterID)
	}
	if f.IdentityType != "" {
		where = append(where, "identity_type=?")
		args = append(args, f.IdentityType)
	}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := i.s.queryRow(ctx, i.s.db, `SELECT COUNT(*) FROM identities WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := identitySortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}
	q := `SELECT ` + identityCols + ` FROM identities WHERE ` + cond + ` ORDER BY ` + col + ` ` + dir + `, id ` + dir
	if f.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := i.s.query(ctx, i.s.db, q, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows, scanIdentity)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (i identities) ListByCharacter(ctx context.Context, characterID string) ([]*model.Identity, error) {
	rows, err := i.s.query(ctx, i.s.db, `
        SELECT `+identityCols+` FROM identities
        WHERE character_id=? ORDER BY is_primary DESC, created_at ASC, id ASC
    `, characterID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanIdentity)
}

func (i identities) Update(ctx context.Context, id string, p model.IdentityPatch) (*model.Identity, error) {
	var out *model.Identity
	err := i.s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := i.get(ctx, tx, id)
		if err != nil {
			return err
		}
		applyIdentityPatch(cur, p)
		stamp := i.s.stamp()
		if p.IsPrimary != nil && *p.IsPrimary {
			if err := i.demote(ctx, tx, cur.CharacterID, cur.ID, stamp); err != nil {
				return err
			}
		}
		if _, err := i.s.exec(ctx, tx, `
            UPDATE identities SET name=?, identity_type=?, is_primary=?, appearance=?, personality=?,
                background=?, voice_style=?, status=?, updated_at=?
            WHERE id=?
        `, cur.Name, cur.IdentityType, cur.IsPrimary, cur.Appearance, cur.Personality,
			cur.Background, cur.VoiceStyle, cur.Status, stamp, cur.ID); err != nil {
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

func applyIdentityPatch(m *model.Identity, p model.IdentityPatch) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.IdentityType != nil {
		m.IdentityType = *p.IdentityType
	}
	if p.IsPrimary != nil {
		m.IsPrimary = *p.IsPrimary
	}
	if p.Appearance != nil {
		m.Appearance = *p.Appearance
	}
	if p.Personality != nil {
		m.Personality = *p.Personality
	}
	if p.Background != nil {
		m.Background = *p.Background
	}
	if p.VoiceStyle != nil {
		m.VoiceStyle = *p.VoiceStyle
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}

func (i identities) SetPrimary(ctx context.Context, characterID, id string) (*model.Identity, error) {
	var out *model.Identity
	err := i.s.withTx(ctx, func(tx *sql.Tx) error {
		stamp := i.s.stamp()
		if err := mustAffect(i.s.exec(ctx, tx, `
            UPDATE identities SET is_primary=?, updated_at=? WHERE id=? AND character_id=?
        `, true, stamp, id, characterID)); err != nil {
			return err
		}
		if err := i.demote(ctx, tx, characterID, id, stamp); err != nil {
			return err
		}
		var err error
		out, err = i.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (i identities) Delete(ctx context.Context, id string) error {
	return i.s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := i.s.exec(ctx, tx, `DELETE FROM identity_careers WHERE identity_id=?`, id); err != nil {
			return err
		}
		if _, err := i.s.exec(ctx, tx, `DELETE FROM identity_knowledge WHERE identity_id=?`, id); err != nil {
			return err
		}
		return mustAffect(i.s.exec(ctx, tx, `DELETE FROM identities WHERE id=?`, id))
	})
}
