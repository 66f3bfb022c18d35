package sqlstore

import "fmt"

func schema(d Dialect) []string {
	boolType := "INTEGER NOT NULL DEFAULT 0"
	if d == Postgres {
		boolType = "BOOLEAN NOT NULL DEFAULT FALSE"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS characters (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_characters_project ON characters(project_id)`,
		`CREATE TABLE IF NOT EXISTS careers (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			name       TEXT NOT NULL,
			type       TEXT NOT NULL,
			max_stage  INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_careers_project ON careers(project_id)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS identities (
			id            TEXT PRIMARY KEY,
			project_id    TEXT NOT NULL,
			character_id  TEXT NOT NULL,
			name          TEXT NOT NULL,
			identity_type TEXT NOT NULL,
			is_primary    %s,
			appearance    TEXT NOT NULL DEFAULT '',
			personality   TEXT NOT NULL DEFAULT '',
			background    TEXT NOT NULL DEFAULT '',
			voice_style   TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		)`, boolType),
		`CREATE INDEX IF NOT EXISTS idx_identities_project ON identities(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_identities_character ON identities(character_id)`,
		`CREATE TABLE IF NOT EXISTS identity_careers (
			id                       TEXT PRIMARY KEY,
			identity_id              TEXT NOT NULL,
			career_id                TEXT NOT NULL,
			career_type              TEXT NOT NULL,
			current_stage            INTEGER NOT NULL,
			stage_progress           INTEGER NOT NULL,
			started_at               TEXT NOT NULL DEFAULT '',
			reached_current_stage_at TEXT NOT NULL DEFAULT '',
			notes                    TEXT NOT NULL DEFAULT '',
			created_at               TEXT NOT NULL,
			updated_at               TEXT NOT NULL,
			UNIQUE (identity_id, career_id)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS identity_knowledge (
			id                  TEXT PRIMARY KEY,
			identity_id         TEXT NOT NULL,
			knower_character_id TEXT NOT NULL,
			knowledge_level     TEXT NOT NULL,
			since_when          TEXT NOT NULL,
			discovered_how      TEXT NOT NULL DEFAULT '',
			is_secret           %s,
			created_at          TEXT NOT NULL,
			UNIQUE (identity_id, knower_character_id)
		)`, boolType),
	}
}
