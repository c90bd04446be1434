package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Step is one named, idempotent schema change.
type Step struct {
	Name string
	SQL  string
}

var baseSteps = []Step{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
}

// ChatSteps is the schema of the supervised chat application.
var ChatSteps = []Step{
	{
		Name: "create_table_parents",
		SQL: `CREATE TABLE IF NOT EXISTS parents (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL UNIQUE,
  name          TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_children",
		SQL: `CREATE TABLE IF NOT EXISTS children (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  parent_id      UUID        NOT NULL REFERENCES parents (id) ON DELETE CASCADE,
  username       TEXT        NOT NULL UNIQUE,
  display_name   TEXT        NOT NULL,
  password_hash  TEXT        NOT NULL,
  oversight_mode TEXT        NOT NULL DEFAULT 'approve' CHECK (oversight_mode IN ('off', 'monitor', 'approve')),
  quiet_enabled  BOOLEAN     NOT NULL DEFAULT false,
  quiet_start    INTEGER     NOT NULL DEFAULT 0 CHECK (quiet_start BETWEEN 0 AND 1439),
  quiet_end      INTEGER     NOT NULL DEFAULT 0 CHECK (quiet_end BETWEEN 0 AND 1439),
  timezone       TEXT        NOT NULL DEFAULT 'UTC',
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_children_parent_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_children_parent_id ON children (parent_id);`,
	},
	{
		Name: "create_table_friendships",
		SQL: `CREATE TABLE IF NOT EXISTS friendships (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  requester_id UUID        NOT NULL REFERENCES children (id) ON DELETE CASCADE,
  addressee_id UUID        NOT NULL REFERENCES children (id) ON DELETE CASCADE,
  status       TEXT        NOT NULL CHECK (status IN ('pending', 'accepted', 'declined')),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  decided_at   TIMESTAMPTZ,
  CHECK (requester_id <> addressee_id)
);`,
	},
	{
		Name: "create_index_friendships_pair",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS idx_friendships_pair
  ON friendships (LEAST(requester_id, addressee_id), GREATEST(requester_id, addressee_id));`,
	},
	{
		Name: "create_table_timeouts",
		SQL: `CREATE TABLE IF NOT EXISTS timeouts (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  child_id   UUID        NOT NULL REFERENCES children (id) ON DELETE CASCADE,
  parent_id  UUID        NOT NULL REFERENCES parents (id) ON DELETE CASCADE,
  reason     TEXT        NOT NULL DEFAULT '',
  starts_at  TIMESTAMPTZ NOT NULL,
  ends_at    TIMESTAMPTZ NOT NULL,
  lifted_at  TIMESTAMPTZ,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (ends_at > starts_at)
);`,
	},
	{
		Name: "create_index_timeouts_child_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_timeouts_child_id ON timeouts (child_id, ends_at);`,
	},
	{
		Name: "create_table_messages",
		SQL: `CREATE TABLE IF NOT EXISTS messages (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  sender_id    UUID        NOT NULL REFERENCES children (id) ON DELETE CASCADE,
  recipient_id UUID        NOT NULL REFERENCES children (id) ON DELETE CASCADE,
  body         TEXT        NOT NULL,
  status       TEXT        NOT NULL CHECK (status IN ('pending', 'approved', 'denied', 'delivered')),
  deny_reason  TEXT        NOT NULL DEFAULT '',
  decided_by   UUID        REFERENCES parents (id) ON DELETE SET NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  decided_at   TIMESTAMPTZ,
  delivered_at TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_messages_conversation",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (sender_id, recipient_id, created_at);`,
	},
	{
		Name: "create_index_messages_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_messages_status ON messages (status) WHERE status IN ('pending', 'approved');`,
	},
}

// WebSteps is the schema of the social application.
var WebSteps = []Step{
	{
		Name: "create_table_identities",
		SQL: `CREATE TABLE IF NOT EXISTS identities (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  tier          TEXT        NOT NULL DEFAULT 'free' CHECK (tier IN ('free', 'plus', 'pro')),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS profiles (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  identity_id  UUID        NOT NULL REFERENCES identities (id) ON DELETE CASCADE,
  handle       TEXT        NOT NULL UNIQUE,
  display_name TEXT        NOT NULL,
  bio          TEXT        NOT NULL DEFAULT '',
  avatar_key   TEXT        NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_profiles_identity_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_profiles_identity_id ON profiles (identity_id, created_at);`,
	},
	{
		Name: "create_table_posts",
		SQL: `CREATE TABLE IF NOT EXISTS posts (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  profile_id UUID        NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
  body       TEXT        NOT NULL,
  media_key  TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_posts_profile_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_posts_profile_created_at ON posts (profile_id, created_at DESC);`,
	},
	{
		Name: "create_table_albums",
		SQL: `CREATE TABLE IF NOT EXISTS albums (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  profile_id UUID        NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
  title      TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_album_photos",
		SQL: `CREATE TABLE IF NOT EXISTS album_photos (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  album_id   UUID        NOT NULL REFERENCES albums (id) ON DELETE CASCADE,
  media_key  TEXT        NOT NULL UNIQUE,
  caption    TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_follows",
		SQL: `CREATE TABLE IF NOT EXISTS follows (
  follower_id UUID        NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
  followee_id UUID        NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (follower_id, followee_id),
  CHECK (follower_id <> followee_id)
);`,
	},
}

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureMigrated applies every step not yet recorded in schema_migrations.
// Each step runs in its own transaction together with its ledger row.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string, steps ...[]Step) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Str("status", "error").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Send()
		return fmt.Errorf("failed to create migration ledger: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.Error().Err(err).Str("event", "db_migration_failed").Str("status", "error").Send()
		return err
	}

	all := append([]Step{}, baseSteps...)
	for _, s := range steps {
		all = append(all, s...)
	}

	ran := 0
	for _, step := range all {
		if applied[step.Name] {
			continue
		}
		stepStart := time.Now()
		if err := runStep(ctx, db, step); err != nil {
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		ran++
		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	event := "db_migration_success"
	if ran == 0 {
		event = "db_migration_skip"
	}
	log.Info().
		Str("event", event).
		Str("status", "success").
		Int("steps_applied", ran).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration ledger: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func runStep(ctx context.Context, db *sql.DB, step Step) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
