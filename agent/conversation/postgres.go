package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "supervisor-agent/agent/contract"
)

type PostgresConfig struct {
	DSN         string        `envconfig:"DSN" split_words:"true"`
	MaxTurns    int           `envconfig:"MAX_TURNS" split_words:"true" default:"50"`
	DialTimeout time.Duration `envconfig:"DIAL_TIMEOUT" split_words:"true" default:"5s"`
}

type turnRow struct {
	bun.BaseModel `bun:"table:conversation_turns,alias:ct"`

	ID             int64     `bun:"id,pk,autoincrement"`
	ConversationID string    `bun:"conversation_id,notnull"`
	Role           string    `bun:"role,notnull"`
	Content        string    `bun:"content,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// PostgresStore persists turns in Postgres through bun. Used when more
// than one supervisor replica must share history.
type PostgresStore struct {
	db       *bun.DB
	maxTurns int
}

func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", contractx.ErrValidation)
	}

	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithDialTimeout(cfg.DialTimeout),
	)
	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	store := &PostgresStore{db: db, maxTurns: maxTurns}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*turnRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create conversation_turns table: %w", err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, conversationID string) ([]contractx.Turn, error) {
	id, err := normalizeID(conversationID)
	if err != nil {
		return nil, err
	}

	var rows []turnRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("conversation_id = ?", id).
		Order("id ASC").
		Limit(s.maxTurns).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load history for %s: %w", id, err)
	}

	out := make([]contractx.Turn, 0, len(rows))
	for _, row := range rows {
		out = append(out, contractx.Turn{
			Role:    row.Role,
			Content: row.Content,
			At:      row.CreatedAt,
		})
	}
	return out, nil
}

func (s *PostgresStore) Append(ctx context.Context, conversationID string, turns ...contractx.Turn) error {
	id, err := normalizeID(conversationID)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		return nil
	}

	rows := make([]turnRow, 0, len(turns))
	for _, turn := range turns {
		at := turn.At
		if at.IsZero() {
			at = time.Now().UTC()
		}
		rows = append(rows, turnRow{
			ConversationID: id,
			Role:           turn.Role,
			Content:        turn.Content,
			CreatedAt:      at,
		})
	}

	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("append turns for %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
