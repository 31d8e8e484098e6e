package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-admin-console/internal/journal"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// NewSQLite opens the journal database at dsn (a file path or ":memory:").
func NewSQLite(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", dsn, err)
	}
	// sqlite serializes writers anyway; one connection also keeps
	// ":memory:" databases from splitting per connection
	db.SetMaxOpenConns(1)
	return db, nil
}

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Migrate(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS journal_entries (
            id         TEXT PRIMARY KEY,
            feature    TEXT NOT NULL,
            action     TEXT NOT NULL,
            entity_id  TEXT NOT NULL,
            result     TEXT NOT NULL,
            error      TEXT,
            created_at TIMESTAMP NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_journal_feature ON journal_entries (feature, created_at);
    `)
	return err
}

func (r *SQLRepository) Create(ctx context.Context, e *model.JournalEntry) error {
	query := `
        INSERT INTO journal_entries (id, feature, action, entity_id, result, error, created_at)
        VALUES (:id, :feature, :action, :entity_id, :result, :error, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, e)
	return err
}

func (r *SQLRepository) FindAll(ctx context.Context, f *journal.Filters) ([]model.JournalEntry, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.Feature != "" {
		conditions = append(conditions, "feature = :feature")
		args["feature"] = f.Feature
	}
	if f.EntityID != "" {
		conditions = append(conditions, "entity_id = :entity_id")
		args["entity_id"] = f.EntityID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT * FROM journal_entries" + whereClause + " ORDER BY created_at DESC, rowid DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	entries := []model.JournalEntry{}
	if err := nstmt.SelectContext(ctx, &entries, args); err != nil {
		return nil, err
	}
	return entries, nil
}
