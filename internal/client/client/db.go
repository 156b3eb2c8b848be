package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/feedbackportal/internal/client/migrations"
	"github.com/dmitrijs2005/feedbackportal/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Store is the client's local SQLite database.
type Store struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Tokens   *metadata.TokenStore
}

func (s *Store) Close() error { return s.DB.Close() }

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite file at dsn and applies
// the embedded migrations.
func InitDatabase(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := metadata.NewSQLiteRepository(db)
	return &Store{
		DB:       db,
		Metadata: repo,
		Tokens:   metadata.NewTokenStore(repo),
	}, nil
}
