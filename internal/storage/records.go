// Package storage persists transcripts: a SQLite record store for the
// durable records and an optional Google Drive archiver.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mediascribe/mediascribe/internal/fault"
	"github.com/mediascribe/mediascribe/internal/types"
)

// RecordStore persists transcript records in SQLite.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore opens (or creates) the database at dbPath and ensures
// the schema exists.
func NewRecordStore(dbPath string) (*RecordStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fault.Wrap(fault.Persistence, "open database "+dbPath, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		type TEXT NOT NULL,
		file_name TEXT,
		file_size INTEGER,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fault.Wrap(fault.Persistence, "create transcripts table", err)
	}

	return &RecordStore{db: db}, nil
}

// Create persists a new transcript record, assigning its id and creation
// time. Records are never updated or deleted afterwards.
func (rs *RecordStore) Create(ctx context.Context, content string, kind types.SourceKind, fileName *string, fileSize *int64) (*types.Transcript, error) {
	rec := &types.Transcript{
		ID:        uuid.New().String(),
		Content:   content,
		Type:      kind,
		FileName:  fileName,
		FileSize:  fileSize,
		CreatedAt: time.Now().UTC(),
	}

	_, err := rs.db.ExecContext(ctx,
		`INSERT INTO transcripts (id, content, type, file_name, file_size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Content, string(rec.Type), rec.FileName, rec.FileSize, rec.CreatedAt)
	if err != nil {
		return nil, fault.Wrap(fault.Persistence, "insert transcript", err)
	}

	return rec, nil
}

// ListAll returns every transcript ordered by creation time, newest
// first. Each call is an independent full read.
func (rs *RecordStore) ListAll(ctx context.Context) ([]*types.Transcript, error) {
	rows, err := rs.db.QueryContext(ctx,
		`SELECT id, content, type, file_name, file_size, created_at
		 FROM transcripts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fault.Wrap(fault.Persistence, "list transcripts", err)
	}
	defer rows.Close()

	transcripts := make([]*types.Transcript, 0)
	for rows.Next() {
		var (
			rec      types.Transcript
			kind     string
			fileName sql.NullString
			fileSize sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Content, &kind, &fileName, &fileSize, &rec.CreatedAt); err != nil {
			return nil, fault.Wrap(fault.Persistence, "scan transcript row", err)
		}
		rec.Type = types.SourceKind(kind)
		if fileName.Valid {
			rec.FileName = &fileName.String
		}
		if fileSize.Valid {
			rec.FileSize = &fileSize.Int64
		}
		transcripts = append(transcripts, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.Persistence, "iterate transcript rows", err)
	}

	return transcripts, nil
}

// Close closes the database connection.
func (rs *RecordStore) Close() error {
	return rs.db.Close()
}
