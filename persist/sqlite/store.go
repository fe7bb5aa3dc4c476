// Package sqlite persists a catalog in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mwantia/catalog"
	"github.com/mwantia/catalog/persist"
)

// SQLiteStore keeps one catalog per database file. Records carry an
// explicit position column so loading rebuilds insertion order exactly.
type SQLiteStore struct {
	db *sql.DB
}

var _ persist.Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// One connection keeps in-memory databases coherent across queries
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (ss *SQLiteStore) initSchema(ctx context.Context) error {
	_, err := ss.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS catalog_info (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			base TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS catalog_records (
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			location TEXT NOT NULL,
			shape TEXT NOT NULL,
			format TEXT NOT NULL,
			pattern TEXT,
			example TEXT,
			member_count INTEGER,
			PRIMARY KEY (owner, name)
		);
	`)

	return err
}

func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}

func (ss *SQLiteStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	var base string
	err := ss.db.QueryRowContext(ctx, `SELECT base FROM catalog_info WHERE id = 1`).Scan(&base)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: store holds no catalog", catalog.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := ss.db.QueryContext(ctx, `
		SELECT owner, name, location, shape, format, pattern, example, member_count
		FROM catalog_records ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cat := catalog.New(base)
	for rows.Next() {
		var record catalog.Dataset
		var shape string
		var pattern, example sql.NullString
		var memberCount sql.NullInt64

		if err := rows.Scan(&record.Owner, &record.Name, &record.Location,
			&shape, &record.Format, &pattern, &example, &memberCount); err != nil {
			return nil, fmt.Errorf("%w: %v", catalog.ErrCorruptIndex, err)
		}

		record.Shape, err = catalog.ParseShape(shape)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", catalog.ErrCorruptIndex, err)
		}

		if pattern.Valid {
			record.Pattern = pattern.String
		}
		if example.Valid {
			record.Example = example.String
		}
		if memberCount.Valid {
			record.MemberCount = int(memberCount.Int64)
		}

		cat.Put(&record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cat, nil
}

func (ss *SQLiteStore) Save(ctx context.Context, cat *catalog.Catalog) error {
	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_records`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_info (id, base) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET base = excluded.base
	`, cat.Base()); err != nil {
		return err
	}

	position := 0
	for record := range cat.Records() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_records (owner, name, position, location, shape, format, pattern, example, member_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, record.Owner, record.Name, position, record.Location,
			record.Shape.String(), string(record.Format),
			nullString(record.Pattern), nullString(record.Example), nullInt64(record.MemberCount))
		if err != nil {
			return err
		}

		position++
	}

	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
