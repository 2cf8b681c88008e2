package stakereport

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists cache entries in a single-table sqlite database.
// Useful for wallets with years of history where one JSONL file per entry
// scan gets unwieldy.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the sqlite cache database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite cache %q: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS chain_queries (
		txid   TEXT PRIMARY KEY,
		detail TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (map[string]TxDetail, error) {
	rows, err := s.db.Query(`SELECT txid, detail FROM chain_queries`)
	if err != nil {
		return nil, fmt.Errorf("load sqlite cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]TxDetail)
	for rows.Next() {
		var txid, detail string
		if err := rows.Scan(&txid, &detail); err != nil {
			return nil, fmt.Errorf("load sqlite cache: %w", err)
		}
		var d TxDetail
		if err := json.Unmarshal([]byte(detail), &d); err != nil {
			return nil, fmt.Errorf("sqlite cache entry %s: %w", txid, err)
		}
		out[txid] = d
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Put(d TxDetail) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO chain_queries (txid, detail) VALUES (?, ?)
		 ON CONFLICT(txid) DO UPDATE SET detail = excluded.detail`,
		d.TxID, string(b))
	if err != nil {
		return fmt.Errorf("store sqlite cache entry %s: %w", d.TxID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
