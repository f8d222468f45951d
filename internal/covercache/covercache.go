package covercache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store keeps identifier->cover-url and isbn->identifier mappings between
// resolutions. It is opportunistic: a failed cache write never fails the
// record that triggered it, callers log and move on.
type Store struct {
	db *sql.DB
}

func Open(sqlitePath string) (*Store, error) {
	dir := filepath.Dir(sqlitePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite WAL: %w", err)
	}

	schema := `
CREATE TABLE IF NOT EXISTS cover_urls (
	identifier TEXT PRIMARY KEY,
	urls       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS isbn_identifiers (
	isbn       TEXT PRIMARY KEY,
	identifier TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the cache database is reachable.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// CacheCover remembers the cover URLs found for a catalog identifier.
func (s *Store) CacheCover(identifier string, urls []string) error {
	if identifier == "" || len(urls) == 0 {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO cover_urls (identifier, urls) VALUES (?, ?)
		 ON CONFLICT(identifier) DO UPDATE SET urls = excluded.urls`,
		identifier, strings.Join(urls, "\n"),
	)
	if err != nil {
		return fmt.Errorf("cache cover urls: %w", err)
	}
	return nil
}

// CachedCover returns the remembered cover URLs for an identifier, nil when
// nothing is cached.
func (s *Store) CachedCover(identifier string) ([]string, error) {
	var joined string
	err := s.db.QueryRow(`SELECT urls FROM cover_urls WHERE identifier = ?`, identifier).Scan(&joined)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cached cover urls: %w", err)
	}
	return strings.Split(joined, "\n"), nil
}

// CacheISBN remembers which catalog identifier an ISBN resolved to.
func (s *Store) CacheISBN(isbn string, identifier string) error {
	if isbn == "" || identifier == "" {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO isbn_identifiers (isbn, identifier) VALUES (?, ?)
		 ON CONFLICT(isbn) DO UPDATE SET identifier = excluded.identifier`,
		isbn, identifier,
	)
	if err != nil {
		return fmt.Errorf("cache isbn identifier: %w", err)
	}
	return nil
}

// OrphanISBNs lists ISBN mappings pointing at identifiers that have no
// cached cover, sorted by ISBN.
func (s *Store) OrphanISBNs() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT i.isbn
		FROM isbn_identifiers i
		LEFT JOIN cover_urls c ON c.identifier = i.identifier
		WHERE c.identifier IS NULL
		ORDER BY i.isbn ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query orphan isbns: %w", err)
	}
	defer rows.Close()

	var orphans []string
	for rows.Next() {
		var isbn string
		if err := rows.Scan(&isbn); err != nil {
			return nil, fmt.Errorf("scan orphan isbn: %w", err)
		}
		orphans = append(orphans, isbn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orphan isbns: %w", err)
	}
	return orphans, nil
}

// DeleteOrphanISBNs removes the mappings OrphanISBNs reports and returns the
// number deleted.
func (s *Store) DeleteOrphanISBNs() (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM isbn_identifiers
		WHERE identifier NOT IN (SELECT identifier FROM cover_urls)
	`)
	if err != nil {
		return 0, fmt.Errorf("delete orphan isbns: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("orphan delete rows affected: %w", err)
	}
	return deleted, nil
}

// Counts returns the number of cached cover rows and isbn mappings.
func (s *Store) Counts() (int64, int64, error) {
	var covers, isbns int64
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM cover_urls`).Scan(&covers); err != nil {
		return 0, 0, fmt.Errorf("count cover rows: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM isbn_identifiers`).Scan(&isbns); err != nil {
		return 0, 0, fmt.Errorf("count isbn rows: %w", err)
	}
	return covers, isbns, nil
}

// IdentifierForISBN returns the cached identifier for an ISBN, empty when
// unknown.
func (s *Store) IdentifierForISBN(isbn string) (string, error) {
	var identifier string
	err := s.db.QueryRow(`SELECT identifier FROM isbn_identifiers WHERE isbn = ?`, isbn).Scan(&identifier)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load identifier for isbn: %w", err)
	}
	return identifier, nil
}
