package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fsagent/domain/index"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// IndexStore is a SQLite-backed implementation of index.Store. WAL mode
// lets readers query concurrently with a rebuild; each root rebuild is a
// single transaction, so readers observe either the old or the new
// snapshot, never a partial one.
type IndexStore struct {
	db *sql.DB
}

// NewIndexStore creates a new SQLite index store with the given
// configuration.
func NewIndexStore(cfg Config, opts ...Option) (*IndexStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &IndexStore{db: db}
	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// migrate creates the index tables if they don't exist.
func (s *IndexStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			name_lower TEXT NOT NULL,
			size INTEGER NOT NULL,
			created_at INTEGER,
			modified_at INTEGER NOT NULL,
			kind TEXT NOT NULL,
			extension TEXT NOT NULL DEFAULT '',
			indexed_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_files_name_lower ON files(name_lower);
		CREATE INDEX IF NOT EXISTS idx_files_modified ON files(modified_at);
		CREATE TABLE IF NOT EXISTS roots (
			root TEXT PRIMARY KEY,
			built_at INTEGER NOT NULL
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so paths and patterns match
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

func scopeClause(scope string, args *[]any) string {
	if scope == "" {
		return "1=1"
	}
	*args = append(*args, scope, escapeLike(scope+string(filepath.Separator))+"%")
	return `(path = ? OR path LIKE ? ESCAPE '\')`
}

// ReplaceRoot atomically replaces every entry under root in one
// transaction.
func (s *IndexStore) ReplaceRoot(ctx context.Context, root string, entries []index.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	prefix := escapeLike(root+string(filepath.Separator)) + "%"
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM files WHERE path = ? OR path LIKE ? ESCAPE '\'`,
		root, prefix,
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO files
		(path, name, name_lower, size, created_at, modified_at, kind, extension, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		var created sql.NullInt64
		if e.CreatedAt != nil {
			created = sql.NullInt64{Int64: e.CreatedAt.UnixNano(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			e.Path, e.Name, e.NameLower, e.SizeBytes, created,
			e.ModifiedAt.UnixNano(), string(e.Kind), e.Extension, e.IndexedAt.UnixNano(),
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO roots (root, built_at) VALUES (?, ?)`,
		root, time.Now().UnixNano(),
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Upsert inserts or refreshes a single entry.
func (s *IndexStore) Upsert(ctx context.Context, e index.Entry) error {
	var created sql.NullInt64
	if e.CreatedAt != nil {
		created = sql.NullInt64{Int64: e.CreatedAt.UnixNano(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO files
		(path, name, name_lower, size, created_at, modified_at, kind, extension, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.Path, e.Name, e.NameLower, e.SizeBytes, created,
		e.ModifiedAt.UnixNano(), string(e.Kind), e.Extension, e.IndexedAt.UnixNano(),
	)
	return err
}

// Remove deletes the entry for path if present.
func (s *IndexStore) Remove(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	return err
}

// Search returns matching entries in canonical order. Substring and
// attribute filters run in SQL; glob patterns are applied in Go over the
// ordered scan.
func (s *IndexStore) Search(ctx context.Context, q index.Query) ([]index.Entry, error) {
	var args []any
	clauses := []string{scopeClause(q.Scope, &args)}

	glob := q.NamePattern != "" && index.HasGlob(q.NamePattern)
	if q.NamePattern != "" && !glob {
		clauses = append(clauses, `name_lower LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(q.NamePattern))+"%")
	}
	if q.Extension != "" {
		clauses = append(clauses, `extension = ?`)
		args = append(args, strings.ToLower(strings.TrimPrefix(q.Extension, ".")))
	}
	if q.MinSize != nil {
		clauses = append(clauses, `size >= ?`)
		args = append(args, *q.MinSize)
	}
	if q.MaxSize != nil {
		clauses = append(clauses, `size <= ?`)
		args = append(args, *q.MaxSize)
	}
	if q.ModifiedAfter != nil {
		clauses = append(clauses, `modified_at >= ?`)
		args = append(args, q.ModifiedAfter.UnixNano())
	}
	if q.ModifiedBefore != nil {
		clauses = append(clauses, `modified_at <= ?`)
		args = append(args, q.ModifiedBefore.UnixNano())
	}

	query := fmt.Sprintf(`
		SELECT path, name, name_lower, size, created_at, modified_at, kind, extension, indexed_at
		FROM files WHERE %s
		ORDER BY modified_at DESC, name ASC, path ASC
	`, strings.Join(clauses, " AND "))
	if q.Limit > 0 && !glob {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []index.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if glob && !index.MatchName(q.NamePattern, e.Name) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, rows.Err()
}

func scanEntry(rows *sql.Rows) (index.Entry, error) {
	var (
		e        index.Entry
		created  sql.NullInt64
		modified int64
		indexed  int64
		kind     string
	)
	if err := rows.Scan(
		&e.Path, &e.Name, &e.NameLower, &e.SizeBytes, &created,
		&modified, &kind, &e.Extension, &indexed,
	); err != nil {
		return index.Entry{}, err
	}
	e.ModifiedAt = time.Unix(0, modified)
	e.IndexedAt = time.Unix(0, indexed)
	e.Kind = index.Kind(kind)
	if created.Valid {
		t := time.Unix(0, created.Int64)
		e.CreatedAt = &t
	}
	return e, nil
}

// Count reports entries at or below scope.
func (s *IndexStore) Count(ctx context.Context, scope string) (int, error) {
	var args []any
	query := fmt.Sprintf(`SELECT COUNT(*) FROM files WHERE %s`, scopeClause(scope, &args))

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Roots lists the roots built into the store.
func (s *IndexStore) Roots(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT root FROM roots ORDER BY root`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roots []string
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, rows.Err()
}

// Close releases the database connection.
func (s *IndexStore) Close() error {
	return s.db.Close()
}
