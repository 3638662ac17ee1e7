package coord

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite keeps memberships in a table of a sqlite file so that fakes in
// separate processes on one host can see each other.
type SQLite struct {
	db     *sql.DB
	mu     sync.Mutex
	names  []string
	closed bool
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	// busy_timeout applies per connection, so set it through the DSN.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open membership db %s: %w", path, err)
	}

	query := `
	CREATE TABLE IF NOT EXISTS members (
		name          TEXT PRIMARY KEY,
		registered_at INTEGER NOT NULL
	);`
	if _, err := db.ExecContext(ctx, query); err != nil {
		db.Close()
		return nil, fmt.Errorf("init membership table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Register(ctx context.Context, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO members (name, registered_at) VALUES (?, ?)",
		member, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("register %s: %w", member, err)
	}
	s.names = append(s.names, member)
	return nil
}

// Members lists every registered name.
func (s *SQLite) Members(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM members ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Close deregisters everything this client registered and releases the file.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for _, n := range s.names {
		if _, err := s.db.Exec("DELETE FROM members WHERE name = ?", n); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("deregister %s: %w", n, err)
		}
	}
	if err := s.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
