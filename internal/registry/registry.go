// Package registry persists routing table entries in SQLite so the route
// set registered by health-monitoring collaborators survives daemon
// restarts. The live routing table stays in memory; the registry is a
// write-behind mirror plus a seed source at startup.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ssd-technologies/trivium/internal/manifold"
)

// Store manages persisted route entries.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the registry database at path. Pass ":memory:"
// for an in-memory database (useful for tests).
func Open(path string) (*Store, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping registry: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		destination TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		load_factor REAL NOT NULL DEFAULT 0,
		health_score REAL NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create routes table: %w", err)
	}

	return &Store{db: db}, nil
}

// Upsert inserts or replaces a route entry.
func (s *Store) Upsert(id string, entry manifold.RouteEntry) error {
	updated := entry.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO routes (id, destination, priority, load_factor, health_score, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, entry.Destination, entry.Priority, entry.LoadFactor, entry.HealthScore, updated.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert route %s: %w", id, err)
	}
	return nil
}

// UpdateHealth sets the health score of a persisted route. Returns
// manifold.ErrUnknownRoute if the id is absent.
func (s *Store) UpdateHealth(id string, score float64) error {
	res, err := s.db.Exec(
		`UPDATE routes SET health_score = ?, updated_at = ? WHERE id = ?`,
		score, time.Now().UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("update health %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", manifold.ErrUnknownRoute, id)
	}
	return nil
}

// Load returns all persisted route entries keyed by route id.
func (s *Store) Load() (map[string]manifold.RouteEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, destination, priority, load_factor, health_score, updated_at FROM routes`,
	)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]manifold.RouteEntry)
	for rows.Next() {
		var (
			id        string
			entry     manifold.RouteEntry
			priority  int
			updatedMs int64
		)
		if err := rows.Scan(&id, &entry.Destination, &priority, &entry.LoadFactor, &entry.HealthScore, &updatedMs); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		entry.Priority = uint8(priority)
		entry.LastUpdated = time.UnixMilli(updatedMs)
		out[id] = entry
	}
	return out, rows.Err()
}

// Seed loads all persisted entries into the given route store.
func (s *Store) Seed(rs manifold.RouteStore) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	for id, entry := range entries {
		rs.AddRoute(id, entry)
	}
	return nil
}

// Delete removes a persisted route by id.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM routes WHERE id = ?`, id)
	return err
}

// PruneStale removes routes not updated within maxAge and returns the
// count removed.
func (s *Store) PruneStale(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge).UnixMilli()
	res, err := s.db.Exec(`DELETE FROM routes WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// StartPruner runs PruneStale every interval in a background goroutine
// until ctx is cancelled.
func (s *Store) StartPruner(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.PruneStale(maxAge)
				if err != nil {
					log.Printf("registry prune: %v", err)
				} else if n > 0 {
					log.Printf("registry pruned %d stale routes", n)
				}
			}
		}
	}()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
