package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/sportsday/internal/models"
)

// ChangeNotifier is told about every committed mutation
type ChangeNotifier interface {
	Changed(revision int64)
}

// Repository provides data access methods
type Repository struct {
	db  *sql.DB
	now func() time.Time

	mu       sync.RWMutex
	notifier ChangeNotifier
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db, now: time.Now}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SetNotifier registers the receiver of change notifications
func (r *Repository) SetNotifier(n ChangeNotifier) {
	r.mu.Lock()
	r.notifier = n
	r.mu.Unlock()
}

func (r *Repository) notify(rev int64) {
	r.mu.RLock()
	n := r.notifier
	r.mu.RUnlock()
	if n != nil {
		n.Changed(rev)
	}
}

func (r *Repository) clock() time.Time {
	if r.now == nil {
		return time.Now().UTC()
	}
	return r.now().UTC()
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			event_type TEXT NOT NULL DEFAULT 'Individual',
			description TEXT,
			time TEXT,
			venue TEXT,
			has_results BOOLEAN NOT NULL DEFAULT 0,
			winners TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS revision (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			value INTEGER NOT NULL
		)`,
		`INSERT OR IGNORE INTO revision (id, value) VALUES (1, 0)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_category ON events(category)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// Note: base_url is intentionally not set here - it's set by app.go
	// with the detected LAN IP address on startup
	defaultSettings := map[string]string{
		"scoring_table":  "standard",
		"ranking_policy": "zero_sentinel",
		"site_title":     "Sports Day",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// mutate runs fn in a transaction, bumps the revision and notifies the
// change listener once the transaction has committed.
func (r *Repository) mutate(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE revision SET value = value + 1 WHERE id = 1`); err != nil {
		return err
	}
	var rev int64
	if err := tx.QueryRowContext(ctx, `SELECT value FROM revision WHERE id = 1`).Scan(&rev); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	r.notify(rev)
	return nil
}

// ==================== Event Methods ====================

const eventColumns = `id, name, category, event_type, description, time, venue, has_results, winners, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (models.EventRecord, error) {
	var (
		e                      models.EventRecord
		category, typ          string
		description, tm, venue sql.NullString
		winners                sql.NullString
	)
	if err := s.Scan(&e.ID, &e.Name, &category, &typ, &description, &tm, &venue, &e.HasResults, &winners, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return models.EventRecord{}, err
	}
	e.Category = models.Category(category)
	e.Type = models.EventType(typ)
	e.Description = description.String
	e.Time = tm.String
	e.Venue = venue.String

	e.Winners = []models.WinnerEntry{}
	if winners.Valid && winners.String != "" {
		if err := json.Unmarshal([]byte(winners.String), &e.Winners); err != nil {
			return models.EventRecord{}, fmt.Errorf("decoding winners of event %s: %w", e.ID, err)
		}
	}
	return e, nil
}

func encodeWinners(w []models.WinnerEntry) (string, error) {
	if w == nil {
		w = []models.WinnerEntry{}
	}
	b, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listEvents(ctx context.Context, q queryer) ([]models.EventRecord, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.EventRecord{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListEvents returns every event in creation order
func (r *Repository) ListEvents(ctx context.Context) ([]models.EventRecord, error) {
	return listEvents(ctx, r.db)
}

// Snapshot returns every event together with the revision they were read at
func (r *Repository) Snapshot(ctx context.Context) ([]models.EventRecord, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	var rev int64
	if err := tx.QueryRowContext(ctx, `SELECT value FROM revision WHERE id = 1`).Scan(&rev); err != nil {
		return nil, 0, err
	}
	events, err := listEvents(ctx, tx)
	if err != nil {
		return nil, 0, err
	}
	return events, rev, tx.Commit()
}

// Revision returns the current data revision
func (r *Repository) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx, `SELECT value FROM revision WHERE id = 1`).Scan(&rev)
	return rev, err
}

// GetEvent retrieves a single event
func (r *Repository) GetEvent(ctx context.Context, id string) (*models.EventRecord, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, e *models.EventRecord) error {
	winners, err := encodeWinners(e.Winners)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Name, string(e.Category), string(e.Type), e.Description, e.Time, e.Venue, e.HasResults, winners, e.CreatedAt, e.UpdatedAt)
	return err
}

// CreateEvent stores a new event. An ID is generated when e.ID is empty;
// timestamps are always set here.
func (r *Repository) CreateEvent(ctx context.Context, e *models.EventRecord) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := r.clock()
	e.CreatedAt, e.UpdatedAt = now, now
	return r.mutate(ctx, func(tx *sql.Tx) error {
		return insertEvent(ctx, tx, e)
	})
}

// UpdateEvent overwrites an event's details, winners included
func (r *Repository) UpdateEvent(ctx context.Context, e *models.EventRecord) error {
	winners, err := encodeWinners(e.Winners)
	if err != nil {
		return err
	}
	e.UpdatedAt = r.clock()
	return r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE events SET name = ?, category = ?, event_type = ?, description = ?, time = ?, venue = ?,
				has_results = ?, winners = ?, updated_at = ?
			WHERE id = ?
		`, e.Name, string(e.Category), string(e.Type), e.Description, e.Time, e.Venue, e.HasResults, winners, e.UpdatedAt, e.ID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// SetWinners replaces an event's winners and results flag
func (r *Repository) SetWinners(ctx context.Context, id string, winners []models.WinnerEntry, hasResults bool) error {
	encoded, err := encodeWinners(winners)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE events SET winners = ?, has_results = ?, updated_at = ? WHERE id = ?`,
			encoded, hasResults, r.clock(), id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// UpdateWinnerImage sets the photo of the winner at position. When
// bucketRef is not empty it must match too.
func (r *Repository) UpdateWinnerImage(ctx context.Context, id string, position int, bucketRef, image string) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx, `SELECT winners FROM events WHERE id = ?`, id).Scan(&raw)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var winners []models.WinnerEntry
		if err := json.Unmarshal([]byte(raw), &winners); err != nil {
			return fmt.Errorf("decoding winners of event %s: %w", id, err)
		}
		found := false
		for i := range winners {
			if winners[i].Position != position {
				continue
			}
			if bucketRef != "" && winners[i].BucketRef != bucketRef {
				continue
			}
			winners[i].Image = image
			found = true
			break
		}
		if !found {
			return ErrNotFound
		}

		encoded, err := encodeWinners(winners)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE events SET winners = ?, updated_at = ? WHERE id = ?`, encoded, r.clock(), id)
		return err
	})
}

// DeleteEvent removes an event
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// RepairEventNames replaces empty or whitespace-only names with the
// placeholder and returns how many events were changed
func (r *Repository) RepairEventNames(ctx context.Context) (int, error) {
	var n int64
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE events SET name = ?, updated_at = ?
			WHERE TRIM(name, ' '||char(9)||char(10)||char(13)) = ''
		`, models.PlaceholderEventName, r.clock())
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return int(n), err
}

// ReplaceAllEvents swaps the whole event collection in one transaction.
// Used by imports.
func (r *Repository) ReplaceAllEvents(ctx context.Context, events []models.EventRecord) error {
	now := r.clock()
	return r.mutate(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
			return err
		}
		for i := range events {
			e := events[i]
			if e.ID == "" {
				e.ID = uuid.NewString()
			}
			if e.CreatedAt.IsZero() {
				// keep import order stable under ORDER BY created_at
				e.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
			}
			if e.UpdatedAt.IsZero() {
				e.UpdatedAt = now
			}
			if err := insertEvent(ctx, tx, &e); err != nil {
				return fmt.Errorf("inserting event %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value. Settings that change scoring also
// bump the revision so the scoreboard is rebuilt.
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	if scoringSettings[key] {
		return r.mutate(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
			return err
		})
	}
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

var scoringSettings = map[string]bool{
	"scoring_table":  true,
	"ranking_policy": true,
}

// GetStats returns row counts for the admin dashboard
func (r *Repository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total, withResults int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(has_results), 0) FROM events`).Scan(&total, &withResults); err != nil {
		return nil, err
	}
	stats["total_events"] = total
	stats["events_with_results"] = withResults
	stats["templates"] = total - withResults

	rev, err := r.Revision(ctx)
	if err != nil {
		return nil, err
	}
	stats["revision"] = rev

	return stats, nil
}

// validTables lists the tables ClearTable may touch
var validTables = map[string]bool{
	"events": true,
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	table = strings.TrimSpace(table)
	if !validTables[table] {
		return ErrInvalidTable
	}

	return r.mutate(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM "+table)
		return err
	})
}
