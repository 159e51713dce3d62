// Package store implements the read-only query gateway over the directory
// database and the identity resolver built on top of it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/userfed/pkg/authuser"
	"github.com/platinummonkey/userfed/pkg/config"
)

// ErrNotFound is returned when an exact lookup matches no row. It is the
// only condition reported this way; every other failure wraps the driver
// error so callers can tell "no such user" from "directory unreachable".
var ErrNotFound = errors.New("user not found")

// Store is the read-only gateway to the directory database. All methods are
// safe for concurrent use; the only shared state is the underlying pool.
type Store struct {
	db      *sqlx.DB
	source  string
	log     logrus.FieldLogger
	metrics *Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics attaches Prometheus instrumentation to the store.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New opens a PostgreSQL pool from the configuration, applies the pool
// settings, and verifies connectivity within the configured timeout.
func New(cfg config.Config, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewWithDB(db, cfg.Source, opts...)
	s.log.WithFields(logrus.Fields{
		"source":         s.source,
		"max_open_conns": cfg.MaxOpenConns,
	}).Debug("directory store connected")
	return s, nil
}

// NewWithDB wraps an existing database handle, typically a pool the host
// already manages. The source must be a plain or schema-qualified SQL
// identifier; New validates this through the configuration, NewWithDB
// trusts its caller. An empty source selects the default restricted view.
func NewWithDB(db *sql.DB, source string, opts ...Option) *Store {
	if source == "" {
		source = config.DefaultSource
	}
	s := &Store{
		// The Unsafe handle lets the row mapping ignore columns it does not
		// know, which is what makes custom views with extra columns work.
		db:     sqlx.NewDb(db, "postgres").Unsafe(),
		source: source,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
	}
	if s.metrics != nil {
		s.metrics.observePool(s.db.DB)
	}
	return s
}

// Page bounds list and search results. A negative Offset or Limit leaves
// that bound unconstrained.
type Page struct {
	Offset int
	Limit  int
}

// Unpaged returns the full result set.
func Unpaged() Page { return Page{Offset: -1, Limit: -1} }

// DefaultPage is a conservative first page for interactive callers.
func DefaultPage() Page { return Page{Offset: 0, Limit: 50} }

// apply appends LIMIT and OFFSET clauses for the non-negative bounds,
// extending args with the bound parameters.
func (p Page) apply(query string, args []interface{}) (string, []interface{}) {
	if p.Limit >= 0 {
		args = append(args, p.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if p.Offset >= 0 {
		args = append(args, p.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}

// FindByID returns the user with the given primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (rec *authuser.Record, err error) {
	defer s.observe("find_by_id", time.Now(), &err)

	query := "SELECT * FROM " + s.source + " WHERE id = $1"
	rec, err = authuser.ScanRecord(s.db.QueryRowxContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return rec, nil
}

// FindByUsername returns the user with exactly the given username. The
// match is case-sensitive under the column's collation.
func (s *Store) FindByUsername(ctx context.Context, username string) (rec *authuser.Record, err error) {
	defer s.observe("find_by_username", time.Now(), &err)

	query := "SELECT * FROM " + s.source + " WHERE username = $1"
	rec, err = authuser.ScanRecord(s.db.QueryRowxContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return rec, nil
}

// FindByEmail returns the user with exactly the given email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (rec *authuser.Record, err error) {
	defer s.observe("find_by_email", time.Now(), &err)

	query := "SELECT * FROM " + s.source + " WHERE email = $1"
	rec, err = authuser.ScanRecord(s.db.QueryRowxContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return rec, nil
}

// Search returns users whose username, email, or name contains the term,
// case-insensitively, ordered by username. An empty result is not an
// error.
func (s *Store) Search(ctx context.Context, term string, page Page) (recs []*authuser.Record, err error) {
	defer s.observe("search", time.Now(), &err)

	query := "SELECT * FROM " + s.source +
		" WHERE username ILIKE $1 OR email ILIKE $1 OR firstname ILIKE $1 OR lastname ILIKE $1" +
		" ORDER BY username ASC"
	query, args := page.apply(query, []interface{}{"%" + term + "%"})

	rows, qerr := s.db.QueryxContext(ctx, query, args...)
	if qerr != nil {
		return nil, fmt.Errorf("failed to search users: %w", qerr)
	}
	defer rows.Close()

	recs, err = authuser.ScanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return recs, nil
}

// List returns users ordered by username. The ordering is fixed so that
// paging through the directory yields disjoint, covering pages.
func (s *Store) List(ctx context.Context, page Page) (recs []*authuser.Record, err error) {
	defer s.observe("list", time.Now(), &err)

	query := "SELECT * FROM " + s.source + " ORDER BY username ASC"
	query, args := page.apply(query, nil)

	rows, qerr := s.db.QueryxContext(ctx, query, args...)
	if qerr != nil {
		return nil, fmt.Errorf("failed to list users: %w", qerr)
	}
	defer rows.Close()

	recs, err = authuser.ScanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return recs, nil
}

// Count returns the number of rows the configured source exposes.
func (s *Store) Count(ctx context.Context) (n int64, err error) {
	defer s.observe("count", time.Now(), &err)

	query := "SELECT COUNT(*) FROM " + s.source
	if err = s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// HealthCheck verifies database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unhealthy: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Stats returns connection pool statistics.
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}

// Source returns the configured table or view name.
func (s *Store) Source() string {
	return s.source
}

// observe records operation metrics. The error is read through a pointer at
// defer time so the outcome label reflects the final return value.
func (s *Store) observe(operation string, start time.Time, err *error) {
	if s.metrics == nil {
		return
	}
	outcome := "found"
	if *err != nil {
		if errors.Is(*err, ErrNotFound) {
			outcome = "not_found"
		} else {
			outcome = "error"
		}
	}
	s.metrics.LookupsTotal.WithLabelValues(operation, outcome).Inc()
	s.metrics.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
